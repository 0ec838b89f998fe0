package resource

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Status is the lifecycle of one cache entry.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "uninitialized"
	}
}

// Result is the uniform read shape handed to screens.
type Result[T any] struct {
	Status Status
	Data   T
	Err    error
}

// List is the fixed container every list endpoint normalizes into,
// regardless of how the backend wrapped the payload.
type List[T any] struct {
	Items []T
}

func (l List[T]) IsEmpty() bool { return len(l.Items) == 0 }

// Ack is the response of mutations that only return a message.
type Ack struct {
	Message string `json:"message"`
}

var null = []byte("null")

// UnwrapList normalizes the backend's inconsistent list shapes (a bare
// array, {"data": [...]}, or a named wrapper like {"books": [...]}) into a
// List. Wrapper keys are enumerated per endpoint, never guessed.
func UnwrapList[T any](raw []byte, keys ...string) (List[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, null) {
		return List[T]{}, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return List[T]{}, errors.Wrap(err, "decoding list")
		}
		return List[T]{Items: items}, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return List[T]{}, errors.Wrap(err, "decoding list wrapper")
	}
	for _, key := range append(keys, "data") {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		inner = bytes.TrimSpace(inner)
		if bytes.Equal(inner, null) {
			return List[T]{}, nil
		}
		var items []T
		if err := json.Unmarshal(inner, &items); err != nil {
			return List[T]{}, errors.Wrapf(err, "decoding %q list", key)
		}
		return List[T]{Items: items}, nil
	}
	return List[T]{}, nil
}

// UnwrapObject normalizes a single-object payload that may arrive bare or
// wrapped in {"data": {...}}.
func UnwrapObject[T any](raw []byte) (T, error) {
	var zero T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, null) {
		return zero, nil
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Data) > 0 {
			raw = wrapper.Data
		}
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, errors.Wrap(err, "decoding object")
	}
	return out, nil
}

// messageFromBody pulls the backend's human-readable message out of a
// response body, if one is present.
func messageFromBody(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}
