package resource

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Endpoint is one typed backend operation. Entity packages declare these as
// package-level values; queries set Provides, mutations set Invalidates.
type Endpoint[A, T any] struct {
	Name   string
	Method string

	// Path builds the request path (with query string) from the arguments.
	Path func(A) string

	// Body builds the request payload for writes; nil means no body.
	Body func(A) (interface{}, error)

	// Provides declares the tags a query's cached result depends on.
	Provides func(A) []Tag

	// Invalidates declares the tags a mutation staleness-marks on success.
	Invalidates func(A) []Tag

	// Transform unwraps the endpoint's response shape. When nil the body is
	// unmarshaled straight into T.
	Transform func([]byte) (T, error)

	// Pending is the toast shown while a mutation is in flight.
	Pending string
}

// key is the request identity: endpoint name plus serialized arguments.
// Struct field order makes the serialization canonical.
func (ep Endpoint[A, T]) key(args A) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", errors.Wrapf(err, "serializing %s args", ep.Name)
	}
	return ep.Name + ":" + string(data), nil
}

func (ep Endpoint[A, T]) request(args A) (*Request, error) {
	req := &Request{Method: ep.Method, Path: ep.Path(args)}
	if ep.Body != nil {
		payload, err := ep.Body(args)
		if err != nil {
			return nil, errors.Wrapf(err, "building %s body", ep.Name)
		}
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding %s body", ep.Name)
			}
			req.Body = data
		}
	}
	return req, nil
}

func (ep Endpoint[A, T]) decode(raw []byte) (T, error) {
	if ep.Transform != nil {
		return ep.Transform(raw)
	}
	var out T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return out, errors.Wrapf(err, "decoding %s response", ep.Name)
		}
	}
	return out, nil
}
