// Package localstore persists the session to a flat JSON file, the durable
// local storage of the client. The file holds the same four keys the source
// system kept in browser localStorage.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/supernitin06/erp-tenants-sub000/core/session"
)

type record struct {
	Token      string  `json:"token,omitempty"`
	TenantName string  `json:"tenantName,omitempty"`
	PlanID     *string `json:"planId,omitempty"`
	User       string  `json:"user,omitempty"` // JSON-serialized tenant profile
}

type Store struct {
	path string
}

var _ session.Storage = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted session; (nil, nil) when none is stored. Absence
// of the token is the signal for the anonymous state.
func (s *Store) Load() (*session.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading session file")
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decoding session file")
	}
	if rec.Token == "" {
		return nil, nil
	}

	sess := &session.Session{
		Token:      rec.Token,
		TenantSlug: rec.TenantName,
		PlanID:     rec.PlanID,
	}
	if rec.User != "" {
		var tenant session.Tenant
		if err := json.Unmarshal([]byte(rec.User), &tenant); err != nil {
			return nil, errors.Wrap(err, "decoding stored user")
		}
		sess.Tenant = &tenant
	}
	return sess, nil
}

// Save writes the session atomically (temp file + rename) so a crash cannot
// leave a half-written file behind.
func (s *Store) Save(sess *session.Session) error {
	rec := record{
		Token:      sess.Token,
		TenantName: sess.TenantSlug,
		PlanID:     sess.PlanID,
	}
	if sess.Tenant != nil {
		userData, err := json.Marshal(sess.Tenant)
		if err != nil {
			return errors.Wrap(err, "encoding user")
		}
		rec.User = string(userData)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding session file")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "creating temp session file")
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing session file")
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "closing session file")
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "replacing session file")
	}
	return nil
}

// Clear removes the session file; missing is fine.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
