package session

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/supernitin06/erp-tenants-sub000/core"
)

// Store is the single source of truth for "who is logged in". It owns the
// in-memory session, mirrors every change to durable storage and fans changes
// out to subscribers. All other components are read-only consumers.
type Store struct {
	auth    Authenticator
	storage Storage
	logger  core.Logger

	mu        sync.Mutex
	cur       *Session
	verifying int
	subs      map[int]func(*Session)
	nextSub   int
}

func NewStore(auth Authenticator, storage Storage, logger core.Logger) *Store {
	s := &Store{
		auth:    auth,
		storage: storage,
		logger:  logger,
		subs:    make(map[int]func(*Session)),
	}
	// rehydrate once at startup; a broken session file is equivalent to none
	sess, err := storage.Load()
	if err != nil {
		logger.Warn("session: rehydration failed", err)
	} else if sess != nil && sess.Token != "" {
		s.cur = sess
	}
	return s
}

// Current returns a snapshot of the in-memory session, or nil when anonymous.
// It never performs I/O.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.clone()
}

// Token returns the current bearer token (empty when anonymous). Satisfies
// the resource transport's token source.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.Token
}

// Verifying reports whether a background verification is in flight. The gate
// treats this as the "session not yet resolved" state.
func (s *Store) Verifying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifying > 0
}

// Subscribe registers fn to be called with a session snapshot on every
// change. The returned func cancels the subscription.
func (s *Store) Subscribe(fn func(*Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Login authenticates against the backend, then persists and publishes the
// new session. Validation failures never reach the network.
func (s *Store) Login(ctx context.Context, creds Credentials) (Session, error) {
	creds.Email = core.CleanString(creds.Email, true)
	if err := core.Validate.StructCtx(ctx, creds); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return Session{}, asValidationError(vErrs)
		}
		return Session{}, err
	}

	sess, err := s.auth.Login(ctx, creds)
	if err != nil {
		return Session{}, err
	}
	s.set(&sess)
	return sess, nil
}

// Register creates a new tenant account. It does not log the tenant in; the
// backend expects a fresh login afterwards.
func (s *Store) Register(ctx context.Context, reg Registration) (Tenant, error) {
	reg.Email = core.CleanString(reg.Email, true)
	reg.Username = core.CleanString(reg.Username, true)
	if err := core.Validate.StructCtx(ctx, reg); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok {
			return Tenant{}, asValidationError(vErrs)
		}
		return Tenant{}, err
	}
	return s.auth.Register(ctx, reg)
}

// Logout clears the persisted and in-memory session unconditionally. It is
// idempotent and safe to call when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	wasNil := s.cur == nil
	s.cur = nil
	s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("session: clearing storage", err)
	}
	if !wasNil {
		s.notify()
	}
}

// Verify asks the backend to confirm/refresh the current identity and merges
// the result into the session. Responses for a token that is no longer
// current are discarded: the last response to resolve for the active token
// wins, a superseded token's response never overwrites.
//
// Verify never logs the user out itself; callers decide what to do with an
// explicit unauthenticated error.
func (s *Store) Verify(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	if s.cur == nil {
		s.mu.Unlock()
		return nil, nil
	}
	token := s.cur.Token
	s.verifying++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.verifying--
		s.mu.Unlock()
	}()

	if TokenExpired(token) {
		return nil, core.NewAuthError(core.AuthUnauthenticated, errors.New("token expired"))
	}

	next, err := s.auth.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.cur == nil || s.cur.Token != token {
		// the active token changed while this verification was in flight
		s.mu.Unlock()
		return nil, nil
	}
	merged := merge(s.cur, &next)
	s.cur = merged
	s.mu.Unlock()

	s.persist(merged)
	s.notify()
	return merged.clone(), nil
}

func (s *Store) set(sess *Session) {
	s.mu.Lock()
	s.cur = sess.clone()
	s.mu.Unlock()
	s.persist(sess)
	s.notify()
}

func (s *Store) persist(sess *Session) {
	if err := s.storage.Save(sess); err != nil {
		s.logger.Warn("session: persisting", err)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	snapshot := s.cur.clone()
	fns := make([]func(*Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

func asValidationError(vErrs validator.ValidationErrors) error {
	flds := make([]core.FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, core.FieldError{Field: vErr.Field(), Error: vErr.Translate(core.Translator)})
	}
	return core.NewValidationError(errors.New("invalid input"), flds...)
}
