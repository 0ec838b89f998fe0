package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supernitin06/erp-tenants-sub000/core"
)

type fakeAuth struct {
	mu       sync.Mutex
	logins   int
	verifies int
	loginFn  func(Credentials) (Session, error)
	verifyFn func(string) (Session, error)
}

func (f *fakeAuth) Login(_ context.Context, creds Credentials) (Session, error) {
	f.mu.Lock()
	f.logins++
	f.mu.Unlock()
	return f.loginFn(creds)
}

func (f *fakeAuth) Verify(_ context.Context, token string) (Session, error) {
	f.mu.Lock()
	f.verifies++
	f.mu.Unlock()
	return f.verifyFn(token)
}

func (f *fakeAuth) Register(_ context.Context, _ Registration) (Tenant, error) {
	return Tenant{}, nil
}

func (f *fakeAuth) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

// memStorage duplicates storage/inmem to keep this package free of import
// cycles with its own consumers.
type memStorage struct {
	mu   sync.Mutex
	sess *Session
}

func (s *memStorage) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, nil
}

func (s *memStorage) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sess
	s.sess = &c
	return nil
}

func (s *memStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}

func (s *memStorage) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess == nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func strPtr(s string) *string { return &s }

func sessionFor(token, slug string) Session {
	return Session{
		Token:      token,
		TenantSlug: slug,
		Tenant:     &Tenant{Username: slug, IsActive: true, SubscriptionPlanID: strPtr("plan-1")},
		PlanID:     strPtr("plan-1"),
	}
}

func TestStore_LoginThenLogout(t *testing.T) {
	auth := &fakeAuth{loginFn: func(creds Credentials) (Session, error) {
		return sessionFor("tok-1", "acme"), nil
	}}
	storage := &memStorage{}
	store := NewStore(auth, storage, nopLogger{})

	sess, err := store.Login(context.Background(), Credentials{Email: "owner@acme.test", Password: "secret12"})
	require.NoError(t, err)
	assert.Equal(t, "acme", sess.TenantSlug)
	assert.False(t, storage.empty(), "login must persist the session")
	require.NotNil(t, store.Current())
	assert.Equal(t, "tok-1", store.Current().Token)

	store.Logout()
	assert.Nil(t, store.Current())
	assert.True(t, storage.empty(), "logout must clear durable storage")

	// idempotent
	store.Logout()
	assert.Nil(t, store.Current())
}

func TestStore_LoginValidationNeverReachesNetwork(t *testing.T) {
	auth := &fakeAuth{loginFn: func(Credentials) (Session, error) {
		t.Fatal("authenticator must not be called for invalid input")
		return Session{}, nil
	}}
	store := NewStore(auth, &memStorage{}, nopLogger{})

	_, err := store.Login(context.Background(), Credentials{Email: "not-an-email", Password: ""})
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %T", err)
	assert.NotEmpty(t, vErr.Fields)
	assert.Equal(t, 0, auth.loginCount())
}

func TestStore_Rehydrate(t *testing.T) {
	storage := &memStorage{}
	prior := sessionFor("tok-old", "acme")
	require.NoError(t, storage.Save(&prior))

	store := NewStore(&fakeAuth{}, storage, nopLogger{})
	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "tok-old", cur.Token)
	assert.Equal(t, "acme", cur.TenantSlug)
}

func TestStore_VerifyMergesFields(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(Credentials) (Session, error) {
			s := sessionFor("tok-1", "acme")
			s.Tenant.Name = "Acme Academy"
			s.Tenant.IsActive = false
			s.Tenant.SubscriptionPlanID = nil
			s.PlanID = nil
			return s, nil
		},
		verifyFn: func(token string) (Session, error) {
			// the backend omits the token and the display name
			return Session{
				Tenant: &Tenant{Username: "acme", IsActive: true, SubscriptionPlanID: strPtr("plan-9")},
			}, nil
		},
	}
	store := NewStore(auth, &memStorage{}, nopLogger{})
	_, err := store.Login(context.Background(), Credentials{Email: "owner@acme.test", Password: "secret12"})
	require.NoError(t, err)

	merged, err := store.Verify(context.Background())
	require.NoError(t, err)
	require.NotNil(t, merged)

	cur := store.Current()
	assert.Equal(t, "tok-1", cur.Token, "absent token must be left unchanged")
	assert.Equal(t, "Acme Academy", cur.Tenant.Name, "absent name must be left unchanged")
	assert.True(t, cur.Tenant.IsActive)
	require.NotNil(t, cur.PlanID)
	assert.Equal(t, "plan-9", *cur.PlanID)
}

func TestStore_VerifyDiscardsSupersededToken(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	auth := &fakeAuth{
		loginFn: func(creds Credentials) (Session, error) {
			if creds.Email == "owner@acme.test" {
				return sessionFor("tok-a", "acme"), nil
			}
			return sessionFor("tok-b", "beta"), nil
		},
		verifyFn: func(token string) (Session, error) {
			if token == "tok-a" {
				close(started)
				<-release
				return sessionFor("tok-a", "stale"), nil
			}
			return sessionFor(token, "beta"), nil
		},
	}
	store := NewStore(auth, &memStorage{}, nopLogger{})
	_, err := store.Login(context.Background(), Credentials{Email: "owner@acme.test", Password: "secret12"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var lateSess *Session
	var lateErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		lateSess, lateErr = store.Verify(context.Background())
	}()

	<-started
	// the active token changes while tok-a's verification is still in flight
	_, err = store.Login(context.Background(), Credentials{Email: "owner@beta.test", Password: "secret12"})
	require.NoError(t, err)
	close(release)
	wg.Wait()

	assert.NoError(t, lateErr)
	assert.Nil(t, lateSess, "late result for a superseded token must be discarded")
	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "tok-b", cur.Token)
	assert.Equal(t, "beta", cur.TenantSlug)
}

func TestStore_VerifyWhenAnonymous(t *testing.T) {
	store := NewStore(&fakeAuth{}, &memStorage{}, nopLogger{})
	sess, err := store.Verify(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_SubscribeNotifies(t *testing.T) {
	auth := &fakeAuth{loginFn: func(Credentials) (Session, error) {
		return sessionFor("tok-1", "acme"), nil
	}}
	store := NewStore(auth, &memStorage{}, nopLogger{})

	var mu sync.Mutex
	var got []*Session
	cancel := store.Subscribe(func(s *Session) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})

	_, err := store.Login(context.Background(), Credentials{Email: "owner@acme.test", Password: "secret12"})
	require.NoError(t, err)
	store.Logout()

	mu.Lock()
	require.Len(t, got, 2)
	assert.Equal(t, "acme", got[0].TenantSlug)
	assert.Nil(t, got[1])
	mu.Unlock()

	cancel()
	store.Logout()
	mu.Lock()
	assert.Len(t, got, 2, "cancelled subscriber must not be notified")
	mu.Unlock()
}
