package session

import (
	"context"
	"errors"
)

var (
	// errors
	ErrNotLoggedIn = errors.New("no active session")
)

type (
	// Tenant is the authenticated organization's profile as returned by the
	// backend. Fields mirror the API payload; absent fields stay zero.
	Tenant struct {
		ID                 string  `json:"id,omitempty"`
		Name               string  `json:"name,omitempty"`
		Username           string  `json:"tenantUsername"`
		Email              string  `json:"email,omitempty"`
		Phone              string  `json:"phone,omitempty"`
		Kind               string  `json:"institutionType,omitempty"` // "school" | "hospital"
		IsActive           bool    `json:"isActive"`
		SubscriptionPlanID *string `json:"subscription_planId"`
	}

	// Session is the authenticated state of the client. Token is present iff
	// a login or successful verification has occurred; Tenant is nil whenever
	// Token is empty.
	Session struct {
		Tenant     *Tenant
		Token      string
		TenantSlug string
		PlanID     *string
	}

	Credentials struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	Registration struct {
		Name            string `json:"name" validate:"required"`
		Username        string `json:"tenantUsername" validate:"required,slug_"`
		Email           string `json:"email" validate:"required,email"`
		Phone           string `json:"phone" validate:"required,phone_"`
		InstitutionType string `json:"institutionType" validate:"required,oneof=school hospital"`
		Password        string `json:"password" validate:"required,password_"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	}

	// Authenticator is the backend collaborator for login, registration and
	// background session verification.
	Authenticator interface {
		Login(ctx context.Context, creds Credentials) (Session, error)
		Verify(ctx context.Context, token string) (Session, error)
		Register(ctx context.Context, reg Registration) (Tenant, error)
	}

	// Storage persists the session durably across process restarts. Load
	// returns (nil, nil) when no session is stored.
	Storage interface {
		Load() (*Session, error)
		Save(*Session) error
		Clear() error
	}
)

// Active reports whether the tenant holds a live subscription. An inactive
// account or an absent plan both count as inactive.
func (s *Session) Active() bool {
	return s != nil && s.Tenant != nil && s.Tenant.IsActive && s.PlanID != nil
}

// clone returns a deep copy so callers can never mutate store-owned state.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Tenant != nil {
		t := *s.Tenant
		c.Tenant = &t
	}
	if s.PlanID != nil {
		p := *s.PlanID
		c.PlanID = &p
	}
	return &c
}

// merge overlays fields returned by a verification onto the current session.
// Fields absent in the response are left unchanged.
func merge(cur, next *Session) *Session {
	if cur == nil {
		return next.clone()
	}
	out := cur.clone()
	if next.Token != "" {
		out.Token = next.Token
	}
	if next.TenantSlug != "" {
		out.TenantSlug = next.TenantSlug
	}
	if next.PlanID != nil {
		p := *next.PlanID
		out.PlanID = &p
	}
	if next.Tenant != nil {
		t := *next.Tenant
		if t.ID == "" && out.Tenant != nil {
			t.ID = out.Tenant.ID
		}
		if t.Name == "" && out.Tenant != nil {
			t.Name = out.Tenant.Name
		}
		if t.Username == "" && out.Tenant != nil {
			t.Username = out.Tenant.Username
		}
		out.Tenant = &t
		if next.PlanID == nil {
			out.PlanID = t.SubscriptionPlanID
		}
	}
	return out
}
