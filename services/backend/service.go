// Package backend implements the authentication and payment collaborators
// over the resource transport, translating the API's response shapes and
// failure modes into the client's error taxonomy.
package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/supernitin06/erp-tenants-sub000/core"
	"github.com/supernitin06/erp-tenants-sub000/core/billing"
	"github.com/supernitin06/erp-tenants-sub000/core/resource"
	"github.com/supernitin06/erp-tenants-sub000/core/session"
)

type Service struct {
	transport resource.Transport
}

var (
	_ session.Authenticator = (*Service)(nil)
	_ billing.StatusChecker = (*Service)(nil)
)

func NewService(transport resource.Transport) *Service {
	return &Service{transport: transport}
}

// authPayload is the shape /login and /verify respond with. Token is absent
// on /verify when the backend chose not to rotate it.
type authPayload struct {
	Token  string          `json:"token"`
	Tenant *session.Tenant `json:"tenant"`
}

func (p authPayload) session() session.Session {
	sess := session.Session{Token: p.Token, Tenant: p.Tenant}
	if p.Tenant != nil {
		sess.TenantSlug = p.Tenant.Username
		sess.PlanID = p.Tenant.SubscriptionPlanID
	}
	return sess
}

func (s *Service) Login(ctx context.Context, creds session.Credentials) (session.Session, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "encoding credentials")
	}

	resp, err := s.transport.RoundTrip(ctx, &resource.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/login",
		Body:   body,
	})
	if err != nil {
		return session.Session{}, core.NewAuthError(core.AuthNetworkFailure, err)
	}
	switch {
	case resp.Status == http.StatusOK:
	case resp.Status == http.StatusUnauthorized || resp.Status == http.StatusBadRequest:
		return session.Session{}, core.NewAuthError(core.AuthInvalidCredentials, nil)
	default:
		return session.Session{}, core.NewAuthError(core.AuthNetworkFailure,
			errors.Errorf("login: unexpected status %d", resp.Status))
	}

	var payload authPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding login response")
	}
	if payload.Token == "" {
		return session.Session{}, core.NewAuthError(core.AuthInvalidCredentials, errors.New("login: no token in response"))
	}
	return payload.session(), nil
}

// Verify confirms the token with the backend. Only an explicit 401 becomes
// an unauthenticated error; anything else is reported as transient so the
// caller keeps the current session on a blip.
func (s *Service) Verify(ctx context.Context, token string) (session.Session, error) {
	resp, err := s.transport.RoundTrip(ctx, &resource.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/verify",
		Token:  token,
	})
	if err != nil {
		return session.Session{}, core.NewAuthError(core.AuthNetworkFailure, err)
	}
	switch {
	case resp.Status == http.StatusOK:
	case resp.Status == http.StatusUnauthorized:
		return session.Session{}, core.NewAuthError(core.AuthUnauthenticated, nil)
	default:
		return session.Session{}, core.NewAuthError(core.AuthNetworkFailure,
			errors.Errorf("verify: unexpected status %d", resp.Status))
	}

	var payload authPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding verify response")
	}
	if payload.Token == "" {
		payload.Token = token
	}
	return payload.session(), nil
}

func (s *Service) Register(ctx context.Context, reg session.Registration) (session.Tenant, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return session.Tenant{}, errors.Wrap(err, "encoding registration")
	}

	resp, err := s.transport.RoundTrip(ctx, &resource.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/register",
		Body:   body,
	})
	if err != nil {
		return session.Tenant{}, core.NewAuthError(core.AuthNetworkFailure, err)
	}
	if resp.Status >= 300 {
		return session.Tenant{}, core.NewResourceError(resp.Status, registerMessage(resp.Body), nil)
	}

	var payload struct {
		Tenant session.Tenant `json:"tenant"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return session.Tenant{}, errors.Wrap(err, "decoding register response")
	}
	return payload.Tenant, nil
}

func (s *Service) CheckPayment(ctx context.Context, orderID string) (billing.PaymentStatus, error) {
	resp, err := s.transport.RoundTrip(ctx, &resource.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/payments/status/" + orderID,
	})
	if err != nil {
		return billing.PaymentStatus{}, errors.Wrap(err, "checking payment status")
	}
	if resp.Status >= 300 {
		return billing.PaymentStatus{}, core.NewResourceError(resp.Status, registerMessage(resp.Body), nil)
	}

	var status billing.PaymentStatus
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return billing.PaymentStatus{}, errors.Wrap(err, "decoding payment status")
	}
	return status, nil
}

func registerMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Message
}
