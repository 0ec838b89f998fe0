package shell

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/supernitin06/erp-tenants-sub000/core"
	"github.com/supernitin06/erp-tenants-sub000/core/billing"
	"github.com/supernitin06/erp-tenants-sub000/core/gate"
	"github.com/supernitin06/erp-tenants-sub000/core/resource"
	"github.com/supernitin06/erp-tenants-sub000/core/session"
)

func (s *server) loginForm(ctx echo.Context) error {
	return ctx.HTML(http.StatusOK, loginPage("", nil, s.opts.Notifier.Recent(5)))
}

// login authenticates and lands the tenant on their dashboard; the gate
// bounces inactive tenants onward to pricing. Auth failures stay on the form
// as a blocking alert, never as a toast.
func (s *server) login(ctx echo.Context) error {
	creds := session.Credentials{
		Email:    ctx.FormValue("email"),
		Password: ctx.FormValue("password"),
	}

	sess, err := s.opts.Store.Login(ctx.Request().Context(), creds)
	if err != nil {
		switch cause := errors.Cause(err).(type) {
		case *core.ValidationError:
			return ctx.HTML(http.StatusBadRequest, loginPage("", cause.Fields, nil))
		case *core.AuthError:
			return ctx.HTML(http.StatusUnauthorized, loginPage(cause.Error(), nil, nil))
		default:
			return err
		}
	}
	return ctx.Redirect(http.StatusFound, "/"+sess.TenantSlug)
}

func (s *server) registerForm(ctx echo.Context) error {
	return ctx.HTML(http.StatusOK, registerPage("", nil))
}

func (s *server) register(ctx echo.Context) error {
	reg := session.Registration{
		Name:            ctx.FormValue("name"),
		Username:        ctx.FormValue("tenantUsername"),
		Email:           ctx.FormValue("email"),
		Phone:           ctx.FormValue("phone"),
		InstitutionType: ctx.FormValue("institutionType"),
		Password:        ctx.FormValue("password"),
		ConfirmPassword: ctx.FormValue("confirmPassword"),
	}

	if _, err := s.opts.Store.Register(ctx.Request().Context(), reg); err != nil {
		switch cause := errors.Cause(err).(type) {
		case *core.ValidationError:
			return ctx.HTML(http.StatusBadRequest, registerPage("", cause.Fields))
		case *core.ResourceError:
			return ctx.HTML(cause.Status, registerPage(cause.Error(), nil))
		case *core.AuthError:
			return ctx.HTML(http.StatusBadGateway, registerPage(cause.Error(), nil))
		default:
			return err
		}
	}
	return ctx.Redirect(http.StatusFound, gate.LoginPath)
}

func (s *server) logout(ctx echo.Context) error {
	s.stopPoll()
	s.opts.Store.Logout()
	return ctx.Redirect(http.StatusFound, gate.LoginPath)
}

// checkout creates an order with the payment collaborator and starts the
// status poll for it.
func (s *server) checkout(ctx echo.Context) error {
	args := billing.CreateOrderArgs{PlanID: ctx.FormValue("planId")}
	if err := core.Validate.Struct(args); err != nil {
		return ctx.Redirect(http.StatusFound, "/"+ctx.Param("tenant")+"/pricing")
	}

	order, err := resource.Mutate(ctx.Request().Context(), s.opts.Client, billing.CreateOrder, args)
	if err != nil {
		// the toast already carries the failure; keep the user on checkout
		return ctx.Redirect(http.StatusFound, "/"+ctx.Param("tenant")+"/checkout")
	}

	s.startPoll(order.ID)
	return ctx.Redirect(http.StatusFound, "/"+ctx.Param("tenant")+"/payment?order="+order.ID+"&qr="+order.QRUrl)
}

// startPoll watches the order until it settles. On terminal success the
// session is cleared and the user is told to log in again, since the backend
// only reflects the new subscription on a fresh login.
func (s *server) startPoll(orderID string) {
	s.pollMu.Lock()
	if s.pollCancel != nil {
		s.pollCancel()
	}
	pollCtx, cancel := context.WithCancel(context.Background())
	s.pollCancel = cancel
	s.pollMu.Unlock()

	poller := billing.NewPoller(s.opts.Payments, s.opts.Conf.PaymentPollInterval, s.opts.Logger, func(billing.PaymentStatus) {
		s.opts.Notifier.Success("Payment received. Please log in again to activate your subscription.")
		s.opts.Store.Logout()
	})
	go func() {
		defer cancel()
		if err := poller.Run(pollCtx, orderID); err != nil && !errors.Is(err, context.Canceled) {
			s.opts.Logger.Warn("shell: payment poll stopped", err)
		}
	}()
}

func (s *server) stopPoll() {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}
