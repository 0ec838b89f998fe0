// Package shell is the application shell: the HTTP surface that stands
// between the user and the protected screens. Every navigation into a tenant
// path runs through the gate middleware, which re-evaluates the session and
// subscription state from scratch.
package shell

import (
	"context"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/supernitin06/erp-tenants-sub000/core"
	"github.com/supernitin06/erp-tenants-sub000/core/billing"
	"github.com/supernitin06/erp-tenants-sub000/core/gate"
	"github.com/supernitin06/erp-tenants-sub000/core/notification"
	"github.com/supernitin06/erp-tenants-sub000/core/resource"
	"github.com/supernitin06/erp-tenants-sub000/core/session"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Conf           *core.Config
		Logger         core.Logger
		Store          *session.Store
		Client         *resource.Client
		Notifier       *notification.Center
		Payments       billing.StatusChecker
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo

		// at most one payment poll at a time; a new checkout cancels the old
		pollMu     sync.Mutex
		pollCancel context.CancelFunc
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := s.opts.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.opts.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newShellHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = debug
	s.app.HideBanner = true

	s.app.GET("/", s.root)
	s.app.GET("/login", s.loginForm)
	s.app.POST("/login", s.login)
	s.app.GET("/register", s.registerForm)
	s.app.POST("/register", s.register)
	s.app.POST("/logout", s.logout)

	t := s.app.Group("/:tenant", s.gateMiddleware)
	t.GET("", s.dashboard)
	t.GET("/student", s.students)
	t.GET("/teacher", s.teachers)
	t.GET("/class", s.classes)
	t.GET("/exam", s.exams)
	t.GET("/library", s.library)
	t.GET("/fees", s.fees)
	t.GET("/staff", s.staff)
	t.GET("/room", s.rooms)
	t.GET("/patient", s.patients)
	t.GET("/pricing", s.pricing)
	t.GET("/checkout", s.checkoutForm)
	t.POST("/checkout", s.checkout)
	t.GET("/payment", s.payment)
	t.GET("/plan-history", s.planHistory)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	s.stopPoll()
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// root lands the user on their own dashboard, or on login when anonymous.
func (s *server) root(ctx echo.Context) error {
	sess := s.opts.Store.Current()
	if sess == nil {
		return ctx.Redirect(http.StatusFound, gate.LoginPath)
	}
	return ctx.Redirect(http.StatusFound, "/"+sess.TenantSlug)
}

// gateMiddleware re-runs the full access decision on every navigation.
func (s *server) gateMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess := s.opts.Store.Current()
		decision := gate.Decide(sess, s.opts.Store.Verifying(), ctx.Request().URL.Path)
		switch decision.Action {
		case gate.ActionLoading:
			ctx.Response().Header().Set("Refresh", "1")
			return ctx.HTML(http.StatusOK, loadingPage())
		case gate.ActionRedirect:
			return ctx.Redirect(http.StatusFound, decision.Target)
		default:
			return next(ctx)
		}
	}
}
