package shell

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/supernitin06/erp-tenants-sub000/core"
	"github.com/supernitin06/erp-tenants-sub000/core/billing"
	"github.com/supernitin06/erp-tenants-sub000/core/hospital"
	"github.com/supernitin06/erp-tenants-sub000/core/notification"
	"github.com/supernitin06/erp-tenants-sub000/core/resource"
	"github.com/supernitin06/erp-tenants-sub000/core/school"
)

// The screens are deliberately plain: the shell's job is the gating and data
// flow, not presentation.

func (s *server) dashboard(ctx echo.Context) error {
	sess := s.opts.Store.Current()
	name := sess.TenantSlug
	if sess.Tenant != nil && sess.Tenant.Name != "" {
		name = sess.Tenant.Name
	}
	body := fmt.Sprintf("<h1>%s</h1>%s", html.EscapeString(name), sidebar(sess.TenantSlug))
	return ctx.HTML(http.StatusOK, page("Dashboard", body, s.opts.Notifier.Recent(5)))
}

func (s *server) students(ctx echo.Context) error {
	return renderList(s, ctx, "Students", school.GetAllStudents, school.NoArgs{},
		func(st school.Student) string { return st.Name })
}

func (s *server) teachers(ctx echo.Context) error {
	return renderList(s, ctx, "Teachers", school.GetAllTeachers, school.NoArgs{},
		func(t school.Teacher) string { return t.Name + " — " + t.Subject })
}

func (s *server) classes(ctx echo.Context) error {
	return renderList(s, ctx, "Classes", school.GetAllClasses, school.NoArgs{},
		func(c school.SchoolClass) string { return c.Name + " " + c.Section })
}

func (s *server) exams(ctx echo.Context) error {
	return renderList(s, ctx, "Examinations", school.GetAllExams, school.NoArgs{},
		func(e school.Exam) string { return e.Name + " (" + e.Date + ")" })
}

func (s *server) library(ctx echo.Context) error {
	libraryID, err := strconv.Atoi(ctx.QueryParam("libraryId"))
	// a missing library id suppresses the query instead of fetching garbage
	skip := err != nil
	h := resource.Subscribe(s.opts.Client, school.GetBooksByLibrary,
		school.BooksByLibraryArgs{LibraryID: libraryID}, resource.Options{Skip: skip})
	defer h.Close()

	if skip {
		return ctx.HTML(http.StatusOK, page("Library", "<p>Pick a library.</p>", s.opts.Notifier.Recent(5)))
	}
	res := h.Wait(ctx.Request().Context())
	return renderResult(s, ctx, "Library", res, func(b school.Book) string { return b.Title })
}

func (s *server) fees(ctx echo.Context) error {
	studentID := ctx.QueryParam("studentId")
	skip := studentID == ""
	h := resource.Subscribe(s.opts.Client, school.GetFeesByStudent,
		school.FeesByStudentArgs{StudentID: studentID}, resource.Options{Skip: skip})
	defer h.Close()

	if skip {
		return ctx.HTML(http.StatusOK, page("Fees", "<p>Pick a student.</p>", s.opts.Notifier.Recent(5)))
	}
	res := h.Wait(ctx.Request().Context())
	return renderResult(s, ctx, "Fees", res, func(f school.FeeRecord) string {
		return fmt.Sprintf("%s: %.2f (%s)", f.ID, f.Amount, f.Status)
	})
}

func (s *server) staff(ctx echo.Context) error {
	return renderList(s, ctx, "Staff", hospital.GetAllStaff, hospital.NoArgs{},
		func(st hospital.Staff) string { return st.Name + " — " + st.Role })
}

func (s *server) rooms(ctx echo.Context) error {
	return renderList(s, ctx, "Rooms", hospital.GetAllRooms, hospital.NoArgs{},
		func(r hospital.Room) string { return r.Number + " (" + r.Ward + ")" })
}

func (s *server) patients(ctx echo.Context) error {
	return renderList(s, ctx, "Patients", hospital.GetAllPatients, hospital.NoArgs{},
		func(p hospital.Patient) string { return p.Name })
}

func (s *server) pricing(ctx echo.Context) error {
	return renderList(s, ctx, "Pricing", billing.GetPlans, billing.NoArgs{},
		func(p billing.Plan) string { return fmt.Sprintf("%s — %.2f / %d days", p.Name, p.Price, p.DurationDays) })
}

func (s *server) planHistory(ctx echo.Context) error {
	return renderList(s, ctx, "Plan history", billing.GetPlanHistory, billing.NoArgs{},
		func(p billing.PaymentRecord) string { return fmt.Sprintf("%s — %.2f (%s)", p.PlanID, p.Amount, p.Status) })
}

func (s *server) checkoutForm(ctx echo.Context) error {
	tenant := ctx.Param("tenant")
	body := fmt.Sprintf(`<form method="post" action="/%s/checkout">
<input name="planId" placeholder="plan id">
<button type="submit">Pay</button>
</form>`, html.EscapeString(tenant))
	return ctx.HTML(http.StatusOK, page("Checkout", body, s.opts.Notifier.Recent(5)))
}

func (s *server) payment(ctx echo.Context) error {
	qr := ctx.QueryParam("qr")
	order := ctx.QueryParam("order")
	body := fmt.Sprintf(`<p>Scan to pay order %s.</p><img src="%s" alt="payment qr">`,
		html.EscapeString(order), html.EscapeString(qr))
	// the poll runs server-side; refresh until it logs the session out
	ctx.Response().Header().Set("Refresh", "3")
	return ctx.HTML(http.StatusOK, page("Payment", body, s.opts.Notifier.Recent(5)))
}

// renderList subscribes, waits for the shared cache entry to resolve, and
// renders the items or the inline error region.
func renderList[A, T any](s *server, ctx echo.Context, title string, ep resource.Endpoint[A, resource.List[T]], args A, line func(T) string) error {
	h := resource.Subscribe(s.opts.Client, ep, args)
	defer h.Close()
	res := h.Wait(ctx.Request().Context())
	return renderResult(s, ctx, title, res, line)
}

func renderResult[T any](s *server, ctx echo.Context, title string, res resource.Result[resource.List[T]], line func(T) string) error {
	switch res.Status {
	case resource.StatusError:
		body := fmt.Sprintf(`<div class="error">%s</div>`, html.EscapeString(res.Err.Error()))
		return ctx.HTML(http.StatusOK, page(title, body, s.opts.Notifier.Recent(5)))
	case resource.StatusLoading:
		ctx.Response().Header().Set("Refresh", "1")
		return ctx.HTML(http.StatusOK, loadingPage())
	default:
		var b strings.Builder
		b.WriteString("<ul>")
		for _, item := range res.Data.Items {
			b.WriteString("<li>" + html.EscapeString(line(item)) + "</li>")
		}
		b.WriteString("</ul>")
		if res.Data.IsEmpty() {
			b.WriteString("<p>Nothing here yet.</p>")
		}
		return ctx.HTML(http.StatusOK, page(title, b.String(), s.opts.Notifier.Recent(5)))
	}
}

func sidebar(slug string) string {
	links := []string{"student", "teacher", "class", "exam", "library", "fees",
		"staff", "room", "patient", "pricing", "plan-history"}
	var b strings.Builder
	b.WriteString("<nav><ul>")
	for _, l := range links {
		fmt.Fprintf(&b, `<li><a href="/%s/%s">%s</a></li>`, slug, l, l)
	}
	b.WriteString("</ul></nav>")
	return b.String()
}

func page(title, body string, toasts []notification.Notification) string {
	var t strings.Builder
	for _, n := range toasts {
		fmt.Fprintf(&t, `<div class="toast %s">%s</div>`, n.Status, html.EscapeString(n.Message))
	}
	return fmt.Sprintf(`<!doctype html>
<html><head><title>%s</title></head>
<body>%s<main><h2>%s</h2>%s</main></body></html>`, html.EscapeString(title), t.String(), html.EscapeString(title), body)
}

func loadingPage() string {
	return page("Loading", `<div class="spinner">Loading...</div>`, nil)
}

func loginPage(alert string, fields []core.FieldError, toasts []notification.Notification) string {
	var b strings.Builder
	if alert != "" {
		fmt.Fprintf(&b, `<div class="alert">%s</div>`, html.EscapeString(alert))
	}
	b.WriteString(fieldErrors(fields))
	b.WriteString(`<form method="post" action="/login">
<input name="email" placeholder="email">
<input name="password" type="password" placeholder="password">
<button type="submit">Log in</button>
</form>
<p><a href="/register">Register your institution</a></p>`)
	return page("Log in", b.String(), toasts)
}

func registerPage(alert string, fields []core.FieldError) string {
	var b strings.Builder
	if alert != "" {
		fmt.Fprintf(&b, `<div class="alert">%s</div>`, html.EscapeString(alert))
	}
	b.WriteString(fieldErrors(fields))
	b.WriteString(`<form method="post" action="/register">
<input name="name" placeholder="institution name">
<input name="tenantUsername" placeholder="url slug">
<input name="email" placeholder="email">
<input name="phone" placeholder="phone">
<select name="institutionType"><option>school</option><option>hospital</option></select>
<input name="password" type="password" placeholder="password">
<input name="confirmPassword" type="password" placeholder="confirm password">
<button type="submit">Register</button>
</form>`)
	return page("Register", b.String(), nil)
}

// fieldErrors renders inline per-field messages; validation failures never
// become toasts.
func fieldErrors(fields []core.FieldError) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="field-errors">`)
	for _, f := range fields {
		fmt.Fprintf(&b, "<li>%s: %s</li>", html.EscapeString(f.Field), html.EscapeString(f.Error))
	}
	b.WriteString("</ul>")
	return b.String()
}
