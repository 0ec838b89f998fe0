package shell

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/supernitin06/erp-tenants-sub000/core"
)

// newShellHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows
// how to render our error taxonomy.
func newShellHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			message = fmt.Sprintf("%v", origErr.Message)
		case validator.ValidationErrors:
			var b strings.Builder
			for _, vErr := range origErr {
				fmt.Fprintf(&b, "%s: %s; ", vErr.Field(), vErr.Translate(core.Translator))
			}
			code = http.StatusBadRequest
			message = strings.TrimSuffix(b.String(), "; ")
		case *core.ValidationError:
			var b strings.Builder
			for _, fErr := range origErr.Fields {
				fmt.Fprintf(&b, "%s: %s; ", fErr.Field, fErr.Error)
			}
			code = http.StatusBadRequest
			message = strings.TrimSuffix(b.String(), "; ")
			if message == "" {
				message = origErr.Error()
			}
		case *core.AuthError:
			code = http.StatusUnauthorized
			if origErr.Kind == core.AuthNetworkFailure {
				code = http.StatusBadGateway
			}
			message = origErr.Error()
		case *core.ResourceError:
			code = http.StatusBadGateway
			if origErr.Status != 0 {
				code = origErr.Status
			}
			message = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			logger.Error(message, errors.Wrap(err, message))
		}

		body := fmt.Sprintf(`<div class="error">%s</div>`, html.EscapeString(message))
		if hErr := ctx.HTML(code, page("Error", body, nil)); hErr != nil {
			logger.Error("shell: rendering error page", hErr)
		}
	}
}
