// Package gate decides, per navigation, whether the session may see the
// requested screen. The decision is pure: it is recomputed from scratch on
// every route change, nothing is remembered between navigations.
package gate

import (
	"strings"

	"github.com/supernitin06/erp-tenants-sub000/core/session"
)

type Action int

const (
	// ActionLoading means the session is not yet resolved; render a loading
	// indicator, make no redirect decision.
	ActionLoading Action = iota
	ActionRender
	ActionRedirect
)

type Decision struct {
	Action Action
	Target string // redirect target when Action == ActionRedirect
}

const LoginPath = "/login"

// allowedSegments are the only routes a tenant without an active
// subscription may reach. Matching is a case-sensitive path-segment check.
var allowedSegments = []string{"pricing", "checkout", "payment", "plan-history"}

// Decide evaluates one navigation to a protected path.
//
// Anonymous visitors go to the login route; the originally requested path is
// discarded. A session whose slug differs from the slug in the URL is forced
// onto its own slug. Tenants without an active subscription may only reach
// the allow-listed billing routes; everything else redirects to their
// pricing route.
func Decide(s *session.Session, verifying bool, path string) Decision {
	if s == nil || s.Token == "" {
		if verifying {
			return Decision{Action: ActionLoading}
		}
		return Decision{Action: ActionRedirect, Target: LoginPath}
	}

	segments := splitPath(path)
	if len(segments) > 0 && segments[0] != s.TenantSlug {
		// cross-tenant URL tampering: rebuild the URL from the session's own slug
		target := "/" + s.TenantSlug
		if len(segments) > 1 {
			target += "/" + strings.Join(segments[1:], "/")
		}
		return Decision{Action: ActionRedirect, Target: target}
	}

	if s.Active() || pathAllowed(segments) {
		return Decision{Action: ActionRender}
	}
	return Decision{Action: ActionRedirect, Target: "/" + s.TenantSlug + "/pricing"}
}

func splitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func pathAllowed(segments []string) bool {
	for _, seg := range segments {
		for _, allowed := range allowedSegments {
			if seg == allowed {
				return true
			}
		}
	}
	return false
}
