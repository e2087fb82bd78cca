package http

import (
	"net/http"
	"strings"

	"tracking/internal/core/application/tenancy"
	"tracking/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Headers set by the edge gateway after authenticating the request. The
// gateway strips any client-supplied values before forwarding, so their
// presence can be trusted here.
const (
	principalIDHeader     = "X-Auth-User-Id"
	principalEmailHeader  = "X-Auth-User-Email"
	principalTenantHeader = "X-Auth-User-Tenant"
	principalRoleHeader   = "X-Auth-User-Role"

	superAdminRole = "super_admin"
)

// TenantMiddleware resolves the tenant for every API request and binds it
// into the request context. Requests that resolve no tenant are refused
// before any handler runs: there is no anonymous cross-tenant surface.
type TenantMiddleware struct {
	resolver *tenancy.Resolver
	scope    *tenancy.Scope
	logger   *zap.Logger
}

// NewTenantMiddleware creates the tenant resolution middleware.
func NewTenantMiddleware(resolver *tenancy.Resolver, scope *tenancy.Scope, logger *zap.Logger) *TenantMiddleware {
	return &TenantMiddleware{
		resolver: resolver,
		scope:    scope,
		logger:   logger,
	}
}

// Resolve is the echo middleware function.
func (m *TenantMiddleware) Resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		signals := tenancy.RequestSignals{
			OverrideHeader: req.Header.Get(tenancy.OverrideHeaderName),
			OverrideQuery:  c.QueryParam(tenancy.OverrideQueryParam),
			RouteTenant:    c.Param("tenant"),
			Host:           req.Host,
			Secure:         isSecure(req),
			SourceIP:       c.RealIP(),
			UserAgent:      req.UserAgent(),
			Principal:      principalFromRequest(req),
		}

		rc := tenancy.NewResolutionContext()
		resolved, err := rc.Resolve(req.Context(), m.resolver, signals)
		if err != nil {
			m.logger.Info("request refused: no tenant resolved",
				zap.String("host", req.Host),
				zap.String("path", req.URL.Path),
				zap.String("source_ip", signals.SourceIP))
			return c.JSON(http.StatusForbidden, errorResponse{
				Code:    http.StatusForbidden,
				Message: "No tenant could be determined for this request",
			})
		}

		ctx := m.scope.Bind(req.Context(), resolved)
		c.SetRequest(req.WithContext(ctx))
		defer func() {
			c.SetRequest(c.Request().WithContext(m.scope.Clear(ctx)))
		}()

		return next(c)
	}
}

// isSecure honors the edge proxy's X-Forwarded-Proto on top of direct TLS.
func isSecure(req *http.Request) bool {
	if req.TLS != nil {
		return true
	}
	return strings.EqualFold(req.Header.Get("X-Forwarded-Proto"), "https")
}

// principalFromRequest reconstructs the authenticated principal from the
// gateway headers. Returns nil for unauthenticated requests.
func principalFromRequest(req *http.Request) *tenancy.Principal {
	id := strings.TrimSpace(req.Header.Get(principalIDHeader))
	if id == "" {
		return nil
	}

	p := &tenancy.Principal{
		ID:         id,
		Email:      strings.TrimSpace(req.Header.Get(principalEmailHeader)),
		SuperAdmin: strings.EqualFold(req.Header.Get(principalRoleHeader), superAdminRole),
	}

	if raw := strings.TrimSpace(req.Header.Get(principalTenantHeader)); raw != "" {
		if tenantID, err := kernel.UUIDFromString(raw); err == nil {
			p.TenantID = &tenantID
		}
	}

	return p
}
