package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/ormchart/internal/telemetry/tracing"
	"github.com/2beens/ormchart/pkg"
)

const AdminTokenHeader = "X-ORMCHART-TOKEN"

// AdminAuthMiddlewareHandler guards the record mutating routes with a token
// whose bcrypt hash is configured on startup. Reads are always allowed.
type AdminAuthMiddlewareHandler struct {
	adminTokenHash string
}

func NewAdminAuthMiddlewareHandler(adminTokenHash string) *AdminAuthMiddlewareHandler {
	return &AdminAuthMiddlewareHandler{
		adminTokenHash: adminTokenHash,
	}
}

// IsAdminRequest reports whether the request targets a protected route.
func IsAdminRequest(r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodOptions {
		return false
	}
	return strings.HasPrefix(r.URL.Path, "/records/")
}

func (h *AdminAuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if !IsAdminRequest(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if h.adminTokenHash == "" {
				log.Warnf("[admin disabled] [auth middleware] forbidden => %s %s", r.Method, r.URL.Path)
				http.Error(w, "no can do", http.StatusForbidden)
				span.SetStatus(codes.Error, "admin-disabled")
				return
			}

			authToken := r.Header.Get(AdminTokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			if !pkg.CheckTokenHash(authToken, h.adminTokenHash) {
				reqIp, _ := pkg.ReadUserIP(r)
				log.Errorf("[invalid token] [auth middleware] unauthorized => %s from %s", r.URL.Path, reqIp)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-auth-token")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
