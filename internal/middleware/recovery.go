package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ormchart/internal/telemetry/metrics"
)

const panicResponseMessage = "internal error"

// PanicRecovery turns a handler panic into a plain 500, like every other
// handler error, and reports it to sentry (a no-op when sentry is not set up).
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					// the server handles its own abort sentinel
					panic(recovered)
				}

				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"route":  routeName(r),
				}).Errorf("panic serving request: %v\n%s", recovered, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetTag("route", routeName(r))
				hub.RecoverWithContext(r.Context(), fmt.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, recovered))
				hub.Flush(2 * time.Second)

				http.Error(w, panicResponseMessage, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
