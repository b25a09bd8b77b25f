package middleware

import (
	"net/http"
	"time"

	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AuditMiddleware writes one structured log line per request. Mutating
// requests of a logged-in user are logged at info with who made them.
type AuditMiddleware struct {
	logger logrus.FieldLogger
}

func NewAuditMiddleware(logger logrus.FieldLogger) *AuditMiddleware {
	return &AuditMiddleware{logger: logger}
}

func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response so the status is final
				c.Error(err)
			}

			req := c.Request()
			fields := logrus.Fields{
				"method":     req.Method,
				"path":       c.Path(),
				"uri":        req.RequestURI,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"remote_ip":  c.RealIP(),
			}
			sc := session.FromEcho(c)
			if sc.LoggedIn() {
				fields["user"] = sc.Username()
				fields["role"] = sc.Role()
				fields["sid"] = shortSID(sc.SID())
			}
			entry := m.logger.WithFields(fields)

			switch {
			case c.Response().Status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case req.Method != http.MethodGet && req.Method != http.MethodHead && sc.LoggedIn():
				entry.Info("console action")
			default:
				entry.Debug("request")
			}
			return nil
		}
	}
}

// shortSID keeps session ids out of logs in full
func shortSID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
