package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout sets a context deadline on each request. When the
// deadline passes before the handler finishes, the response writer is
// taken over, a 504 is written, and any later writes from the handler
// goroutine are dropped with http.ErrHandlerTimeout. Handlers that need
// to stop cleanly (the bulk import commit loop) observe the context and
// keep their partial result.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			gw := &guardedWriter{w: c.Response().Writer}
			c.Response().Writer = gw

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					gw.timeout(http.StatusGatewayTimeout,
						`{"error":"request processing exceeded the allowed time limit"}`)
					return nil
				}
				// Other cancellation reasons (e.g. client disconnect).
				return ctx.Err()
			}
		}
	}
}

// guardedWriter serializes writes from the handler goroutine and the
// timeout path. After timeout fires, handler writes are discarded.
type guardedWriter struct {
	mu          sync.Mutex
	w           http.ResponseWriter
	wroteHeader bool
	timedOut    bool
}

func (g *guardedWriter) Header() http.Header { return g.w.Header() }

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timedOut || g.wroteHeader {
		return
	}
	g.wroteHeader = true
	g.w.WriteHeader(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !g.wroteHeader {
		g.wroteHeader = true
		g.w.WriteHeader(http.StatusOK)
	}
	return g.w.Write(b)
}

func (g *guardedWriter) Flush() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timedOut {
		return
	}
	if f, ok := g.w.(http.Flusher); ok {
		f.Flush()
	}
}

// timeout writes the 504 body unless the handler already started the
// response, then blocks all further writes.
func (g *guardedWriter) timeout(code int, body string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timedOut {
		return
	}
	g.timedOut = true
	if g.wroteHeader {
		return
	}
	g.wroteHeader = true
	g.w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	g.w.WriteHeader(code)
	g.w.Write([]byte(body))
}
