package analytics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPServer serves the analytics routes until its context is cancelled.
type HTTPServer struct {
	addr   string
	router *gin.Engine
	log    *zap.Logger
}

// NewEngine returns a release-mode gin engine with r registered at the root.
func NewEngine(r *Router) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	r.Register(&engine.RouterGroup)
	return engine
}

// NewHTTPServer creates a server on addr, defaulting to :8080.
func NewHTTPServer(addr string, r *Router, log *zap.Logger) *HTTPServer {
	if addr == "" {
		addr = ":8080"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPServer{addr: addr, router: NewEngine(r), log: log}
}

// Start blocks until ctx is cancelled or the listener fails.
func (s *HTTPServer) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.log.Info("http server listening", zap.String("addr", s.addr))

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		s.log.Info("http server stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
