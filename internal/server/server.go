// Package server exposes the search and order operations as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"atelier/internal/concierge"
	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/orders"
	"atelier/internal/search"
	"atelier/internal/types"
	"atelier/internal/usage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const sessionIDKey = "sid"

// SummaryLister lists mirrored order summaries, newest first.
type SummaryLister interface {
	List(ctx context.Context, limit int) ([]types.OrderSummary, error)
}

// UsageReporter reports remote-service token usage.
type UsageReporter interface {
	Stats() usage.AggregatedStats
}

// Deps are the collaborators the API serves.
type Deps struct {
	Search    *search.Orchestrator
	Orders    *orders.Service
	Concierge *concierge.Service

	// Optional. Without a mirror order listings come from memory.
	Mirror SummaryLister
	Usage  UsageReporter
}

// Server is the HTTP API.
type Server struct {
	cfg         *config.Config
	deps        Deps
	sessions    *search.Sessions
	cookies     *sessions.CookieStore
	sessionName string
	router      *gin.Engine
}

// New builds the router. An empty session secret gets a random key, which
// invalidates cookies on restart.
func New(cfg *config.Config, deps Deps) *Server {
	secret := []byte(cfg.Server.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		logging.Server("No session secret configured; using an ephemeral key")
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	name := cfg.Server.SessionName
	if name == "" {
		name = "atelier-session"
	}

	s := &Server{
		cfg:         cfg,
		deps:        deps,
		sessions:    search.NewSessions(deps.Search, cfg.Search.HistorySize, cfg.Search.MaxSessions),
		cookies:     store,
		sessionName: name,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.GET("/stores", s.listStores)
	api.POST("/search", s.search)
	api.GET("/searches/recent", s.recentSearches)
	api.GET("/quote", s.quote)
	api.GET("/usage", s.usage)
	api.POST("/orders", s.createOrder)
	api.GET("/orders", s.listOrders)
	api.GET("/orders/:id", s.getOrder)
	api.PATCH("/orders/:id/status", s.updateStatus)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.GetReadTimeout(),
		WriteTimeout: s.cfg.GetWriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Server("Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.Server("Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// session returns the caller's search session, issuing a cookie on first use.
func (s *Server) session(c *gin.Context) *search.Session {
	sess, err := s.cookies.Get(c.Request, s.sessionName)
	if err != nil {
		logging.ServerDebug("Discarding unreadable session cookie: %v", err)
	}
	id, _ := sess.Values[sessionIDKey].(string)
	if id == "" {
		id = uuid.NewString()
		sess.Values[sessionIDKey] = id
		if err := sess.Save(c.Request, c.Writer); err != nil {
			logging.Get(logging.CategoryServer).Warn("Failed to save session: %v", err)
		}
	}
	return s.sessions.Get(id)
}

// existingSession returns the caller's session if one is live. It never
// issues a cookie or creates a session.
func (s *Server) existingSession(c *gin.Context) (*search.Session, bool) {
	sess, err := s.cookies.Get(c.Request, s.sessionName)
	if err != nil {
		return nil, false
	}
	id, _ := sess.Values[sessionIDKey].(string)
	if id == "" {
		return nil, false
	}
	return s.sessions.Lookup(id)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.ServerDebug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
