package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"fashionhub/internal/auth"
	"fashionhub/internal/avatar"
	"fashionhub/internal/sentry"
	"fashionhub/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures the HTTP surface of the session API.
type Options struct {
	Addr           string
	AllowedOrigins []string
	AvatarURLPath  string
}

// Server is the session API: identity restore, login, signup, logout and
// avatar upload over the users table.
type Server struct {
	store    storage.Store
	sessions *auth.SessionManager
	avatars  *avatar.Store
	metrics  *Metrics
	opts     Options

	router  *gin.Engine
	httpSrv *http.Server
}

func NewServer(opts Options, store storage.Store, sessions *auth.SessionManager, avatars *avatar.Store) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:5173"}
	}
	s := &Server{
		store:    store,
		sessions: sessions,
		avatars:  avatars,
		metrics:  NewMetrics(),
		opts:     opts,
	}
	s.router = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(sentry.Middleware())
	r.Use(requestID())
	r.Use(s.metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		msg := "Only POST allowed"
		if c.Request.URL.Path == "/me" {
			msg = "Only GET allowed"
		}
		fail(c, http.StatusMethodNotAllowed, msg)
	})

	r.GET("/me", s.handleMe)
	r.POST("/login", s.handleLogin)
	r.POST("/signup", s.handleSignup)
	r.POST("/logout", s.handleLogout)
	r.POST("/upload_avatar", s.handleUploadAvatar)

	if s.avatars != nil && s.opts.AvatarURLPath != "" {
		r.Static(s.opts.AvatarURLPath, s.avatars.Dir())
	}
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Session API listening on %s", s.opts.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, respecting the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	log.Println("Session API: initiating shutdown...")
	return s.httpSrv.Shutdown(ctx)
}
