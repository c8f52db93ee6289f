package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/bullseye/pkg/api/handlers"
	"github.com/cbodonnell/bullseye/pkg/api/middleware"
	authproviders "github.com/cbodonnell/bullseye/pkg/auth/providers"
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/repositories"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	AuthProvider authproviders.AuthProvider
	Repository   repositories.Repository
	Leaderboard  handlers.LeaderboardSource
	// WebSocketHandler serves game connections on /ws and on upgrade requests to /
	WebSocketHandler http.Handler
	// StaticDir is served for every other path when set
	StaticDir      string
	AllowedOrigins []string
	// PasswordHashCost defaults to bcrypt.DefaultCost
	PasswordHashCost int
}

// NewAPIServer creates a new http.Server serving the account API, the game
// websocket and the static client.
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter returns the handler used by the APIServer.
func NewRouter(opts NewAPIServerOptions) http.Handler {
	hashCost := opts.PasswordHashCost
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	authMiddleware := middleware.NewAuthMiddleware(opts.AuthProvider, opts.Repository)

	r := mux.NewRouter()

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.NewLoggingMiddleware())
	apiRouter.Use(middleware.NewCORSMiddleware(opts.AllowedOrigins))
	apiRouter.HandleFunc("/register", handlers.HandleRegister(opts.Repository, hashCost)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/login", handlers.HandleLogin(opts.Repository, opts.AuthProvider)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/leaderboard", handlers.HandleLeaderboard(opts.Leaderboard)).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.Handle("/me", authMiddleware(handlers.HandleMe())).Methods(http.MethodGet, http.MethodOptions)

	if opts.WebSocketHandler != nil {
		r.Handle("/ws", opts.WebSocketHandler)
		r.Handle("/", opts.WebSocketHandler).HeadersRegexp("Upgrade", "(?i)^websocket$")
	}
	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}

// Start starts the APIServer
func (s *APIServer) Start() error {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return nil
		}
		return fmt.Errorf("API server error: %v", err)
	}
	return nil
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
