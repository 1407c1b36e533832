// Package app contains the application setup for the shop service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvmanh/goshop/internal/catalog"
	"github.com/tvmanh/goshop/internal/catalog/search"
	catalogstore "github.com/tvmanh/goshop/internal/catalog/store"
	"github.com/tvmanh/goshop/internal/config"
	"github.com/tvmanh/goshop/internal/mail"
	"github.com/tvmanh/goshop/internal/transport/rest"
	"github.com/tvmanh/goshop/internal/user"
	userstore "github.com/tvmanh/goshop/internal/user/store"
	"github.com/tvmanh/goshop/pkg/server"
)

type Dependencies struct {
	ProductService catalog.ProductService
	UserService    user.UserService
	Tokens         *user.TokenIssuer
	Logger         *slog.Logger
}

// SetupDependencies wires the stores, the optional search index and the
// services. A nil search client disables the search index entirely.
func SetupDependencies(dbPool *pgxpool.Pool, searchClient *elasticsearch.Client, mailer mail.Mailer, cfg *config.Config, logger *slog.Logger) *Dependencies {
	var searcher search.Searcher
	if searchClient != nil {
		searcher = search.NewES(searchClient, logger)
	}
	pService := catalog.NewService(catalogstore.NewPgStore(dbPool), searcher, logger)

	tokens := user.NewTokenIssuer(cfg.JWT)
	uService := user.NewService(userstore.NewPgStore(dbPool), tokens, mailer, logger)

	return &Dependencies{
		ProductService: pService,
		UserService:    uService,
		Tokens:         tokens,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the HTTP routes.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the shop application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	auth := rest.JWTAuth(deps.Tokens)

	productHandler := rest.NewProductHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux, auth, rest.RequireAdmin)

	userHandler := rest.NewUserHandler(deps.UserService, deps.Logger)
	userHandler.RegisterRoutes(mux, auth)

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// SetupHttpServer creates and configures an HTTP server for the shop application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
