package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/inkpress/inkpress/backend/internal/auth/http"
	authservice "github.com/inkpress/inkpress/backend/internal/auth/service"
	bloghttp "github.com/inkpress/inkpress/backend/internal/blog/http"
	blogrepo "github.com/inkpress/inkpress/backend/internal/blog/repository"
	blogservice "github.com/inkpress/inkpress/backend/internal/blog/service"
	"github.com/inkpress/inkpress/backend/internal/common/clock"
	"github.com/inkpress/inkpress/backend/internal/common/config"
	commoncrypto "github.com/inkpress/inkpress/backend/internal/common/crypto"
	"github.com/inkpress/inkpress/backend/internal/common/db"
	commonhttp "github.com/inkpress/inkpress/backend/internal/common/http"
	"github.com/inkpress/inkpress/backend/internal/common/jwtverify"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
	srv "github.com/inkpress/inkpress/backend/internal/common/server"
	userrepo "github.com/inkpress/inkpress/backend/internal/user/repository"
)

func main() {
	if err := godotenv.Load(); err == nil {
		fmt.Println("loaded environment from .env")
	}

	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	realClock := clock.NewRealClock()
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()

	userRepository := userrepo.NewPgRepository(pool)
	authService := authservice.NewAuthService(
		authservice.AuthServiceDeps{
			Repo:        userRepository,
			Hasher:      hasher,
			IDGenerator: idGenerator,
			Clock:       realClock,
			Log:         log,
		},
		authservice.AuthServiceConfig{
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
		},
	)

	blogRepository := blogrepo.NewPgRepository(pool)
	blogService := blogservice.NewBlogService(blogservice.BlogServiceDeps{
		Repo:        blogRepository,
		IDGenerator: idGenerator,
		Clock:       realClock,
		Log:         log,
	})

	authHandler := authhttp.NewHandler(authService, cfg, log)
	blogHandler := bloghttp.NewHandler(blogService, cfg, log)
	requireAuth := jwtverify.Middleware(cfg.JWTSecret, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/v1/user/", authHandler)
	mux.Handle("/api/v1/blog", requireAuth(blogHandler))
	mux.Handle("/api/v1/blog/", requireAuth(blogHandler))

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.MiddlewareForPath(path)(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	srv.StartWithGracefulShutdown(server, log, "api")
}
