package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/PauloHFS/skystore/internal/cache"
	"github.com/PauloHFS/skystore/internal/config"
	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/mailer"
	"github.com/PauloHFS/skystore/internal/middleware"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/services"
	"github.com/PauloHFS/skystore/internal/token"
	"github.com/PauloHFS/skystore/internal/upload"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/web"
	"github.com/PauloHFS/skystore/internal/worker"
)

func RunServer(assetsFS fs.FS) {
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	logging.Init()
	logger := logging.Get()

	// 1. DB
	pool, err := db.NewDualPool("sqlite3", cfg.DatabaseURL)
	if err != nil {
		fatal("failed to open database", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(context.Background(), pool.Write); err != nil {
		fatal("failed to run migrations", err)
	}

	// 1.1 Diretórios de upload
	for _, c := range []upload.Config{upload.AvatarConfig, upload.ProductImageConfig, upload.PostImageConfig} {
		if err := os.MkdirAll(filepath.Join(cfg.StorageDir, c.Directory), 0o755); err != nil {
			fatal("failed to create storage directories", err)
		}
	}

	// 2. Políticas
	policyFile, err := policies.LoadFile(cfg.PolicyFile)
	if err != nil {
		fatal("failed to load policy file", err)
	}
	authz, err := policies.NewAuthorizerFromFile(policyFile)
	if err != nil {
		fatal("invalid policy file", err)
	}

	// 3. Cache das estatísticas
	store, closeCache := openCache(cfg, logger)
	defer closeCache()

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(pool.Write)
	sessionManager.Lifetime = 14 * 24 * time.Hour
	sessionManager.Cookie.Secure = cfg.Env == "prod"

	users := services.NewUserService(pool, token.NewIssuer(cfg.SessionSecret, cfg.TokenTTL), authz, cfg.BaseURL)
	catalog := services.NewCatalogService(pool, validator.NewBlocklist(policyFile.Blocklist))
	authLimiter := middleware.NewRateLimiter(rate.Every(6*time.Second), 5)
	globalLimiter := middleware.NewRateLimiter(rate.Limit(20), 40)

	mux := http.NewServeMux()
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	web.RegisterRoutes(mux, web.HandlerDeps{
		DB:             pool.Read,
		Queries:        pool.Queries(),
		SessionManager: sessionManager,
		Config:         cfg,
		Logger:         logger,
		Catalog:        catalog,
		Blog:           services.NewBlogService(pool),
		Users:          users,
		Stats:          services.NewStatsService(pool, store),
		Uploads:        upload.Store{Root: cfg.StorageDir},
		AuthLimiter:    authLimiter,
	})

	handler := middleware.Recovery(
		globalLimiter.Middleware(
			middleware.SecurityHeaders(cfg.Env == "prod")(
				middleware.Logger(
					middleware.Locale(
						sessionManager.LoadAndSave(
							middleware.LoadSubject(sessionManager, pool.Queries(), users,
								middleware.CSRF(cfg.Env == "prod", mux),
							),
						),
					),
				),
			),
		),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gzhttp.GzipHandler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := worker.New(pool.QueriesWrite(), mailer.New(cfg), logger)
	if err := w.RescueZombies(ctx); err != nil {
		logger.Error("zombie hunter failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.Start(gctx)
		return nil
	})
	if cfg.PolicyFile != "" {
		g.Go(func() error {
			return policies.Watch(gctx, cfg.PolicyFile, logger, func(f *policies.File) {
				a, err := policies.NewAuthorizerFromFile(f)
				if err != nil {
					logger.Warn("reloaded policy rejected", "error", err)
					return
				}
				users.SetAuthorizer(a)
				catalog.SetBlocklist(validator.NewBlocklist(f.Blocklist))
			})
		})
	}
	g.Go(func() error {
		authLimiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		globalLimiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		w.Wait()
		os.Exit(1)
	}
	w.Wait()

	logger.Info("server exited properly")
}

// openCache escolhe Redis quando configurado, senão o LRU em memória.
func openCache(cfg *config.Config, logger *slog.Logger) (cache.Store, func()) {
	if !cfg.Cache.Enabled {
		return cache.Nop{}, func() {}
	}
	if cfg.Cache.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		client, err := cache.Connect(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
		if err == nil {
			logger.Info("statistics cache", "backend", "redis", "addr", cfg.Cache.RedisAddr)
			return cache.NewRedisStore(client, cfg.Cache.TTL), func() { _ = client.Close() }
		}
		logger.Warn("redis unavailable, falling back to lru", "error", err)
	}
	logger.Info("statistics cache", "backend", "lru", "size", cfg.Cache.Size)
	return cache.NewLRUStore(cfg.Cache.Size, cfg.Cache.TTL), func() {}
}

func fatal(msg string, err error) {
	logging.Get().Error(msg, "error", err)
	os.Exit(1)
}
