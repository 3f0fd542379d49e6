package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tidestom/internal/auth"
	cronrunner "tidestom/internal/cron"
	"tidestom/internal/handler"

	_ "tidestom/docs"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and scheduled candidate sync",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, "")
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(parent context.Context, a *app) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg := a.cfg
	logger := a.logger

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Auth.Enabled && strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return errors.New("auth.enabled requires auth.jwt_secret")
	}
	authn := auth.Authenticator{
		JWT:                  auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), TokenTTL: cfg.Auth.TokenTTL},
		Enabled:              cfg.Auth.Enabled,
		AnonymousSubmitterID: cfg.Auth.AnonymousSubmitterID,
	}
	requireSubmitter := authn.RequireSubmitter()
	if strings.TrimSpace(cfg.Session.Secret) == "" {
		logger.Warn("session.secret is empty; flash cookies use a random key")
	}

	syncService := a.candidateSync()
	queryService := a.query()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORSMiddleware())
	engine.Use(handler.WriteAuditMiddleware(logger))

	healthHandler := &handler.HealthHandler{DB: a.conn}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	targetHandler := &handler.TargetHandler{
		Query:            queryService,
		Classifications:  a.classifications(),
		Taxonomy:         a.taxonomy,
		Flash:            handler.NewFlashStore(cfg.Session),
		RequireSubmitter: requireSubmitter,
		Logger:           logger,
	}
	targetHandler.Register(engine)
	spectraHandler := &handler.SpectraHandler{Query: queryService, Logger: logger}
	spectraHandler.Register(engine)
	classificationHandler := &handler.ClassificationHandler{Taxonomy: a.taxonomy}
	classificationHandler.Register(engine)
	syncHandler := &handler.SyncHandler{
		Service:          syncService,
		RequireSubmitter: requireSubmitter,
		Logger:           logger,
	}
	syncHandler.Register(engine)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.metrics.Registry(), promhttp.HandlerOpts{})))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err := cronRunner.Add("candidate_sync", cfg.Cron.CandidateSync, func(ctx context.Context) {
			if _, err := syncService.Sync(ctx); err != nil {
				logger.Warn("scheduled candidate sync failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register candidate sync failed", zap.String("spec", cfg.Cron.CandidateSync), zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case serveErr = <-errCh:
		logger.Error("server error", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	return serveErr
}
