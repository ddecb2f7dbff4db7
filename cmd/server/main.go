package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tagz/internal/api"
	"tagz/internal/config"
	"tagz/internal/logging"
	"tagz/internal/model"
	"tagz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		target   string
		envFile  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "tagz",
		Short:         "Tag-based file catalog server",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 初始化配置
			cfg, err := config.ParseConfig(envFile)
			if err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			if strings.TrimSpace(target) != "" {
				cfg.HTTPAddr = strings.TrimSpace(target)
			}
			if strings.TrimSpace(logLevel) != "" {
				cfg.LogLevel = strings.TrimSpace(logLevel)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "listen address, overrides HTTP_ADDR")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "env file loaded before reading the environment")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error), overrides LOG_LEVEL")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	// 初始化logger
	logger := logging.Setup(cfg)

	repo, err := model.InitRepository(&cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialise repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.WithError(err).Warn("failed to close repository")
		}
	}()

	if _, err := model.SeedTags(ctx, repo, cfg.SeedTags, logger); err != nil {
		logger.WithError(err).Warn("failed to seed tags")
	}

	catalog := service.NewCatalogService(repo, service.Pagination{
		TagsPerPage:       cfg.ListTagsPerPage,
		FilesPerPage:      cfg.ListFilesPerPage,
		FilesByTagPerPage: cfg.ListFilesByTagPerPage,
	}, logger)

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(api.NewHTTPHandler(cfg, catalog), logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"host": cfg.HTTPAddr, "db_type": cfg.DBType}).Info("服务器启动")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("服务器启动失败")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
		return err
	}
	return nil
}
