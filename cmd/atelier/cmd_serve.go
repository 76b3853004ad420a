package main

import (
	"fmt"
	"os"

	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runServe wires the stack and serves the API until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	// serve runs until a signal, not until --timeout
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.InitAudit(); err != nil {
		logger.Warn("Audit log unavailable", zap.Error(err))
	}
	defer logging.CloseAudit()
	defer logging.CloseAll()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, statErr := os.Stat(configPath); statErr == nil {
		w, err := config.NewWatcher(configPath, func(next *config.Config) {
			logging.Configure(loggingSettings(next))
			logger.Info("Config reloaded", zap.String("path", configPath))
		})
		if err != nil {
			logger.Warn("Config watcher unavailable", zap.Error(err))
		} else if err := w.Start(ctx); err != nil {
			logger.Warn("Config watcher failed to start", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	deps := server.Deps{
		Search:    st.search,
		Orders:    st.orders,
		Concierge: st.concierge,
	}
	if st.mirror != nil {
		deps.Mirror = st.mirror
	}
	if st.usage != nil {
		deps.Usage = st.usage
	}

	logger.Info("Serving",
		zap.String("addr", cfg.Server.Addr),
		zap.Strings("tiers", st.search.Tiers()))
	if err := server.New(cfg, deps).Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
