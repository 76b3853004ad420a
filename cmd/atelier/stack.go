package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"atelier/internal/catalog"
	"atelier/internal/concierge"
	"atelier/internal/config"
	"atelier/internal/images"
	"atelier/internal/llm"
	"atelier/internal/logging"
	"atelier/internal/messaging"
	"atelier/internal/orders"
	"atelier/internal/search"
	"atelier/internal/store"
	"atelier/internal/usage"

	"go.uber.org/zap"
)

// stack is the wired set of services a command works with.
type stack struct {
	cfg        *config.Config
	search     *search.Orchestrator
	orders     *orders.Service
	dispatcher *messaging.Dispatcher
	concierge  *concierge.Service
	mirror     *store.SQLiteMirror
	usage      *usage.Tracker
}

func (s *stack) Close() {
	if s.usage != nil {
		if err := s.usage.Close(); err != nil {
			logger.Warn("Saving usage", zap.Error(err))
		}
	}
	if s.mirror != nil {
		if err := s.mirror.Close(); err != nil {
			logger.Warn("Closing order mirror", zap.Error(err))
		}
	}
}

// loadConfig reads and validates the config file and applies logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Initialize(cfg.Logging.Dir, loggingSettings(cfg)); err != nil {
		logger.Warn("File logging unavailable", zap.Error(err))
	}
	return cfg, nil
}

func loggingSettings(cfg *config.Config) logging.Settings {
	return logging.Settings{
		DebugMode:  cfg.Logging.DebugMode,
		Categories: cfg.Logging.Categories,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.Format == "json",
	}
}

// buildStack wires every service from cfg.
func buildStack(ctx context.Context, cfg *config.Config) (*stack, error) {
	s := &stack{cfg: cfg}

	resolver := images.New(cfg.Images, cfg.GetImageTimeout())

	seed := cfg.Search.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	generator := catalog.NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), resolver)

	var gen llm.Generator
	if cfg.RemoteSearchEnabled() {
		tracker, err := usage.NewTracker(usageDir(cfg))
		if err != nil {
			return nil, err
		}
		s.usage = tracker
		client, err := llm.NewGenAIClient(ctx, cfg.LLM, cfg.GetLLMTimeout(), llm.WithUsage(tracker))
		if err != nil {
			logger.Warn("Remote search unavailable", zap.Error(err))
		} else {
			gen = client
		}
	}
	s.search = search.FromConfig(cfg, gen, resolver, generator)

	opts := []orders.Option{orders.WithIDs(orders.NewIDGenerator(cfg.Orders.IDScheme, cfg.Orders.CounterSeed))}
	if cfg.Store.Enabled {
		mirror, err := store.OpenSQLiteMirror(cfg.Store.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open order mirror: %w", err)
		}
		s.mirror = mirror
		opts = append(opts, orders.WithMirror(mirror))
	}
	s.orders = orders.NewService(opts...)

	s.dispatcher = messaging.NewDispatcher(cfg.Messaging, cfg.GetMessagingTimeout())
	s.concierge = concierge.New(s.orders, s.dispatcher)

	logger.Debug("Stack ready",
		zap.Strings("tiers", s.search.Tiers()),
		zap.Bool("mirror", s.mirror != nil),
		zap.String("recipient", s.dispatcher.Recipient()))
	return s, nil
}

// usageDir keeps usage.json next to the order mirror, or in memory when the
// mirror is disabled.
func usageDir(cfg *config.Config) string {
	if !cfg.Store.Enabled || cfg.Store.DatabasePath == ":memory:" {
		return ""
	}
	return filepath.Dir(cfg.Store.DatabasePath)
}
