package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/mathgalaxy/internal/config"
	"github.com/abhisek/mathgalaxy/internal/discovery"
	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/abhisek/mathgalaxy/internal/galaxy"
	"github.com/abhisek/mathgalaxy/internal/llm"
	"github.com/abhisek/mathgalaxy/internal/progress"
	"github.com/abhisek/mathgalaxy/internal/store"
	"github.com/abhisek/mathgalaxy/internal/topicgraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// env is everything a command needs, built from flags and configuration.
type env struct {
	cfg    *config.Config
	log    *logrus.Logger
	store  *store.Store
	galaxy *galaxy.Service

	closers []func() error
}

// loadConfig reads configuration and applies the --log-level override.
func loadConfig(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	log, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openStore resolves the database path and opens the store.
func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newEnv wires the galaxy service. Text generation is optional: a disabled
// or misconfigured provider leaves the service on fallback content.
func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: log, store: st}
	e.closers = append(e.closers, st.Close)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		log.Debug("text generation disabled")
		provider = nil
	case err != nil:
		log.WithError(err).Warn("LLM provider not configured, AI features will be unavailable")
		provider = nil
	}

	opts := []explain.Option{explain.WithLogger(log)}
	cache, err := e.newCache(ctx)
	if err != nil {
		log.WithError(err).Warn("explanation cache unavailable")
	} else if cache != nil {
		opts = append(opts, explain.WithCache(cache))
	}
	explainer := explain.NewService(provider, cfg.Explain, opts...)

	graph := topicgraph.Default()
	e.galaxy = galaxy.New(galaxy.Deps{
		Graph:   graph,
		Matcher: discovery.Default(),
		Progress: progress.NewManager(st.RecordRepo(), progress.Options{
			RootID:      graph.Root(),
			TotalTopics: graph.Count(),
			Logger:      log,
		}),
		Explainer: explainer,
		Events:    st.EventRepo(),
		Logger:    log,
	})
	return e, nil
}

func (e *env) newCache(ctx context.Context) (explain.Cache, error) {
	switch e.cfg.Cache.Backend {
	case config.CacheMemory:
		return explain.NewMemoryCache(), nil
	case config.CacheRedis:
		rc, err := explain.NewRedisCache(ctx, e.cfg.Cache.RedisURL, e.log)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, rc.Close)
		return rc, nil
	default:
		return nil, nil
	}
}

// Close releases the store and cache connections in reverse order.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.WithError(err).Debug("close")
		}
	}
}
