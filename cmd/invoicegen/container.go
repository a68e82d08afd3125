package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/config"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/httpapi"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/invoice"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/kvstore"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/observability"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/project"
)

// runtime is everything a command needs, resolved from the container.
type runtime struct {
	dig.In

	Config   *config.Config
	Logger   *zap.Logger
	Store    kvstore.Backend
	Profiles *project.ProfileStore
	Service  *invoice.Service
	Server   *httpapi.Server
}

// loadConfig reads the configuration and applies the global flags on top.
// --store without --store-path uses the default location of that backend.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	root := cmd.Root()
	cfg, err := config.Load(root.String(configFlag))
	if err != nil {
		return nil, err
	}
	if root.IsSet(storeFlag) {
		cfg.Store.Backend = root.String(storeFlag)
		cfg.Store.Path = config.DefaultStorePath(cfg.Store.Backend)
	}
	if root.IsSet(storePathFlag) {
		cfg.Store.Path = root.String(storePathFlag)
	}
	if root.IsSet(logLevelFlag) {
		cfg.Log.Level = root.String(logLevelFlag)
	}
	return cfg, nil
}

func buildContainer(ctx context.Context, cmd *cli.Command) (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor interface{}
	}{
		{"config", func() (*config.Config, error) { return loadConfig(cmd) }},
		{"config dependencies", config.ParseDependenciesConfig},
		{"logger", func(c *config.LogConfig) (*zap.Logger, error) {
			return observability.InitLogger(c.Level)
		}},
		{"store", func(c *config.StoreConfig) (kvstore.Backend, error) {
			return kvstore.Open(ctx, c.StoreOptions())
		}},
		{"profile store", func(b kvstore.Backend) *project.ProfileStore {
			return project.NewProfileStore(b)
		}},
		{"invoice service", func(p *project.ProfileStore, c *config.InvoiceConfig) *invoice.Service {
			return invoice.NewService(p, c.BusinessName)
		}},
		{"http handler", httpapi.NewHandler},
		{"http router", func(h *httpapi.Handler, c *config.CORSConfig) http.Handler {
			return httpapi.NewRouter(h, c)
		}},
		{"http server", httpapi.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}
	return container, nil
}

// withRuntime builds the container, runs fn and closes the store afterwards.
func withRuntime(ctx context.Context, cmd *cli.Command, fn func(rt *runtime) error) error {
	container, err := buildContainer(ctx, cmd)
	if err != nil {
		return err
	}

	var fnErr error
	err = container.Invoke(func(rt runtime) {
		observability.SetLogger(rt.Logger)
		defer func() {
			_ = rt.Logger.Sync()
		}()
		defer func() {
			if cerr := rt.Store.Close(); cerr != nil {
				rt.Logger.Warn("failed to close store", zap.Error(cerr))
			}
		}()
		fnErr = fn(&rt)
	})
	if err != nil {
		return dig.RootCause(err)
	}
	return fnErr
}
