package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/skillsenselab/funcbox/app/arcade"
	"github.com/skillsenselab/funcbox/app/catalog"
	"github.com/skillsenselab/funcbox/app/chat"
	"github.com/skillsenselab/funcbox/app/simple"
	"github.com/skillsenselab/funcbox/app/sysinfo"
	"github.com/skillsenselab/funcbox/app/tasks"
	"github.com/skillsenselab/funcbox/component"
	"github.com/skillsenselab/funcbox/config"
	"github.com/skillsenselab/funcbox/database"
	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/telemetry"
)

const serviceName = "funcbox"

const gracefulTimeout = 15 * time.Second

// serveConfig is the full configuration tree loaded from config.yml and the
// environment.
type serveConfig struct {
	Logging   logger.Config    `yaml:"logging" mapstructure:"logging"`
	Server    server.Config    `yaml:"server" mapstructure:"server"`
	Telemetry telemetry.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Database  database.Config  `yaml:"database" mapstructure:"database"`
	Arcade    arcade.Config    `yaml:"arcade" mapstructure:"arcade"`
}

func (c *serveConfig) applyDefaults() {
	c.Logging.ApplyDefaults()
	if debug {
		c.Logging.Level = "debug"
	}
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = serviceName
	}
}

func loadConfig() (serveConfig, error) {
	var cfg serveConfig
	var opts []config.Option
	if configPath != "" {
		opts = append(opts, config.WithConfigFile(configPath))
	}
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// buildRegistry constructs every app the current configuration supports.
// The arcade app needs OAuth credentials and is skipped when they are absent.
func buildRegistry(cfg serveConfig, log *logger.Logger) (*component.Registry, error) {
	reg := component.NewRegistry()

	apps := []component.App{
		simple.New(log),
		catalog.New(log),
		tasks.New(cfg.Database, log),
		chat.New(log),
		sysinfo.New(log),
	}

	if cfg.Arcade.Database.DSN == "" {
		cfg.Arcade.Database = cfg.Database
	}
	cfg.Arcade.ApplyDefaults()
	if err := cfg.Arcade.Validate(); err != nil {
		log.Debug("Arcade app not configured", map[string]interface{}{
			"reason": err.Error(),
		})
	} else {
		arcadeApp, err := arcade.New(cfg.Arcade, log)
		if err != nil {
			return nil, err
		}
		apps = append(apps, arcadeApp)
	}

	for _, a := range apps {
		if err := reg.Register(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// appHealth adapts an app's optional health reporting to the health endpoint.
type appHealth struct {
	app component.App
}

func (h appHealth) CheckHealth(c *gin.Context) []component.Health {
	reporter, ok := h.app.(component.HealthReporter)
	if !ok {
		return nil
	}
	return []component.Health{reporter.Health(c.Request.Context())}
}

// newServeCmd creates the 'serve' subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve <app>",
		Short: "Serve one demo app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(args[0])
		},
	}
}

func runServe(appName string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.New(&cfg.Logging, serviceName)

	registry, err := buildRegistry(cfg, log)
	if err != nil {
		return err
	}
	app, ok := registry.Get(appName)
	if !ok {
		names := registry.Names()
		sort.Strings(names)
		return fmt.Errorf("unknown app %q (available: %s)", appName, strings.Join(names, ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}

	if lc, ok := app.(component.Lifecycle); ok {
		if err := lc.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", app.Name(), err)
		}
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(app.Name(), appHealth{app: app})
	app.Register(srv.GinEngine())

	if cfg.Telemetry.Enabled {
		srv.SetHandler(telemetry.WrapHandler(app.Name(), srv.Handler()))
		srv.Handle("/metrics", telemetry.MetricsHandler())
	}

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("Serving app", map[string]interface{}{
		"app":  app.Name(),
		"addr": srv.Addr(),
	})

	<-ctx.Done()
	log.Info("Shutting down", map[string]interface{}{"app": app.Name()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("Server shutdown error")
	}
	if lc, ok := app.(component.Lifecycle); ok {
		if err := lc.Stop(shutdownCtx); err != nil {
			log.WithError(err).Warn("App shutdown error")
		}
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.WithError(err).Warn("Telemetry shutdown error")
	}
	return nil
}
