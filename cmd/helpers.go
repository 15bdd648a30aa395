package cmd

import (
	"fmt"

	"github.com/foomo/docs-versionpanel/config"
	"github.com/foomo/docs-versionpanel/service"
	"github.com/foomo/docs-versionpanel/versions"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if siteRoot != "" {
		cfg.SiteRoot = siteRoot
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger logs to stderr; stdout is reserved for command output and the MCP protocol.
func newLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc = zap.NewDevelopmentConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func siteSettings(cfg *config.Config) service.SiteSettings {
	return service.SiteSettings{
		Root:           cfg.SiteRoot,
		ContainerClass: cfg.ContainerClass,
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
		Concurrency:    cfg.Concurrency,
	}
}

// setup loads config, logger, versions and the site service shared by most commands.
func setup() (*config.Config, *zap.Logger, *versions.Store, service.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	store, err := versions.NewStore(logger, cfg.VersionsPath())
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, logger, store, service.NewService(logger, siteSettings(cfg), store), nil
}
