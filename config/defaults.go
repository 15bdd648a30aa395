package config

import (
	"time"

	"github.com/foomo/docs-versionpanel/panel"
)

// DefaultConfig returns a configuration for a site built into ./public.
func DefaultConfig() *Config {
	return &Config{
		SiteRoot:       "public",
		VersionsFile:   "versions.js",
		ContainerClass: panel.ContainerClass,
		Include:        []string{"**/*.html"},
		Concurrency:    4,
		HTTP: HTTP{
			Addr:              ":8080",
			Endpoint:          "/mcp",
			AllowedOrigins:    []string{"*"},
			KeepaliveInterval: 30 * time.Second,
			BufferSize:        100,
		},
	}
}
