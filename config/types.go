package config

import "time"

// Config is the versionpanel configuration, corresponding to versionpanel.yml.
type Config struct {
	// SiteRoot contains one folder per published documentation build.
	SiteRoot string `yaml:"site_root" koanf:"site_root"`
	// VersionsFile is the versions data file; relative paths resolve against SiteRoot.
	VersionsFile   string   `yaml:"versions_file" koanf:"versions_file"`
	VersionsURL    string   `yaml:"versions_url" koanf:"versions_url"`
	ContainerClass string   `yaml:"container_class" koanf:"container_class"`
	Include        []string `yaml:"include" koanf:"include"`
	Exclude        []string `yaml:"exclude" koanf:"exclude"`
	Concurrency    int      `yaml:"concurrency" koanf:"concurrency"`
	HTTP           HTTP     `yaml:"http" koanf:"http"`
}

// HTTP holds settings of the serve command.
type HTTP struct {
	Addr              string        `yaml:"addr" koanf:"addr"`
	Endpoint          string        `yaml:"endpoint" koanf:"endpoint"`
	AllowedOrigins    []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	KeepaliveInterval time.Duration `yaml:"keepalive_interval" koanf:"keepalive_interval"`
	BufferSize        int           `yaml:"buffer_size" koanf:"buffer_size"`
}
