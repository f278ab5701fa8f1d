package structures

import "time"

type SourceConfig struct {
	Path string `yaml:"path" validate:"required"`
	ID   string `yaml:"id" validate:"required"`
}

type RegistryConfig struct {
	Kind     string `yaml:"kind" validate:"required|in:database,file"`
	SeedPath string `yaml:"seedPath"`
}

type StorageConfig struct {
	Kind string `yaml:"kind" validate:"required|in:postgres,memory"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"maxOpenConns"`
	MaxIdleConns int    `yaml:"maxIdleConns"`
}

type ImportConfig struct {
	DryRun         bool     `yaml:"dryRun"`
	BatchSize      int      `yaml:"batchSize" validate:"required|int|min:1"`
	MaxDiagnostics int      `yaml:"maxDiagnostics" validate:"required|int|min:1"`
	ReportLimit    int      `yaml:"reportLimit" validate:"required|int|min:1"`
	SupportRoles   []string `yaml:"supportRoles"`
}

type LoggerConfig struct {
	Level   string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode    uint32 `yaml:"mode" validate:"required|uint"`
	Dir     string `yaml:"dir" validate:"required|unixPath"`
	Console bool   `yaml:"console"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Textfile string `yaml:"textfile"`
}

type ReportConfig struct {
	Path string `yaml:"path"`
}

type Config struct {
	AppName  string
	Debug    bool
	Path     string
	Source   SourceConfig   `yaml:"source"`
	Registry RegistryConfig `yaml:"registry"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
	Logger   LoggerConfig   `yaml:"logger"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Report   ReportConfig   `yaml:"report"`
}
