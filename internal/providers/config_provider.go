package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"checkin-importer/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "CheckinImporter"

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.path", "data/legacy-checkins.xlsx")
	v.SetDefault("source.id", "legacy-spreadsheet")
	v.SetDefault("registry.kind", "database")
	v.SetDefault("storage.kind", "postgres")
	v.SetDefault("database.maxOpenConns", 4)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("import.batchSize", 1)
	v.SetDefault("import.maxDiagnostics", 50)
	v.SetDefault("import.reportLimit", 10)
	v.SetDefault("import.supportRoles", []string{"teacher", "counselor", "staff", "admin"})
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")
	v.SetDefault("logger.console", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "IMPORTER_LOG_LEVEL")
	_ = v.BindEnv("database.dsn", "IMPORTER_DB_DSN")
	_ = v.BindEnv("source.path", "IMPORTER_SOURCE_PATH")
	_ = v.BindEnv("import.dryRun", "IMPORTER_DRY_RUN")
	_ = v.BindEnv("registry.seedPath", "IMPORTER_SEED_PATH")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if flags.SourcePath != "" {
		conf.Source.Path = flags.SourcePath
	}
	if flags.DryRunSet {
		conf.Import.DryRun = flags.DryRun
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	return &conf, nil
}
