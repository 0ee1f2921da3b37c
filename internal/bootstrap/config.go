package bootstrap

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/config"
	infraconfig "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/logger"
)

const (
	serviceName       = "tenderned-notice"
	defaultConfigPath = "config.yml"
)

// LoadConfig loads and validates the configuration. An empty path falls back to
// CONFIG_PATH and then config.yml.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = infraconfig.GetConfigPath(defaultConfigPath)
	}

	cfg, loadErr := config.Load(path)
	if loadErr != nil {
		return nil, fmt.Errorf("load config: %w", loadErr)
	}

	return cfg, nil
}

// CreateLogger creates the run's structured logger, tagged with the service name and
// a fresh run id.
func CreateLogger(cfg *config.Config, debug bool) (infralogger.Logger, error) {
	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}

	log, logErr := infralogger.New(infralogger.Config{
		Level:       level,
		Format:      cfg.Logging.Format,
		Development: debug,
	})
	if logErr != nil {
		return nil, fmt.Errorf("create logger: %w", logErr)
	}

	return log.With(
		infralogger.String("service", serviceName),
		infralogger.String("run_id", uuid.NewString()),
	), nil
}
