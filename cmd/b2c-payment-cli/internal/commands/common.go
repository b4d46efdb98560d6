package commands

import (
	"fmt"
	"os"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/rest-app.yaml"

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// loadConfig resolves the configuration file from --config, then CONFIG_PATH.
func loadConfig(cmd *cobra.Command) (*config.RestConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.InitializeRestConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return cfg, nil
}
