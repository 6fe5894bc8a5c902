package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".filetrail"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for filetrail settings.
const envPrefix = "FILETRAIL"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	bindLegacyEnv(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("thresholds.rename", DefaultRenameThreshold)
	viperCfg.SetDefault("thresholds.copy", DefaultCopyThreshold)

	viperCfg.SetDefault("html.enabled", DefaultHTMLEnabled)
	viperCfg.SetDefault("html.renderer", DefaultHTMLRenderer)

	viperCfg.SetDefault("output.dir", DefaultOutputDir)
	viperCfg.SetDefault("output.compress", DefaultOutputCompress)
	viperCfg.SetDefault("output.manifest", DefaultOutputManifest)
	viperCfg.SetDefault("output.plot", DefaultOutputPlot)

	viperCfg.SetDefault("limit", DefaultLimit)
}

// bindLegacyEnv keeps the bare environment names honored alongside the
// FILETRAIL_ prefixed forms.
func bindLegacyEnv(viperCfg *viper.Viper) {
	_ = viperCfg.BindEnv("thresholds.rename", "RENAME_THRESHOLD")
	_ = viperCfg.BindEnv("thresholds.copy", "COPY_THRESHOLD")
	_ = viperCfg.BindEnv("html.enabled", "ENABLE_HTML_DIFF")
}
