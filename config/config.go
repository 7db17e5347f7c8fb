// Package config loads laboratory identity, numbering and export settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the application configuration.
type Settings struct {
	Lab struct {
		Name          string `mapstructure:"name"`
		Accreditation string `mapstructure:"accreditation"`
		Address       string `mapstructure:"address"`
	} `mapstructure:"lab"`

	Numbering struct {
		Prefix string `mapstructure:"prefix"`
	} `mapstructure:"numbering"`

	Defaults struct {
		NormativeDoc  string `mapstructure:"normative_doc"`
		ControlMethod string `mapstructure:"control_method"`
	} `mapstructure:"defaults"`

	Refdata struct {
		Source  string        `mapstructure:"source"`  // URL, YAML file path, or empty for embedded defaults
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"refdata"`

	Export struct {
		Dir       string `mapstructure:"dir"`
		WrapWidth int    `mapstructure:"wrap_width"`
		FontPath  string `mapstructure:"font_path"` // TTF overriding the embedded PDF font
	} `mapstructure:"export"`
}

// Load reads settings from path, or from ndt.yaml in the working directory
// or ./pb_data when path is empty. A missing default config file is not an
// error. Environment variables prefixed NDT_ override file values, with
// dots replaced by underscores (NDT_LAB_NAME).
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NDT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ndt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./pb_data")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if s.Numbering.Prefix == "" {
		s.Numbering.Prefix = DefaultPrefix
	}
	if s.Export.WrapWidth <= 0 {
		s.Export.WrapWidth = DefaultWrapWidth
	}
	if s.Refdata.Timeout <= 0 {
		s.Refdata.Timeout = DefaultRefdataTimeout
	}
	return s, nil
}

// Default values.
const (
	DefaultPrefix       = "НК"
	DefaultNormativeDoc = "СТО Газпром 15-1.3-004-2023"
	DefaultWrapWidth    = 90

	DefaultRefdataTimeout = 10 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("lab.name", "")
	v.SetDefault("lab.accreditation", "")
	v.SetDefault("lab.address", "")
	v.SetDefault("numbering.prefix", DefaultPrefix)
	v.SetDefault("defaults.normative_doc", DefaultNormativeDoc)
	v.SetDefault("defaults.control_method", "")
	v.SetDefault("refdata.source", "")
	v.SetDefault("refdata.timeout", DefaultRefdataTimeout)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.wrap_width", DefaultWrapWidth)
	v.SetDefault("export.font_path", "")
}

// Default returns the settings used when no file or environment overrides
// exist.
func Default() *Settings {
	v := viper.New()
	setDefaults(v)
	s := &Settings{}
	// Defaults always decode.
	_ = v.Unmarshal(s)
	return s
}
