// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package tablegen implements the table generation tool: configuration,
// input parsing, and writing the packaged artifact and its manifest.
package tablegen

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of the environment variables that override
// the configuration file, as in `SHAMIRTABLE_WINDOW=4`.
const EnvPrefix = "SHAMIRTABLE"

// Config is the table generation configuration.
type Config struct {
	// Curve is the curve name (`p256`, `secp256k1`, `bn254`).
	Curve string `mapstructure:"curve"`

	// PublicKey is Q, as a hex encoded SEC 1 point, or the path to a
	// file containing either that or a PEM `PUBLIC KEY`.
	PublicKey string `mapstructure:"publickey"`

	// Window is the window width in bits.
	Window int `mapstructure:"window"`

	// BasePayload is the runtime code that precedes the table, as hex,
	// or the path to a file containing either that or a hardhat/truffle
	// artifact with a `deployedBytecode`.  Empty selects the default.
	BasePayload string `mapstructure:"basepayload"`

	// Output is the path the creation code is written to, as hex.
	Output string `mapstructure:"output"`

	// Manifest is the path the YAML manifest is written to.
	Manifest string `mapstructure:"manifest"`

	// Concurrency is the number of goroutines used for generation, with
	// 0 selecting the default.
	Concurrency int `mapstructure:"concurrency"`

	// LogLevel is the zap log level.
	LogLevel string `mapstructure:"loglevel"`
}

var defaults = map[string]interface{}{
	"curve":       "p256",
	"publickey":   "",
	"window":      4,
	"basepayload": "",
	"output":      "table.hex",
	"manifest":    "table.yaml",
	"concurrency": 0,
	"loglevel":    "info",
}

// LoadConfig loads the configuration from the YAML file at `path` (if
// not empty), with environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "tablegen: failed to read config '%s'", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "tablegen: failed to decode config")
	}

	return &cfg, nil
}

// NewLogger returns a console logger at the configured level.
func (cfg *Config) NewLogger() (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, errors.Wrapf(err, "tablegen: invalid log level '%s'", cfg.LogLevel)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "tablegen: failed to build logger")
	}
	return logger.Named("shamir-table"), nil
}
