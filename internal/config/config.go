// Package config reads the viewer's startup settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const envPrefix = "REJECT_OCEAN_"

const (
	DefaultModel       = "assets/frozenwhaleL.glb"
	DefaultEnvironment = "assets/dancing_hall_1k.hdr"
	DefaultFont        = "assets/helvetiker_regular.typeface.json"
)

var validate = validator.New()

// AppConfig holds the settings resolved at startup.
type AppConfig struct {
	Model       string `validate:"required"`
	Environment string
	Font        string
	// Params is an optional parameter file that is loaded and watched for edits.
	Params string

	Width  int `validate:"min=1"`
	Height int `validate:"min=1"`

	TickRate   float64 `validate:"gte=1,lte=1000"`
	FrameLimit float64 `validate:"gte=0"`

	Development bool
	Debug       bool
	Profiling   bool
	Software    bool
}

// Default returns the settings used when nothing is configured.
func Default() AppConfig {
	return AppConfig{
		Model:       DefaultModel,
		Environment: DefaultEnvironment,
		Font:        DefaultFont,
		Width:       1280,
		Height:      720,
		TickRate:    60,
	}
}

// Load reads an optional dotenv file and then the REJECT_OCEAN_* variables.
// Values already present in the process environment win over the file.
//
// Parameters:
//   - dotenv: path of the dotenv file; a missing file is not an error
//
// Returns:
//   - AppConfig: the resolved settings
//   - error: if the file is unreadable or a value fails to parse or validate
func Load(dotenv string) (AppConfig, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("failed to load %s: %w", dotenv, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv resolves the settings through lookup, falling back to Default for unset keys.
//
// Parameters:
//   - lookup: an environment lookup such as os.LookupEnv
//
// Returns:
//   - AppConfig: the resolved settings
//   - error: if a value fails to parse or validate
func FromEnv(lookup func(string) (string, bool)) (AppConfig, error) {
	def := Default()
	get := func(key string) string {
		v, _ := lookup(envPrefix + key)
		return v
	}

	cfg := AppConfig{
		Model:       common.Coalesce(get("MODEL"), def.Model),
		Environment: common.Coalesce(get("ENVIRONMENT"), def.Environment),
		Font:        common.Coalesce(get("FONT"), def.Font),
		Params:      get("PARAMS"),
	}

	var errs []error
	num := func(key string, fallback float64) float64 {
		raw := get(key)
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			return fallback
		}
		return v
	}
	flag := func(key string) bool {
		raw := get(key)
		if raw == "" {
			return false
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
		}
		return v
	}

	cfg.Width = int(num("WIDTH", float64(def.Width)))
	cfg.Height = int(num("HEIGHT", float64(def.Height)))
	cfg.TickRate = num("TICK_RATE", def.TickRate)
	cfg.FrameLimit = num("FRAME_LIMIT", def.FrameLimit)
	cfg.Development = flag("DEVELOPMENT")
	cfg.Debug = flag("DEBUG")
	cfg.Profiling = flag("PROFILING")
	cfg.Software = flag("SOFTWARE")

	if len(errs) > 0 {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	if err := validate.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
