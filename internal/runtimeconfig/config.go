package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDefaultLanguageRequired indicates a configuration without a fallback language.
var ErrDefaultLanguageRequired = errors.New("kiosk config: default language is required")

// ErrAdvancedCacheRequiresEnabledCache ensures repository caching builds only when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("kiosk config: advanced cache feature requires cache to be enabled")

// ErrCommandTimeoutInvalid rejects negative command timeouts.
var ErrCommandTimeoutInvalid = errors.New("kiosk config: command timeout must be zero or positive")
var ErrThemeDiscriminatorEmpty = errors.New("kiosk config: theme discriminators must not contain empty entries")
var ErrLoggingProviderRequired = errors.New("kiosk config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("kiosk config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("kiosk config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("kiosk config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the kiosk module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled         bool
	DefaultLanguage string
	Tenancy         TenancyConfig
	Storage         StorageConfig
	Cache           CacheConfig
	Assets          AssetsConfig
	Features        Features
	Commands        CommandsConfig
	Logging         LoggingConfig
}

// TenancyConfig captures per-tenant bootstrap behaviour.
type TenancyConfig struct {
	// ThemeDiscriminators seeds one themed ref per entry for the
	// terminal-facing resource types when a tenant is bootstrapped.
	ThemeDiscriminators []string
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// AssetsConfig captures asset registry behaviour.
type AssetsConfig struct {
	// BasePath prefixes stored binary paths handed to the blob store.
	BasePath string
}

// Features toggles module functionality.
type Features struct {
	AdvancedCache bool
	Commands      bool
	Logger        bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled        bool
	CleanupTimeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for an embedded deployment.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultLanguage: "en",
		Tenancy:         TenancyConfig{},
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Assets: AssetsConfig{
			BasePath: "assets",
		},
		Features: Features{},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Commands.CleanupTimeout < 0 {
		return ErrCommandTimeoutInvalid
	}
	for _, discriminator := range cfg.Tenancy.ThemeDiscriminators {
		if strings.TrimSpace(discriminator) == "" {
			return ErrThemeDiscriminatorEmpty
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
