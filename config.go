package kiosk

import "github.com/goliatone/go-kiosk/internal/runtimeconfig"

var (
	ErrDefaultLanguageRequired           = runtimeconfig.ErrDefaultLanguageRequired
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrCommandTimeoutInvalid             = runtimeconfig.ErrCommandTimeoutInvalid
	ErrThemeDiscriminatorEmpty           = runtimeconfig.ErrThemeDiscriminatorEmpty
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	TenancyConfig  = runtimeconfig.TenancyConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	AssetsConfig   = runtimeconfig.AssetsConfig
	Features       = runtimeconfig.Features
	CommandsConfig = runtimeconfig.CommandsConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
