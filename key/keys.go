// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 19

// Media Player - these keys describe how the mpv instance is launched and reached.
const (
	PlayerSocket     = "player.socket"
	PlayerBinary     = "player.binary"
	PlayerAllFormats = "player.all_formats"
)

// Lifecycle - these keys tune when re-evaluations are scheduled.
const (
	LifecycleDebounce   = "lifecycle.debounce"
	LifecycleReadyDelay = "lifecycle.ready_delay"
)

// Resolution - these keys govern the retry policy of the quality controller.
const (
	ResolutionMaxRetries       = "resolution.max_retries"
	ResolutionRetryDelay       = "resolution.retry_delay"
	ResolutionErrorBackoffBase = "resolution.error_backoff_base"
	ResolutionErrorBackoffStep = "resolution.error_backoff_step"
)

// Menu - these keys configure the interactive command menu.
const (
	MenuInteractive = "menu.interactive"
)

// Metrics - optional prometheus endpoint.
const (
	MetricsAddress = "metrics.address"
)

// Update Checker - these keys point at the release manifest.
const (
	UpdateManifestURL = "update.manifest_url"
	UpdateDownloadURL = "update.download_url"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
