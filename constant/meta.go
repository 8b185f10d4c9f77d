// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "ythdp"

	// DisplayName is used in notices printed to the terminal.
	DisplayName = "YouTube HD Premium"

	// Version is the current application version string.
	Version = "3.2.0"

	// UserAgent is the default HTTP User-Agent string used for update checks.
	UserAgent = App + "/" + Version

	// ManifestURL is the default location of the published release manifest.
	ManifestURL = "https://api.github.com/repos/ythdp/ythdp/releases/latest"

	// DownloadURL is opened when the user accepts an available update.
	DownloadURL = "https://github.com/ythdp/ythdp/releases/latest"
)

// Build metadata, overridden with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
