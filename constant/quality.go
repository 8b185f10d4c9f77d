package constant

// PremiumMarker is the label suffix that identifies an enhanced-bitrate variant of a tier.
const PremiumMarker = "Premium"

// Storage keys used by the settings store. Anything else found in the store is stale.
const (
	SettingsKey = "settings"
	RunInfoKey  = "runInfo"
)
