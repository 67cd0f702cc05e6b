package constants

const (
	SettingTimezone          = "timezone"
	SettingConsistencyWindow = "consistency_window_days"
	SettingDefaultColor      = "default_color"

	DefaultTimezone          = "Local" // Use system local timezone by default
	DefaultConsistencyWindow = 30
	MaxConsistencyWindow     = 3650
)
