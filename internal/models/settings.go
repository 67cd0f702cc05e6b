package models

// Settings represents application-wide settings
type Settings struct {
	Timezone              string `json:"timezone"`                // IANA timezone name, or "Local" for the system timezone
	ConsistencyWindowDays int    `json:"consistency_window_days"` // default lookback for consistency
	DefaultColor          string `json:"default_color"`           // color token given to new habits
}
