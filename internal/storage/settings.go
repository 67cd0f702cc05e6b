package storage

import (
	"strconv"

	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/models"
)

// SettingsValues flattens settings into the key/value rows of the settings table.
func SettingsValues(s models.Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:          s.Timezone,
		constants.SettingConsistencyWindow: strconv.Itoa(s.ConsistencyWindowDays),
		constants.SettingDefaultColor:      s.DefaultColor,
	}
}

// DefaultSettings returns the settings written by Init.
func DefaultSettings() models.Settings {
	return models.Settings{
		Timezone:              constants.DefaultTimezone,
		ConsistencyWindowDays: constants.DefaultConsistencyWindow,
		DefaultColor:          constants.DefaultColor,
	}
}
