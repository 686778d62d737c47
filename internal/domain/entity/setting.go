package entity

import "time"

// SettingKey enumerates the keys accepted in app_settings.
type SettingKey string

const (
	SettingCommissionDefaultPct SettingKey = "commission_default_pct"
	SettingCostMode             SettingKey = "cost_mode"
	SettingDamageWarningPct     SettingKey = "damage_warning_pct"
	SettingTransportWarningPct  SettingKey = "transport_warning_pct"
)

// KnownSettingKeys lists every key the engine reads.
var KnownSettingKeys = []SettingKey{
	SettingCommissionDefaultPct,
	SettingCostMode,
	SettingDamageWarningPct,
	SettingTransportWarningPct,
}

// AppSetting is a stored override for one engine setting.
type AppSetting struct {
	Key       SettingKey `gorm:"primaryKey;size:64" json:"key"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the table name for the AppSetting model
func (AppSetting) TableName() string {
	return "app_settings"
}
