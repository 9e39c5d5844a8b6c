package models

// SettingMaxCardCount caps the page size the query planner will materialize.
const SettingMaxCardCount = "max_card_count"

// Setting is a key/value row for runtime-tunable values such as
// max_card_count.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}
