package models

type GuildModel struct {
	ID                uint64 `gorm:"primaryKey;autoIncrement:false"`
	Name              string `gorm:"size:255;not null;default:''"`
	Plan              string `gorm:"size:50;not null;default:'free'"`
	SystemPrompt      string `gorm:"type:text"`
	MonthlyTokensUsed int64  `gorm:"not null;default:0"`
	DailyTicketCount  int    `gorm:"not null;default:0"`
	LastDailyReset    *int64
	LastMonthlyReset  *int64
	CreatedAt         int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt         int64 `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (GuildModel) TableName() string {
	return "guilds"
}
