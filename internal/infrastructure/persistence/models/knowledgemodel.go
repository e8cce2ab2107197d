package models

type KnowledgeModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	GuildID   uint64 `gorm:"not null;index"`
	Title     string `gorm:"size:500;not null"`
	Content   string `gorm:"type:text;not null"`
	Embedding string `gorm:"type:json"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (KnowledgeModel) TableName() string {
	return "knowledge_entries"
}
