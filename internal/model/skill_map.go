package model

import "time"

// SkillMapEntry 图书间的先后关系边，(from,to) 为自然键
// swagger:model SkillMapEntry
type SkillMapEntry struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	FromBookID      string          `gorm:"size:64;not null;uniqueIndex:idx_skill_map_pair;column:from_book_id" json:"from_book_id"`
	ToBookID        string          `gorm:"size:64;not null;uniqueIndex:idx_skill_map_pair;column:to_book_id" json:"to_book_id"`
	DifficultyLevel DifficultyLevel `gorm:"size:20;column:difficulty_level" json:"difficulty_level"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (SkillMapEntry) TableName() string {
	return "skill_map"
}
