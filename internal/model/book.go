package model

import (
	"time"

	"gorm.io/gorm"
)

// DifficultyLevel 图书难度等级
type DifficultyLevel string

const (
	LevelBeginner     DifficultyLevel = "beginner"
	LevelIntermediate DifficultyLevel = "intermediate"
	LevelAdvanced     DifficultyLevel = "advanced"
)

// IsValid 是否为合法难度值
func (l DifficultyLevel) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// NextLevel 学习路径中的下一级，advanced 没有下一级
func (l DifficultyLevel) NextLevel() (DifficultyLevel, bool) {
	switch l {
	case LevelBeginner:
		return LevelIntermediate, true
	case LevelIntermediate:
		return LevelAdvanced, true
	}
	return "", false
}

// IsValidProgression 边是否恰好前进一级（beginner→intermediate 或 intermediate→advanced）
func IsValidProgression(from, to DifficultyLevel) bool {
	next, ok := from.NextLevel()
	return ok && next == to
}

// Book 已分类的图书，主键为 Google Books 卷 ID
// swagger:model Book
type Book struct {
	GoogleBooksID string          `gorm:"primaryKey;size:64;column:google_books_id" json:"google_books_id"`
	TopicID       string          `gorm:"size:36;index;not null" json:"topic_id"`
	Level         DifficultyLevel `gorm:"size:20" json:"level"`
	Title         string          `gorm:"size:255;not null" json:"title"`
	Author        string          `gorm:"size:255" json:"author"`
	Description   string          `gorm:"type:text" json:"description"`
	Thumbnail     string          `gorm:"size:512" json:"thumbnail,omitempty"`
	PageCount     int             `gorm:"default:0" json:"pageCount,omitempty"`
	Analyzed      bool            `gorm:"default:false;index" json:"analyzed"`
	LastAnalyzed  *time.Time      `json:"last_analyzed,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}
