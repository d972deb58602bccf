package model

import "time"

// ProgressStatus 阅读进度状态
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

func (s ProgressStatus) IsValid() bool {
	switch s {
	case ProgressNotStarted, ProgressInProgress, ProgressCompleted:
		return true
	}
	return false
}

// UserProgress 每个 (用户, 图书) 至多一行，冲突时更新
// swagger:model UserProgress
type UserProgress struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_user_book" json:"user_id"`
	BookID    string         `gorm:"size:64;not null;uniqueIndex:idx_user_book;column:book_id" json:"book_id"`
	Status    ProgressStatus `gorm:"size:20;default:'not_started'" json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
