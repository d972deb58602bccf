package model

import "time"

// Topic 可学习的主题，只读参考数据
// swagger:model Topic
type Topic struct {
	UUIDBase
	Title       string `gorm:"size:100;not null" json:"title"`
	Icon        string `gorm:"size:16" json:"icon"`
	Description string `gorm:"size:500" json:"description"`
}

func (Topic) TableName() string {
	return "topics"
}

// UserTopicStatus 用户主题学习状态
type UserTopicStatus string

const (
	TopicInProgress UserTopicStatus = "in_progress"
	TopicCompleted  UserTopicStatus = "completed"
	TopicAbandoned  UserTopicStatus = "abandoned"
)

// UserTopic 用户选题记录，携带自报技能等级，驱动初始可见集合的配额
// swagger:model UserTopic
type UserTopic struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint            `gorm:"not null;uniqueIndex:idx_user_topic" json:"user_id"`
	TopicID    string          `gorm:"size:36;not null;uniqueIndex:idx_user_topic" json:"topic_id"`
	SkillLevel DifficultyLevel `gorm:"size:20;column:skill_level" json:"skill_level"`
	Status     UserTopicStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (UserTopic) TableName() string {
	return "user_topics"
}
