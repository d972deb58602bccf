package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserGraph 每个 (用户, 主题) 一份持久化的图布局，保存时整体覆盖
// swagger:model UserGraph
type UserGraph struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_user_graph" json:"user_id"`
	TopicID     string         `gorm:"size:36;not null;uniqueIndex:idx_user_graph" json:"topic_id"`
	GraphLayout datatypes.JSON `gorm:"column:graph_layout" json:"graph_layout"`
	LastUpdated time.Time      `gorm:"column:last_updated" json:"last_updated"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (UserGraph) TableName() string {
	return "user_graph"
}
