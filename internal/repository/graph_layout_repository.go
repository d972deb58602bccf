package repository

import (
	"bookgraph_backend/internal/model"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GraphLayoutRepository struct {
	DB *gorm.DB
}

func NewGraphLayoutRepository(db *gorm.DB) *GraphLayoutRepository {
	return &GraphLayoutRepository{DB: db}
}

// Save 以 (user_id, topic_id) 为键整体覆盖写入，不做部分合并
func (r *GraphLayoutRepository) Save(userID uint, topicID string, layout datatypes.JSON) error {
	row := &model.UserGraph{
		UserID:      userID,
		TopicID:     topicID,
		GraphLayout: layout,
		LastUpdated: time.Now(),
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"graph_layout", "last_updated"}),
	}).Create(row).Error
}

func (r *GraphLayoutRepository) Find(userID uint, topicID string) (*model.UserGraph, error) {
	var g model.UserGraph
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&g).Error
	return &g, err
}

func (r *GraphLayoutRepository) Delete(userID uint, topicID string) error {
	return r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).Delete(&model.UserGraph{}).Error
}
