package repository

import (
	"bookgraph_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) List() ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Order("title asc").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) FindByID(id string) (*model.Topic, error) {
	var t model.Topic
	err := r.DB.Where("id = ?", id).First(&t).Error
	return &t, err
}

// Enroll 选题记录以 (user_id, topic_id) 为键，重复选题更新技能等级
func (r *TopicRepository) Enroll(ut *model.UserTopic) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"skill_level", "status", "updated_at"}),
	}).Create(ut).Error
}

func (r *TopicRepository) FindUserTopic(userID uint, topicID string) (*model.UserTopic, error) {
	var ut model.UserTopic
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&ut).Error
	return &ut, err
}

func (r *TopicRepository) ListUserTopics(userID uint) ([]model.UserTopic, error) {
	var uts []model.UserTopic
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.TopicInProgress).
		Order("created_at desc").Find(&uts).Error
	return uts, err
}
