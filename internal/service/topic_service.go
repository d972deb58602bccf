package service

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// TopicService 主题列表与选题
type TopicService struct {
	Topics *repository.TopicRepository
}

func NewTopicService(topics *repository.TopicRepository) *TopicService {
	return &TopicService{Topics: topics}
}

func (s *TopicService) List() ([]model.Topic, error) {
	return s.Topics.List()
}

// Enroll 用户选题并自报技能等级，重复选题覆盖等级
func (s *TopicService) Enroll(userID uint, topicID string, skillLevel model.DifficultyLevel) (*model.UserTopic, error) {
	if !skillLevel.IsValid() {
		return nil, util.ErrInvalidSkillLevel
	}
	if _, err := s.Topics.FindByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	ut := &model.UserTopic{
		UserID:     userID,
		TopicID:    topicID,
		SkillLevel: skillLevel,
		Status:     model.TopicInProgress,
	}
	if err := s.Topics.Enroll(ut); err != nil {
		return nil, err
	}
	return ut, nil
}
