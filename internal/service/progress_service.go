package service

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// ProgressService 阅读进度更新
type ProgressService struct {
	Progress *repository.ProgressRepository
	Books    *repository.BookRepository
}

func NewProgressService(progress *repository.ProgressRepository, books *repository.BookRepository) *ProgressService {
	return &ProgressService{Progress: progress, Books: books}
}

// Update 按 (用户, 图书) upsert 进度状态
func (s *ProgressService) Update(userID uint, bookID string, status model.ProgressStatus) (*model.UserProgress, error) {
	if !status.IsValid() {
		return nil, util.ErrInvalidStatus
	}
	if _, err := s.Books.FindByID(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBookNotFound
		}
		return nil, err
	}

	p := &model.UserProgress{
		UserID: userID,
		BookID: bookID,
		Status: status,
	}
	if err := s.Progress.Upsert(p); err != nil {
		return nil, err
	}
	return p, nil
}
