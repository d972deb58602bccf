package repository

import (
	"bookgraph_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 每个 (用户, 图书) 至多一行，冲突时只更新状态
func (r *ProgressRepository) Upsert(p *model.UserProgress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(p).Error
}

// StatusMap 返回用户在给定图书集合上的进度映射，无记录的图书不在结果里
func (r *ProgressRepository) StatusMap(userID uint, bookIDs []string) (map[string]model.ProgressStatus, error) {
	var rows []model.UserProgress
	err := r.DB.Where("user_id = ? AND book_id IN ?", userID, bookIDs).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]model.ProgressStatus, len(rows))
	for _, row := range rows {
		statuses[row.BookID] = row.Status
	}
	return statuses, nil
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}
