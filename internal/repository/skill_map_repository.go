package repository

import (
	"bookgraph_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillMapRepository struct {
	DB *gorm.DB
}

func NewSkillMapRepository(db *gorm.DB) *SkillMapRepository {
	return &SkillMapRepository{DB: db}
}

// Upsert (from,to) 为自然键，同一条边重复写入不产生重复行
func (r *SkillMapRepository) Upsert(entry *model.SkillMapEntry) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_book_id"}, {Name: "to_book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"difficulty_level", "updated_at"}),
	}).Create(entry).Error
}

// FindWithinBooks 返回两端都落在给定图书集合内的边
func (r *SkillMapRepository) FindWithinBooks(bookIDs []string) ([]model.SkillMapEntry, error) {
	var entries []model.SkillMapEntry
	err := r.DB.Where("from_book_id IN ? AND to_book_id IN ?", bookIDs, bookIDs).Find(&entries).Error
	return entries, err
}
