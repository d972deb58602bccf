package repository

import (
	"bookgraph_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository struct {
	DB *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{DB: db}
}

// Upsert 以 google_books_id 为键写入，重复应用同一分类结果是幂等的
func (r *BookRepository) Upsert(book *model.Book) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "google_books_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"topic_id", "level", "title", "author", "description",
			"thumbnail", "page_count", "analyzed", "last_analyzed", "updated_at",
		}),
	}).Create(book).Error
}

func (r *BookRepository) FindByID(googleBooksID string) (*model.Book, error) {
	var b model.Book
	err := r.DB.Where("google_books_id = ?", googleBooksID).First(&b).Error
	return &b, err
}

// FindByTopic 按入库顺序返回主题下全部图书，图构建的配额选取依赖这个顺序
func (r *BookRepository) FindByTopic(topicID string) ([]model.Book, error) {
	var books []model.Book
	err := r.DB.Where("topic_id = ?", topicID).Order("created_at asc, google_books_id asc").Find(&books).Error
	return books, err
}

// FindAnalyzedIDs 返回已完成分类的图书 ID 集合，用于批处理前排除
func (r *BookRepository) FindAnalyzedIDs(topicID string, ids []string) (map[string]bool, error) {
	var found []string
	err := r.DB.Model(&model.Book{}).
		Where("topic_id = ? AND analyzed = ? AND google_books_id IN ?", topicID, true, ids).
		Pluck("google_books_id", &found).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(found))
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

// CountAnalyzed 返回 (已分类数, 总数)，轮询接口的数据源
func (r *BookRepository) CountAnalyzed(topicID string) (int64, int64, error) {
	var analyzed, total int64
	if err := r.DB.Model(&model.Book{}).Where("topic_id = ?", topicID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.DB.Model(&model.Book{}).Where("topic_id = ? AND analyzed = ?", topicID, true).Count(&analyzed).Error; err != nil {
		return 0, 0, err
	}
	return analyzed, total, nil
}
