package service

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/util"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newBookService(t *testing.T, handler http.HandlerFunc) (*BookService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Topic{}, &model.Book{}, &model.SkillMapEntry{},
	))
	require.NoError(t, db.Create(&model.Topic{
		UUIDBase: model.UUIDBase{ID: testTopicID},
		Title:    "Rust",
	}).Error)

	classifier := newStubClassifier(t, handler)
	svc := NewBookService(
		nil,
		classifier,
		repository.NewBookRepository(db),
		repository.NewSkillMapRepository(db),
		repository.NewTopicRepository(db),
	)
	return svc, db
}

func TestAnalyzePersistsBooksAndConnections(t *testing.T) {
	ids := [5]string{"b1", "b2", "b3", "b4", "b5"}
	svc, db := newBookService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(validPayload(ids)))
	})

	report, err := svc.Analyze(context.Background(), testTopicID, candidates(ids[0], ids[1], ids[2], ids[3], ids[4]))
	require.NoError(t, err)
	assert.Equal(t, AnalysisValidated, report.Outcome.State)
	assert.Equal(t, 5, report.Saved)
	assert.Equal(t, 0, report.Reused)

	var books []model.Book
	require.NoError(t, db.Order("google_books_id").Find(&books).Error)
	require.Len(t, books, 5)
	for _, b := range books {
		assert.True(t, b.Analyzed)
		assert.NotNil(t, b.LastAnalyzed)
		assert.Equal(t, testTopicID, b.TopicID)
	}
	assert.Equal(t, model.LevelBeginner, books[0].Level)
	assert.Equal(t, model.LevelAdvanced, books[4].Level)

	// 先修关系去重后入库（prerequisites 与 nextBooks 的镜像边只存一条）
	var edgeCount int64
	require.NoError(t, db.Model(&model.SkillMapEntry{}).Count(&edgeCount).Error)
	assert.Equal(t, int64(8), edgeCount)
}

func TestAnalyzeReusesExistingAnalysis(t *testing.T) {
	svc, db := newBookService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("AI should not be called when everything is already analyzed")
	})

	for _, id := range []string{"b1", "b2"} {
		require.NoError(t, db.Create(&model.Book{
			GoogleBooksID: id, TopicID: testTopicID,
			Title: "Book " + id, Level: model.LevelBeginner, Analyzed: true,
		}).Error)
	}

	report, err := svc.Analyze(context.Background(), testTopicID, candidates("b1", "b2"))
	require.NoError(t, err)
	assert.Equal(t, AnalysisValidated, report.Outcome.State)
	assert.Equal(t, 2, report.Reused)
	assert.Equal(t, 0, report.Saved)
}

func TestAnalyzeExhaustedPersistsNothing(t *testing.T) {
	bad, _ := json.Marshal(analysisPayload{Books: []model.BookAnalysis{
		{ID: "b1", Difficulty: model.LevelBeginner, NextBooks: []string{"b2"}},
		{ID: "b2", Difficulty: model.LevelAdvanced},
	}})
	svc, db := newBookService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(string(bad)))
	})

	report, err := svc.Analyze(context.Background(), testTopicID, candidates("b1", "b2"))
	require.NoError(t, err)
	assert.Equal(t, AnalysisExhausted, report.Outcome.State)
	assert.Equal(t, 3, report.Outcome.Attempts)
	assert.NotEmpty(t, report.Outcome.Violations)

	var bookCount int64
	require.NoError(t, db.Model(&model.Book{}).Count(&bookCount).Error)
	assert.Zero(t, bookCount)
}

func TestAnalyzeUnknownTopic(t *testing.T) {
	svc, _ := newBookService(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := svc.Analyze(context.Background(), "missing", candidates("b1"))
	assert.ErrorIs(t, err, util.ErrTopicNotFound)
}

func TestStatusCountsAnalyzedBooks(t *testing.T) {
	svc, db := newBookService(t, func(w http.ResponseWriter, r *http.Request) {})

	books := []model.Book{
		{GoogleBooksID: "b1", TopicID: testTopicID, Title: "A", Analyzed: true},
		{GoogleBooksID: "b2", TopicID: testTopicID, Title: "B", Analyzed: true},
		{GoogleBooksID: "b3", TopicID: testTopicID, Title: "C", Analyzed: false},
	}
	for i := range books {
		require.NoError(t, db.Create(&books[i]).Error)
	}

	status, err := svc.Status(testTopicID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.Analyzed)
	assert.Equal(t, int64(3), status.Total)

	_, err = svc.Status("missing")
	assert.ErrorIs(t, err, util.ErrTopicNotFound)
}
