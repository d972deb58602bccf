package repository

import (
	"bookgraph_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestGraphLayoutSaveOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewGraphLayoutRepository(db)

	require.NoError(t, repo.Save(1, "t1", datatypes.JSON(`{"visibleCount": 5}`)))
	require.NoError(t, repo.Save(1, "t1", datatypes.JSON(`{"visibleCount": 8}`)))

	var count int64
	require.NoError(t, db.Model(&model.UserGraph{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.Find(1, "t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"visibleCount": 8}`, string(got.GraphLayout))
	assert.False(t, got.LastUpdated.IsZero())
}

func TestGraphLayoutIsScopedPerUserAndTopic(t *testing.T) {
	db := newTestDB(t)
	repo := NewGraphLayoutRepository(db)

	require.NoError(t, repo.Save(1, "t1", datatypes.JSON(`{"visibleCount": 5}`)))
	require.NoError(t, repo.Save(2, "t1", datatypes.JSON(`{"visibleCount": 3}`)))
	require.NoError(t, repo.Save(1, "t2", datatypes.JSON(`{"visibleCount": 7}`)))

	var count int64
	require.NoError(t, db.Model(&model.UserGraph{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	_, err := repo.Find(2, "t2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTopicEnrollUpdatesSkillLevel(t *testing.T) {
	db := newTestDB(t)
	repo := NewTopicRepository(db)

	first := &model.UserTopic{UserID: 1, TopicID: "t1", SkillLevel: model.LevelBeginner, Status: model.TopicInProgress}
	require.NoError(t, repo.Enroll(first))
	require.NoError(t, repo.Enroll(&model.UserTopic{
		UserID: 1, TopicID: "t1", SkillLevel: model.LevelAdvanced, Status: model.TopicInProgress,
	}))

	var count int64
	require.NoError(t, db.Model(&model.UserTopic{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.FindUserTopic(1, "t1")
	require.NoError(t, err)
	assert.Equal(t, model.LevelAdvanced, got.SkillLevel)
}

func TestProgressUpsertPerUserAndBook(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	require.NoError(t, repo.Upsert(&model.UserProgress{UserID: 1, BookID: "g1", Status: model.ProgressInProgress}))
	require.NoError(t, repo.Upsert(&model.UserProgress{UserID: 1, BookID: "g1", Status: model.ProgressCompleted}))
	require.NoError(t, repo.Upsert(&model.UserProgress{UserID: 2, BookID: "g1", Status: model.ProgressInProgress}))

	var count int64
	require.NoError(t, db.Model(&model.UserProgress{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	statuses, err := repo.StatusMap(1, []string{"g1", "g2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]model.ProgressStatus{"g1": model.ProgressCompleted}, statuses)
}
