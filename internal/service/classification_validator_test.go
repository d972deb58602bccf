package service

import (
	"bookgraph_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func violationsFor(violations []model.Violation, bookID string) []string {
	var messages []string
	for _, v := range violations {
		if v.BookID == bookID {
			messages = append(messages, v.Message)
		}
	}
	return messages
}

func TestValidateClassificationValidGraph(t *testing.T) {
	analyses := []model.BookAnalysis{
		{ID: "a", Difficulty: model.LevelBeginner, NextBooks: []string{"c", "d"}},
		{ID: "b", Difficulty: model.LevelBeginner, NextBooks: []string{"c", "d"}},
		{ID: "c", Difficulty: model.LevelIntermediate, NextBooks: []string{"e", "f"}},
		{ID: "d", Difficulty: model.LevelIntermediate, NextBooks: []string{"e", "f"}},
		{ID: "e", Difficulty: model.LevelAdvanced},
		{ID: "f", Difficulty: model.LevelAdvanced},
	}

	assert.Empty(t, ValidateClassification(analyses))
}

func TestValidateClassificationBeginnerNeedsTwoOutgoing(t *testing.T) {
	analyses := []model.BookAnalysis{
		{ID: "a", Difficulty: model.LevelBeginner, NextBooks: []string{"c"}},
		{ID: "b", Difficulty: model.LevelBeginner, NextBooks: []string{"c", "d"}},
		{ID: "c", Difficulty: model.LevelIntermediate, NextBooks: []string{"d", "a"}},
		{ID: "d", Difficulty: model.LevelAdvanced},
	}

	violations := ValidateClassification(analyses)
	require.NotEmpty(t, violations)
	assert.Contains(t, violationsFor(violations, "a"),
		"beginner book needs at least 2 outgoing connections, has 1")
	assert.Empty(t, violationsFor(violations, "b"))
}

func TestValidateClassificationIntermediateNeedsBothDirections(t *testing.T) {
	analyses := []model.BookAnalysis{
		{ID: "a", Difficulty: model.LevelBeginner, NextBooks: []string{"c", "d"}},
		{ID: "c", Difficulty: model.LevelIntermediate, NextBooks: []string{"d"}},
		{ID: "d", Difficulty: model.LevelAdvanced},
	}

	violations := ValidateClassification(analyses)
	messages := violationsFor(violations, "c")
	assert.Contains(t, messages, "intermediate book needs at least 2 incoming connections, has 1")
	assert.Contains(t, messages, "intermediate book needs at least 2 outgoing connections, has 1")
}

func TestValidateClassificationIsolatedNodes(t *testing.T) {
	analyses := []model.BookAnalysis{
		{ID: "a", Difficulty: model.LevelBeginner, NextBooks: []string{"b", "b"}},
		{ID: "b", Difficulty: model.LevelIntermediate, NextBooks: []string{"a", "a"}},
		{ID: "x", Difficulty: model.LevelAdvanced},
	}

	violations := ValidateClassification(analyses)
	messages := violationsFor(violations, "x")
	assert.Contains(t, messages, "advanced book needs at least 2 incoming connections, has 0")
	assert.Contains(t, messages, "no incoming connections")
}

func TestValidateClassificationInvalidDifficulty(t *testing.T) {
	analyses := []model.BookAnalysis{
		{ID: "a", Difficulty: "expert", NextBooks: []string{"b", "c"}},
	}

	violations := ValidateClassification(analyses)
	require.Len(t, violations, 1)
	assert.Equal(t, `invalid difficulty "expert"`, violations[0].Message)
}

// 连通性校验不关心边的难度方向，跨级的边在图构建阶段才被过滤
func TestValidateClassificationAcceptsLevelSkippingEdges(t *testing.T) {
	analyses := []model.BookAnalysis{
		{ID: "a", Difficulty: model.LevelBeginner, NextBooks: []string{"e", "f"}},
		{ID: "b", Difficulty: model.LevelBeginner, NextBooks: []string{"e", "f"}},
		{ID: "e", Difficulty: model.LevelAdvanced},
		{ID: "f", Difficulty: model.LevelAdvanced},
	}

	assert.Empty(t, ValidateClassification(analyses))
}
