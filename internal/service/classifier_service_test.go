package service

import (
	"bookgraph_backend/internal/config"
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/util"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubClassifier 用假的 chat-completions 服务构造分类器
func newStubClassifier(t *testing.T, handler http.HandlerFunc) *ClassifierService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ai := NewAIService(config.AIConfig{BaseURL: srv.URL, Model: "test-model", APIKey: "test"})
	return NewClassifierService(ai)
}

func chatReply(content string) []byte {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return data
}

// validPayload 构造满足连通性规则的 5 本书分类结果
func validPayload(ids [5]string) string {
	analyses := []model.BookAnalysis{
		{ID: ids[0], Difficulty: model.LevelBeginner, Prerequisites: []string{}, NextBooks: []string{ids[2], ids[3]}},
		{ID: ids[1], Difficulty: model.LevelBeginner, Prerequisites: []string{}, NextBooks: []string{ids[2], ids[3]}},
		{ID: ids[2], Difficulty: model.LevelIntermediate, Prerequisites: []string{ids[0]}, NextBooks: []string{ids[4], ids[3]}},
		{ID: ids[3], Difficulty: model.LevelIntermediate, Prerequisites: []string{ids[1]}, NextBooks: []string{ids[4], ids[2]}},
		{ID: ids[4], Difficulty: model.LevelAdvanced, Prerequisites: []string{ids[2]}, NextBooks: []string{}},
	}
	data, _ := json.Marshal(analysisPayload{Books: analyses})
	return string(data)
}

func candidates(ids ...string) []model.CandidateBook {
	books := make([]model.CandidateBook, len(ids))
	for i, id := range ids {
		books[i] = model.CandidateBook{ID: id, Title: "Book " + id}
	}
	return books
}

func TestClassifyEmptyInput(t *testing.T) {
	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("AI should not be called for empty input")
	})

	outcome, err := classifier.Classify(context.Background(), "Rust", nil)
	require.NoError(t, err)
	assert.Equal(t, AnalysisValidated, outcome.State)
	assert.Equal(t, 0, outcome.Attempts)
}

func TestClassifySucceedsOnThirdAttempt(t *testing.T) {
	ids := [5]string{"b1", "b2", "b3", "b4", "b5"}
	// 前两次返回违反连通性规则的结果，第三次返回合法结果
	badPayload, _ := json.Marshal(analysisPayload{Books: []model.BookAnalysis{
		{ID: "b1", Difficulty: model.LevelBeginner, NextBooks: []string{"b3"}},
		{ID: "b2", Difficulty: model.LevelBeginner, NextBooks: []string{"b3"}},
		{ID: "b3", Difficulty: model.LevelIntermediate, NextBooks: []string{"b5"}},
		{ID: "b4", Difficulty: model.LevelIntermediate, NextBooks: []string{"b5"}},
		{ID: "b5", Difficulty: model.LevelAdvanced},
	}})

	calls := 0
	var temperatures []float64
	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		temperatures = append(temperatures, req.Temperature)

		if calls < 3 {
			w.Write(chatReply(string(badPayload)))
			return
		}
		w.Write(chatReply(validPayload(ids)))
	})

	outcome, err := classifier.Classify(context.Background(), "Rust", candidates(ids[0], ids[1], ids[2], ids[3], ids[4]))
	require.NoError(t, err)
	assert.Equal(t, AnalysisValidated, outcome.State)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Len(t, outcome.Analyses, 5)

	// 温度逐次递增
	assert.Equal(t, []float64{0, 0.3, 0.6}, temperatures)
}

func TestClassifyExhaustsRetryBudget(t *testing.T) {
	badPayload, _ := json.Marshal(analysisPayload{Books: []model.BookAnalysis{
		{ID: "b1", Difficulty: model.LevelBeginner, NextBooks: []string{"b2"}},
		{ID: "b2", Difficulty: model.LevelAdvanced},
	}})

	calls := 0
	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write(chatReply(string(badPayload)))
	})

	outcome, err := classifier.Classify(context.Background(), "Rust", candidates("b1", "b2"))
	require.NoError(t, err)
	assert.Equal(t, AnalysisExhausted, outcome.State)
	assert.Equal(t, 3, outcome.Attempts)
	assert.NotEmpty(t, outcome.Violations)
	assert.Equal(t, 3, calls)
}

func TestClassifyUpstreamUnavailable(t *testing.T) {
	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := classifier.Classify(context.Background(), "Rust", candidates("b1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrAIUnavailable)
}

func TestClassifyUnparseableOutput(t *testing.T) {
	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply("I could not complete the task, sorry."))
	})

	_, err := classifier.Classify(context.Background(), "Rust", candidates("b1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrMalformedAIResponse)
}

// 模型缺了一本书时视为违规，而不是静默接受
func TestClassifyIncompleteAnalysisIsViolation(t *testing.T) {
	partial, _ := json.Marshal(analysisPayload{Books: []model.BookAnalysis{
		{ID: "b1", Difficulty: model.LevelBeginner, NextBooks: []string{"b2", "b2"}},
		{ID: "b2", Difficulty: model.LevelAdvanced, Prerequisites: []string{"b1"}},
	}})

	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(string(partial)))
	})

	outcome, err := classifier.Classify(context.Background(), "Rust", candidates("b1", "b2", "b3"))
	require.NoError(t, err)
	assert.Equal(t, AnalysisExhausted, outcome.State)

	found := false
	for _, v := range outcome.Violations {
		if v.BookID == "b3" && v.Message == "missing from analysis" {
			found = true
		}
	}
	assert.True(t, found, "expected a missing-from-analysis violation for b3")
}

func TestClassifyBatchedSkipsFailedBatch(t *testing.T) {
	batch2 := [5]string{"b6", "b7", "b8", "b9", "b10"}

	calls := 0
	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		// 第一批的三次尝试全部失败，第二批一次通过
		if calls <= 3 {
			w.Write(chatReply(`{"books": [{"id": "b1", "difficulty": "intermediate", "prerequisites": [], "nextBooks": []}]}`))
			return
		}
		w.Write(chatReply(validPayload(batch2)))
	})

	books := candidates("b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8", "b9", "b10")
	result, err := classifier.ClassifyBatched(context.Background(), "Rust", books, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Analyses, 5)
	assert.Equal(t, "b6", result.Analyses[0].ID)
}

func TestClassifyBatchedExcludesAlreadyAnalyzed(t *testing.T) {
	ids := [5]string{"b3", "b4", "b5", "b6", "b7"}

	classifier := newStubClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt := req.Messages[len(req.Messages)-1].Content
		assert.NotContains(t, prompt, `"b1"`)
		assert.NotContains(t, prompt, `"b2"`)
		w.Write(chatReply(validPayload(ids)))
	})

	books := candidates("b1", "b2", "b3", "b4", "b5", "b6", "b7")
	analyzed := map[string]bool{"b1": true, "b2": true}
	result, err := classifier.ClassifyBatched(context.Background(), "Rust", books, analyzed)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Skipped)
	assert.Len(t, result.Analyses, 5)
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			in:   `{"books": []}`,
			want: `{"books": []}`,
			ok:   true,
		},
		{
			name: "markdown fence with prose",
			in:   "Here you go:\n```json\n{\"books\": [{\"id\": \"a\"}]}\n```\nHope this helps!",
			want: `{"books": [{"id": "a"}]}`,
			ok:   true,
		},
		{
			name: "smart quotes normalized",
			in:   `{“books”: [{“id”: “a”}]}`,
			want: `{"books": [{"id": "a"}]}`,
			ok:   true,
		},
		{
			name: "braces inside strings",
			in:   `result: {"books": [{"id": "a{b}c", "difficulty": "beginner"}]}`,
			want: `{"books": [{"id": "a{b}c", "difficulty": "beginner"}]}`,
			ok:   true,
		},
		{
			name: "no object",
			in:   "sorry, no data",
			ok:   false,
		},
		{
			name: "unbalanced",
			in:   `{"books": [`,
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSONObject(tc.in)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAnalysisRejectsEmptyBookList(t *testing.T) {
	_, err := parseAnalysis(`{"books": []}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrMalformedAIResponse)
}

func TestBuildClassifyPromptContainsRulesAndBooks(t *testing.T) {
	prompt, err := buildClassifyPrompt("Rust", candidates("b1", "b2"))
	require.NoError(t, err)

	assert.Contains(t, prompt, "Rust programming books")
	assert.Contains(t, prompt, "at least 2 nextBooks")
	assert.Contains(t, prompt, fmt.Sprintf("%q", "b1"))
	assert.Contains(t, prompt, `{"books": [{"id": "...", "difficulty": "...", "prerequisites": [], "nextBooks": []}]}`)
}
