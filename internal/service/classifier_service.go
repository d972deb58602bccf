package service

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/util"
	"bookgraph_backend/pkg/logger"
	"bookgraph_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// 分类重试预算
	maxClassifyAttempts = 3
	// 每次重试提升采样温度，促使模型产出不同的结果
	temperatureStep = 0.3
	// 批处理模式下每批图书数量
	classifyBatchSize = 5
)

// AnalysisState 一次分类请求的终态
type AnalysisState string

const (
	AnalysisValidated AnalysisState = "validated"
	AnalysisExhausted AnalysisState = "exhausted"
)

// AnalysisOutcome 分类重试循环的结果。
// Validated 时 Analyses 有值；Exhausted 时 Violations 汇总所有尝试的违规。
type AnalysisOutcome struct {
	State      AnalysisState        `json:"state"`
	Analyses   []model.BookAnalysis `json:"analyses,omitempty"`
	Attempts   int                  `json:"attempts"`
	Violations []model.Violation    `json:"violations,omitempty"`
}

// ClassifierService 调用大模型把图书集合分类为难度递进的学习路径
type ClassifierService struct {
	AI *AIService
}

func NewClassifierService(ai *AIService) *ClassifierService {
	return &ClassifierService{AI: ai}
}

type analysisPayload struct {
	Books []model.BookAnalysis `json:"books"`
}

// Classify 有界重试循环：每次尝试递增温度，网络/解析失败记为失败尝试，
// 第一次通过校验即提前返回。校验始终未通过时返回 Exhausted 结果，
// 所有尝试都没产出可校验结果时返回错误（上游不可用或响应不可解析）。
func (s *ClassifierService) Classify(ctx context.Context, topic string, books []model.CandidateBook) (*AnalysisOutcome, error) {
	if len(books) == 0 {
		return &AnalysisOutcome{State: AnalysisValidated, Attempts: 0}, nil
	}

	start := time.Now()
	defer func() {
		monitoring.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	prompt, err := buildClassifyPrompt(topic, books)
	if err != nil {
		return nil, err
	}

	var allViolations []model.Violation
	var lastErr error

	for attempt := 1; attempt <= maxClassifyAttempts; attempt++ {
		temperature := float64(attempt-1) * temperatureStep

		raw, err := s.AI.ChatWithTemperature(ctx, prompt, classifySystemPrompt, temperature)
		if err != nil {
			lastErr = err
			monitoring.AnalysisAttempts.WithLabelValues("upstream_error").Inc()
			logger.Log.Warn("Classification attempt failed",
				zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		analyses, err := parseAnalysis(raw)
		if err != nil {
			lastErr = err
			monitoring.AnalysisAttempts.WithLabelValues("parse_error").Inc()
			logger.Log.Warn("Classification attempt returned unparseable output",
				zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		violations := append(checkCompleteness(books, analyses), ValidateClassification(analyses)...)
		if len(violations) == 0 {
			monitoring.AnalysisAttempts.WithLabelValues("validated").Inc()
			return &AnalysisOutcome{
				State:    AnalysisValidated,
				Analyses: analyses,
				Attempts: attempt,
			}, nil
		}

		monitoring.AnalysisAttempts.WithLabelValues("violations").Inc()
		logger.Log.Info("Classification attempt failed validation",
			zap.Int("attempt", attempt), zap.Int("violations", len(violations)))
		allViolations = append(allViolations, violations...)
	}

	if len(allViolations) > 0 {
		return &AnalysisOutcome{
			State:      AnalysisExhausted,
			Attempts:   maxClassifyAttempts,
			Violations: allViolations,
		}, nil
	}

	// 没有任何一次尝试产出可校验的结果
	if errors.Is(lastErr, util.ErrAIUnavailable) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %v", util.ErrMalformedAIResponse, lastErr)
}

// BatchResult 批处理模式的汇总结果
type BatchResult struct {
	Analyses []model.BookAnalysis
	Skipped  int // 被跳过的批次数（解析失败或重试耗尽）
}

// ClassifyBatched 大图书集合的顺序批处理。单批失败只跳过该批（其图书保持未分类），
// 不中断整个请求；已分类的图书在进入批处理前被排除。
func (s *ClassifierService) ClassifyBatched(ctx context.Context, topic string, books []model.CandidateBook, analyzed map[string]bool) (*BatchResult, error) {
	pending := make([]model.CandidateBook, 0, len(books))
	for _, b := range books {
		if !analyzed[b.ID] {
			pending = append(pending, b)
		}
	}

	result := &BatchResult{}
	for _, batch := range util.Chunk(pending, classifyBatchSize) {
		outcome, err := s.Classify(ctx, topic, batch)
		if err != nil {
			result.Skipped++
			logger.Log.Warn("Skipping classification batch",
				zap.Int("batchSize", len(batch)), zap.Error(err))
			continue
		}
		if outcome.State != AnalysisValidated {
			result.Skipped++
			logger.Log.Warn("Skipping batch that failed validation",
				zap.Int("batchSize", len(batch)), zap.Int("violations", len(outcome.Violations)))
			continue
		}
		result.Analyses = append(result.Analyses, outcome.Analyses...)
	}

	return result, nil
}

const classifySystemPrompt = "You are a programming education curator. " +
	"You organize books into learning paths and always answer with a single JSON object, no prose."

func buildClassifyPrompt(topic string, books []model.CandidateBook) (string, error) {
	bookJSON, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze these %s programming books and categorize them into a learning path.\n\n", topic)
	sb.WriteString("For each book provide:\n")
	sb.WriteString("1. difficulty: one of \"beginner\", \"intermediate\", \"advanced\"\n")
	sb.WriteString("2. prerequisites: IDs of books that should be read before it\n")
	sb.WriteString("3. nextBooks: IDs of recommended follow-up books\n\n")
	sb.WriteString("Structural rules (mandatory):\n")
	sb.WriteString("- every beginner book must list at least 2 nextBooks\n")
	sb.WriteString("- every intermediate book must be listed in at least 2 other books' nextBooks and list at least 2 nextBooks itself\n")
	sb.WriteString("- every advanced book must be listed in at least 2 other books' nextBooks\n")
	sb.WriteString("- nextBooks must only point from beginner to intermediate or from intermediate to advanced\n\n")
	sb.WriteString("Books to analyze:\n")
	sb.Write(bookJSON)
	sb.WriteString("\n\nRespond with exactly this JSON shape and nothing else:\n")
	sb.WriteString(`{"books": [{"id": "...", "difficulty": "...", "prerequisites": [], "nextBooks": []}]}`)

	return sb.String(), nil
}

// parseAnalysis 从模型输出中提取第一个配平的 JSON 对象并解析。
// 容忍围绕 JSON 的说明文字和 markdown 代码块，并把「智能引号」还原为普通引号。
func parseAnalysis(raw string) ([]model.BookAnalysis, error) {
	objText, err := extractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMalformedAIResponse, err)
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(objText), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMalformedAIResponse, err)
	}
	if len(payload.Books) == 0 {
		return nil, fmt.Errorf("%w: analysis contains no books", util.ErrMalformedAIResponse)
	}

	return payload.Books, nil
}

var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // “
	"”", `"`, // ”
	"‘", `'`, // ‘
	"’", `'`, // ’
)

// extractJSONObject 返回输入中第一个配平的 {...} 子串
func extractJSONObject(raw string) (string, error) {
	s := smartQuoteReplacer.Replace(raw)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errors.New("no JSON object found in output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", errors.New("unbalanced JSON object in output")
}

// checkCompleteness 每个输入图书都必须出现在分类结果里
func checkCompleteness(books []model.CandidateBook, analyses []model.BookAnalysis) []model.Violation {
	seen := make(map[string]bool, len(analyses))
	for _, a := range analyses {
		seen[a.ID] = true
	}

	var violations []model.Violation
	for _, b := range books {
		if !seen[b.ID] {
			violations = append(violations, model.Violation{
				BookID:  b.ID,
				Message: "missing from analysis",
			})
		}
	}
	return violations
}
