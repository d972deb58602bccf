package service

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/util"
	"bookgraph_backend/pkg/logger"
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookService 图书检索与分析结果落库的编排层
type BookService struct {
	Search     *BookSearchService
	Classifier *ClassifierService
	Books      *repository.BookRepository
	SkillMap   *repository.SkillMapRepository
	Topics     *repository.TopicRepository
}

func NewBookService(
	search *BookSearchService,
	classifier *ClassifierService,
	books *repository.BookRepository,
	skillMap *repository.SkillMapRepository,
	topics *repository.TopicRepository,
) *BookService {
	return &BookService{
		Search:     search,
		Classifier: classifier,
		Books:      books,
		SkillMap:   skillMap,
		Topics:     topics,
	}
}

// AnalysisReport 一次分析请求的结果汇总
type AnalysisReport struct {
	Outcome *AnalysisOutcome
	Saved   int // 本次新写入的图书数
	Reused  int // 已分析过、直接复用的图书数
	Edges   int // 成功写入的先修关系数
}

// AnalysisStatus 主题下已分析图书数与总数
type AnalysisStatus struct {
	Analyzed int64 `json:"analyzed"`
	Total    int64 `json:"total"`
}

// SearchBooks 按主题检索候选图书，结果走 Redis 缓存
func (s *BookService) SearchBooks(ctx context.Context, topic string) (*BookSearchResult, error) {
	return s.Search.Search(ctx, topic)
}

// Status 返回主题的分析进度
func (s *BookService) Status(topicID string) (*AnalysisStatus, error) {
	if _, err := s.Topics.FindByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	analyzed, total, err := s.Books.CountAnalyzed(topicID)
	if err != nil {
		return nil, err
	}
	return &AnalysisStatus{Analyzed: analyzed, Total: total}, nil
}

// Analyze 对候选图书做难度分类并落库。已分析过的图书直接复用不重新送审，
// 剩余图书整组送分类器走有界重试。通过校验后图书与先修关系分别写入，
// 单条关系写入失败只记日志不中断。
func (s *BookService) Analyze(ctx context.Context, topicID string, candidates []model.CandidateBook) (*AnalysisReport, error) {
	topic, err := s.Topics.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	analyzed, err := s.Books.FindAnalyzedIDs(topicID, ids)
	if err != nil {
		return nil, err
	}

	fresh := make([]model.CandidateBook, 0, len(candidates))
	for _, c := range candidates {
		if !analyzed[c.ID] {
			fresh = append(fresh, c)
		}
	}
	reused := len(candidates) - len(fresh)

	if len(fresh) == 0 {
		logger.Log.Info("All submitted books already analyzed",
			zap.String("topicID", topicID), zap.Int("reused", reused))
		return &AnalysisReport{
			Outcome: &AnalysisOutcome{State: AnalysisValidated},
			Reused:  reused,
		}, nil
	}

	outcome, err := s.Classifier.Classify(ctx, topic.Title, fresh)
	if err != nil {
		return nil, err
	}
	report := &AnalysisReport{Outcome: outcome, Reused: reused}
	if outcome.State != AnalysisValidated {
		return report, nil
	}

	saved, edges := s.persistAnalyses(topicID, fresh, outcome.Analyses)
	report.Saved = saved
	report.Edges = edges
	return report, nil
}

// AnalyzeTopic 重新检索主题下的候选图书并分批分析尚未处理的部分。
// 供脚本与离线补数使用，单个批次失败跳过不中断整体。
func (s *BookService) AnalyzeTopic(ctx context.Context, topicID string) (*AnalysisReport, error) {
	topic, err := s.Topics.FindByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	result, err := s.Search.Search(ctx, topic.Title)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(result.Items))
	for i, c := range result.Items {
		ids[i] = c.ID
	}
	analyzed, err := s.Books.FindAnalyzedIDs(topicID, ids)
	if err != nil {
		return nil, err
	}

	batch, err := s.Classifier.ClassifyBatched(ctx, topic.Title, result.Items, analyzed)
	if err != nil {
		return nil, err
	}

	saved, edges := s.persistAnalyses(topicID, result.Items, batch.Analyses)
	return &AnalysisReport{
		Outcome: &AnalysisOutcome{State: AnalysisValidated, Analyses: batch.Analyses},
		Saved:   saved,
		Reused:  len(analyzed),
		Edges:   edges,
	}, nil
}

// persistAnalyses 图书先于关系写入，保证关系两端已存在
func (s *BookService) persistAnalyses(topicID string, candidates []model.CandidateBook, analyses []model.BookAnalysis) (saved, edges int) {
	meta := make(map[string]model.CandidateBook, len(candidates))
	for _, c := range candidates {
		meta[c.ID] = c
	}
	levelOf := make(map[string]model.DifficultyLevel, len(analyses))
	for _, a := range analyses {
		levelOf[a.ID] = a.Difficulty
	}

	now := time.Now()
	for _, a := range analyses {
		c, ok := meta[a.ID]
		if !ok {
			continue
		}
		book := model.Book{
			GoogleBooksID: a.ID,
			TopicID:       topicID,
			Level:         a.Difficulty,
			Title:         c.Title,
			Author:        strings.Join(c.Authors, ", "),
			Description:   c.Description,
			Thumbnail:     c.Thumbnail,
			PageCount:     c.PageCount,
			Analyzed:      true,
			LastAnalyzed:  &now,
		}
		if err := s.Books.Upsert(&book); err != nil {
			logger.Log.Error("Failed to save analyzed book",
				zap.String("bookID", a.ID), zap.Error(err))
			continue
		}
		saved++
	}

	for _, a := range analyses {
		for _, prereq := range a.Prerequisites {
			edges += s.persistEdge(prereq, a.ID, levelOf)
		}
		for _, next := range a.NextBooks {
			edges += s.persistEdge(a.ID, next, levelOf)
		}
	}
	return saved, edges
}

// persistEdge 写入单条先修关系。层级不合法的连接照常入库，
// 图构建时会按前进一级的规则过滤掉，这里只留一条警告便于排查。
func (s *BookService) persistEdge(fromID, toID string, levelOf map[string]model.DifficultyLevel) int {
	toLevel, ok := levelOf[toID]
	if !ok {
		toLevel = levelOf[fromID]
	}
	if from, to := levelOf[fromID], levelOf[toID]; from != "" && to != "" && !model.IsValidProgression(from, to) {
		logger.Log.Warn("Persisting connection that skips or reverses difficulty levels",
			zap.String("from", fromID), zap.String("to", toID),
			zap.String("fromLevel", string(from)), zap.String("toLevel", string(to)))
	}

	entry := model.SkillMapEntry{
		FromBookID:      fromID,
		ToBookID:        toID,
		DifficultyLevel: toLevel,
	}
	if err := s.SkillMap.Upsert(&entry); err != nil {
		logger.Log.Warn("Failed to save book connection",
			zap.String("from", fromID), zap.String("to", toID), zap.Error(err))
		return 0
	}
	return 1
}
