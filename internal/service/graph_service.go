package service

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/util"
	"bookgraph_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// 画布尺寸与每个难度带的纵坐标
	canvasWidth    = 800.0
	yBeginner      = 100.0
	yIntermediate  = 300.0
	yAdvanced      = 500.0
	showMoreStep   = 3
	initialReserve = 3 // 可见数量 = 展开节点数 + 3
)

// GraphService 知识图谱构建：初始可见子集、边过滤、坐标分配、渐进展开与布局持久化
type GraphService struct {
	Books    *repository.BookRepository
	SkillMap *repository.SkillMapRepository
	Topics   *repository.TopicRepository
	Progress *repository.ProgressRepository
	Layouts  *repository.GraphLayoutRepository
}

func NewGraphService(
	books *repository.BookRepository,
	skillMap *repository.SkillMapRepository,
	topics *repository.TopicRepository,
	progress *repository.ProgressRepository,
	layouts *repository.GraphLayoutRepository,
) *GraphService {
	return &GraphService{
		Books:    books,
		SkillMap: skillMap,
		Topics:   topics,
		Progress: progress,
		Layouts:  layouts,
	}
}

// initialQuota 按用户自报技能等级决定初始每级图书配额
func initialQuota(userLevel model.DifficultyLevel) (beginner, intermediate, advanced int) {
	switch userLevel {
	case model.LevelBeginner:
		return 2, 1, 0
	case model.LevelIntermediate:
		return 2, 2, 1
	case model.LevelAdvanced:
		return 0, 2, 2
	}
	return 0, 0, 0
}

// filterInitialBooks 按配额取每级前 N 本（保持输入顺序），配额不够 showCount 时
// 按原始顺序补足，补足不限难度
func filterInitialBooks(books []model.Book, userLevel model.DifficultyLevel, showCount int) []model.Book {
	var byLevel = map[model.DifficultyLevel][]model.Book{}
	for _, b := range books {
		byLevel[b.Level] = append(byLevel[b.Level], b)
	}

	nBeg, nInt, nAdv := initialQuota(userLevel)

	take := func(list []model.Book, n int) []model.Book {
		if n > len(list) {
			n = len(list)
		}
		return list[:n]
	}

	selected := make([]model.Book, 0, showCount)
	selected = append(selected, take(byLevel[model.LevelBeginner], nBeg)...)
	selected = append(selected, take(byLevel[model.LevelIntermediate], nInt)...)
	selected = append(selected, take(byLevel[model.LevelAdvanced], nAdv)...)

	if showCount > len(selected) {
		selectedIDs := make(map[string]bool, len(selected))
		for _, b := range selected {
			selectedIDs[b.GoogleBooksID] = true
		}
		remaining := showCount - len(selected)
		for _, b := range books {
			if remaining == 0 {
				break
			}
			if !selectedIDs[b.GoogleBooksID] {
				selected = append(selected, b)
				remaining--
			}
		}
	}

	return selected
}

// visibleGraph 计算可见图书与可见边。边必须两端可见且恰好前进一级，
// 同级、跨级、逆向的边即使在存储里也会被丢弃。
func visibleGraph(books []model.Book, userLevel model.DifficultyLevel, connections []model.SkillMapEntry, expanded []string) ([]model.Book, []model.SkillMapEntry) {
	visibleBooks := filterInitialBooks(books, userLevel, len(expanded)+initialReserve)

	visibleIDs := make(map[string]bool, len(visibleBooks))
	for _, b := range visibleBooks {
		visibleIDs[b.GoogleBooksID] = true
	}

	// 被展开的节点无条件可见
	expandedSet := make(map[string]bool, len(expanded))
	for _, id := range expanded {
		expandedSet[id] = true
	}
	for _, b := range books {
		if expandedSet[b.GoogleBooksID] && !visibleIDs[b.GoogleBooksID] {
			visibleBooks = append(visibleBooks, b)
			visibleIDs[b.GoogleBooksID] = true
		}
	}

	levelOf := make(map[string]model.DifficultyLevel, len(books))
	for _, b := range books {
		levelOf[b.GoogleBooksID] = b.Level
	}

	var visibleEdges []model.SkillMapEntry
	for _, conn := range connections {
		if !visibleIDs[conn.FromBookID] || !visibleIDs[conn.ToBookID] {
			continue
		}
		if !model.IsValidProgression(levelOf[conn.FromBookID], levelOf[conn.ToBookID]) {
			continue
		}
		visibleEdges = append(visibleEdges, conn)
	}

	return visibleBooks, visibleEdges
}

// calculatePosition 同一难度带内横向均匀分布，纵坐标按难度固定
func calculatePosition(level model.DifficultyLevel, indexInLevel, totalInLevel int) model.Position {
	spacing := canvasWidth / float64(totalInLevel+1)
	x := spacing * float64(indexInLevel+1)

	y := yAdvanced
	switch level {
	case model.LevelBeginner:
		y = yBeginner
	case model.LevelIntermediate:
		y = yIntermediate
	}

	return model.Position{X: x, Y: y}
}

// BuildGraph 构建 (用户, 主题) 的知识图谱。存在已保存布局时原样恢复并跳过默认计算，
// 否则按配额规则计算初始视图。
func (s *GraphService) BuildGraph(userID uint, topicID string) (*model.GraphView, error) {
	userTopic, err := s.Topics.FindUserTopic(userID, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotEnrolled
		}
		return nil, err
	}

	books, err := s.Books.FindByTopic(topicID)
	if err != nil {
		return nil, err
	}

	// 已保存布局优先，恢复后不再走默认计算
	if saved, err := s.Layouts.Find(userID, topicID); err == nil {
		var layout model.GraphLayout
		if err := json.Unmarshal(saved.GraphLayout, &layout); err == nil {
			return viewFromLayout(&layout, len(books)), nil
		}
		logger.Log.Warn("Ignoring unreadable saved graph layout",
			zap.Uint("userID", userID), zap.String("topicID", topicID))
	}

	return s.computeView(userID, userTopic.SkillLevel, books, nil, nil)
}

// computeView 默认图构建。savedPositions 非空时覆盖计算出的坐标。
func (s *GraphService) computeView(userID uint, userLevel model.DifficultyLevel, books []model.Book, expanded []string, savedPositions map[string]model.Position) (*model.GraphView, error) {
	bookIDs := make([]string, len(books))
	for i, b := range books {
		bookIDs[i] = b.GoogleBooksID
	}

	var connections []model.SkillMapEntry
	if len(bookIDs) > 0 {
		var err error
		connections, err = s.SkillMap.FindWithinBooks(bookIDs)
		if err != nil {
			return nil, err
		}
	}

	statuses, err := s.Progress.StatusMap(userID, bookIDs)
	if err != nil {
		return nil, err
	}

	visibleBooks, visibleEdges := visibleGraph(books, userLevel, connections, expanded)

	// 每个难度带内的序号决定横坐标
	totalInLevel := map[model.DifficultyLevel]int{}
	for _, b := range visibleBooks {
		totalInLevel[b.Level]++
	}

	indexInLevel := map[model.DifficultyLevel]int{}
	nodes := make([]model.GraphNode, 0, len(visibleBooks))
	levelOf := make(map[string]model.DifficultyLevel, len(visibleBooks))
	for _, b := range visibleBooks {
		idx := indexInLevel[b.Level]
		indexInLevel[b.Level]++
		levelOf[b.GoogleBooksID] = b.Level

		pos, ok := savedPositions[b.GoogleBooksID]
		if !ok {
			pos = calculatePosition(b.Level, idx, totalInLevel[b.Level])
		}

		status := statuses[b.GoogleBooksID]
		if status == "" {
			status = model.ProgressNotStarted
		}

		nodes = append(nodes, model.GraphNode{
			LayoutNode: model.LayoutNode{
				ID:               b.GoogleBooksID,
				Position:         pos,
				Label:            b.Title,
				Level:            b.Level,
				Status:           status,
				Description:      b.Description,
				IsAdvanced:       b.Level == model.LevelAdvanced,
				InitiallyVisible: true,
			},
		})
	}

	edges := make([]model.LayoutEdge, 0, len(visibleEdges))
	for _, conn := range visibleEdges {
		edges = append(edges, model.LayoutEdge{
			ID:          fmt.Sprintf("%s-%s", conn.FromBookID, conn.ToBookID),
			Source:      conn.FromBookID,
			Target:      conn.ToBookID,
			SourceLevel: levelOf[conn.FromBookID],
			TargetLevel: levelOf[conn.ToBookID],
		})
	}

	return &model.GraphView{
		Nodes:         nodes,
		Edges:         edges,
		ExpandedNodes: append([]string{}, expanded...),
		VisibleCount:  len(visibleBooks),
		TotalBooks:    len(books),
	}, nil
}

// viewFromLayout 原样恢复保存的布局，只重算每个节点的隐藏标记
func viewFromLayout(layout *model.GraphLayout, totalBooks int) *model.GraphView {
	expandedSet := make(map[string]bool, len(layout.ExpandedNodes))
	for _, id := range layout.ExpandedNodes {
		expandedSet[id] = true
	}

	nodes := make([]model.GraphNode, 0, len(layout.Nodes))
	for _, n := range layout.Nodes {
		nodes = append(nodes, model.GraphNode{
			LayoutNode: n,
			Hidden:     !n.InitiallyVisible && !expandedSet[n.ID],
		})
	}

	return &model.GraphView{
		Nodes:         nodes,
		Edges:         layout.Edges,
		ExpandedNodes: layout.ExpandedNodes,
		VisibleCount:  layout.VisibleCount,
		TotalBooks:    totalBooks,
		Restored:      true,
	}
}

// ShowMore 渐进展开：最多揭示 3 个尚未可见的节点（按图书输入顺序），
// 可见上限加 3 并以总数封顶。纯增量，不移除、不重排。
func (s *GraphService) ShowMore(userID uint, topicID string) (*model.GraphView, error) {
	userTopic, err := s.Topics.FindUserTopic(userID, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotEnrolled
		}
		return nil, err
	}

	books, err := s.Books.FindByTopic(topicID)
	if err != nil {
		return nil, err
	}

	expanded := []string{}
	visibleCount := 0
	savedPositions := map[string]model.Position{}

	if saved, err := s.Layouts.Find(userID, topicID); err == nil {
		var layout model.GraphLayout
		if err := json.Unmarshal(saved.GraphLayout, &layout); err == nil {
			expanded = layout.ExpandedNodes
			visibleCount = layout.VisibleCount
			for _, n := range layout.Nodes {
				savedPositions[n.ID] = n.Position
			}
		}
	}

	current, err := s.computeView(userID, userTopic.SkillLevel, books, expanded, savedPositions)
	if err != nil {
		return nil, err
	}
	if visibleCount == 0 {
		visibleCount = current.VisibleCount
	}

	visibleIDs := make(map[string]bool, len(current.Nodes))
	for _, n := range current.Nodes {
		visibleIDs[n.ID] = true
	}
	expandedSet := make(map[string]bool, len(expanded))
	for _, id := range expanded {
		expandedSet[id] = true
	}

	added := 0
	for _, b := range books {
		if added == showMoreStep {
			break
		}
		if visibleIDs[b.GoogleBooksID] || expandedSet[b.GoogleBooksID] {
			continue
		}
		expanded = append(expanded, b.GoogleBooksID)
		expandedSet[b.GoogleBooksID] = true
		added++
	}

	visibleCount += showMoreStep
	if visibleCount > len(books) {
		visibleCount = len(books)
	}

	view, err := s.computeView(userID, userTopic.SkillLevel, books, expanded, savedPositions)
	if err != nil {
		return nil, err
	}
	view.VisibleCount = visibleCount

	// 展开结果整体落盘，下次加载按保存的布局恢复
	if err := s.persistView(userID, topicID, view); err != nil {
		logger.Log.Warn("Failed to persist expanded graph layout",
			zap.Uint("userID", userID), zap.String("topicID", topicID), zap.Error(err))
	}

	return view, nil
}

func (s *GraphService) persistView(userID uint, topicID string, view *model.GraphView) error {
	layout := model.GraphLayout{
		Nodes:         make([]model.LayoutNode, 0, len(view.Nodes)),
		Edges:         view.Edges,
		ExpandedNodes: view.ExpandedNodes,
		VisibleCount:  view.VisibleCount,
		LastSaved:     time.Now(),
	}
	for _, n := range view.Nodes {
		layout.Nodes = append(layout.Nodes, n.LayoutNode)
	}
	return s.saveLayout(userID, topicID, &layout)
}

// SaveLayout 保存客户端提交的布局。边按 (source,target) 去重并补齐两端难度标记，
// 整体覆盖之前的存档（按 (user, topic) upsert，不做部分合并）。
func (s *GraphService) SaveLayout(userID uint, topicID string, layout *model.GraphLayout) error {
	if _, err := s.Topics.FindUserTopic(userID, topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTopicNotEnrolled
		}
		return err
	}

	books, err := s.Books.FindByTopic(topicID)
	if err != nil {
		return err
	}
	levelOf := make(map[string]model.DifficultyLevel, len(books))
	for _, b := range books {
		levelOf[b.GoogleBooksID] = b.Level
	}

	seen := make(map[string]bool, len(layout.Edges))
	deduped := make([]model.LayoutEdge, 0, len(layout.Edges))
	for _, e := range layout.Edges {
		key := e.Source + "->" + e.Target
		if seen[key] {
			continue
		}
		seen[key] = true
		if e.SourceLevel == "" {
			e.SourceLevel = levelOf[e.Source]
		}
		if e.TargetLevel == "" {
			e.TargetLevel = levelOf[e.Target]
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("%s-%s", e.Source, e.Target)
		}
		deduped = append(deduped, e)
	}
	layout.Edges = deduped

	if layout.LastSaved.IsZero() {
		layout.LastSaved = time.Now()
	}

	return s.saveLayout(userID, topicID, layout)
}

func (s *GraphService) saveLayout(userID uint, topicID string, layout *model.GraphLayout) error {
	data, err := json.Marshal(layout)
	if err != nil {
		return err
	}
	return s.Layouts.Save(userID, topicID, datatypes.JSON(data))
}
