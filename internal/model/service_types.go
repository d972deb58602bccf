package model

import "time"

// CandidateBook 图书检索服务返回的规范化图书记录，也是分类请求的输入
// swagger:model CandidateBook
type CandidateBook struct {
	ID          string   `json:"id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	PageCount   int      `json:"pageCount,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Language    string   `json:"language,omitempty"`
}

// BookAnalysis 大模型对单本图书的分类结果
// swagger:model BookAnalysis
type BookAnalysis struct {
	ID            string          `json:"id"`
	Difficulty    DifficultyLevel `json:"difficulty"`
	Prerequisites []string        `json:"prerequisites"`
	NextBooks     []string        `json:"nextBooks"`
	Concepts      []string        `json:"concepts,omitempty"`
}

// Violation 分类结果违反连通性规则的记录
// swagger:model Violation
type Violation struct {
	BookID  string `json:"bookId"`
	Message string `json:"message"`
}

// Position 画布坐标
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutNode 持久化布局中的节点
type LayoutNode struct {
	ID               string          `json:"id"`
	Position         Position        `json:"position"`
	Label            string          `json:"label"`
	Level            DifficultyLevel `json:"level"`
	Status           ProgressStatus  `json:"status"`
	Description      string          `json:"description,omitempty"`
	IsAdvanced       bool            `json:"isAdvanced"`
	InitiallyVisible bool            `json:"initiallyVisible"`
}

// LayoutEdge 持久化布局中的边，两端冗余记录难度便于前端渲染
type LayoutEdge struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Target      string          `json:"target"`
	SourceLevel DifficultyLevel `json:"sourceLevel,omitempty"`
	TargetLevel DifficultyLevel `json:"targetLevel,omitempty"`
}

// GraphLayout 每个 (用户, 主题) 的完整可视化状态
// swagger:model GraphLayout
type GraphLayout struct {
	Nodes         []LayoutNode `json:"nodes"`
	Edges         []LayoutEdge `json:"edges,omitempty"`
	ExpandedNodes []string     `json:"expandedNodes"`
	VisibleCount  int          `json:"visibleCount"`
	LastSaved     time.Time    `json:"lastSaved"`
}

// GraphNode 对外返回的图节点，Hidden 由 initiallyVisible 与展开集合推导
type GraphNode struct {
	LayoutNode
	Hidden bool `json:"hidden"`
}

// GraphView 知识图谱构建结果
// swagger:model GraphView
type GraphView struct {
	Nodes         []GraphNode  `json:"nodes"`
	Edges         []LayoutEdge `json:"edges"`
	ExpandedNodes []string     `json:"expandedNodes"`
	VisibleCount  int          `json:"visibleCount"`
	TotalBooks    int          `json:"totalBooks"`
	Restored      bool         `json:"restored"`
}
