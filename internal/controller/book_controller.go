package controller

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/service"
	"bookgraph_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BookController struct {
	BookService *service.BookService
}

func NewBookController(bookService *service.BookService) *BookController {
	return &BookController{BookService: bookService}
}

// Search godoc
// @Summary 按主题检索图书
// @Description 从图书目录服务检索候选图书，过滤掉元数据不完整或非英文的条目
// @Tags 图书
// @Produce  json
// @Param   topic query string true "主题关键词"
// @Success 200 {object} util.Response{data=service.BookSearchResult} "检索成功"
// @Failure 400 {object} util.Response "缺少主题参数"
// @Failure 502 {object} util.Response "上游服务不可用"
// @Router /api/books [get]
func (c *BookController) Search(ctx *gin.Context) {
	topic := ctx.Query("topic")
	if topic == "" {
		util.BadRequest(ctx, "topic is required")
		return
	}

	result, err := c.BookService.SearchBooks(ctx.Request.Context(), topic)
	if err != nil {
		if errors.Is(err, util.ErrBooksUpstream) {
			util.Error(ctx, http.StatusBadGateway, "图书目录服务暂不可用")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// AnalyzeRequest 分析请求：主题与候选图书列表
// swagger:model AnalyzeRequest
type AnalyzeRequest struct {
	TopicID string                `json:"topicId" binding:"required"`
	Books   []model.CandidateBook `json:"books" binding:"required,min=1,dive"`
}

// Analyze godoc
// @Summary 分析图书难度
// @Description 调用 AI 对候选图书做难度分类并校验连通性，通过后写入知识图谱。
// @Description 校验在有限次重试内始终不通过时返回 400 并附违规明细。
// @Tags 图书
// @Accept  json
// @Produce  json
// @Param   body body AnalyzeRequest true "候选图书"
// @Success 200 {object} util.Response{data=object} "分析完成"
// @Failure 400 {object} util.Response "参数错误或分类校验未通过"
// @Failure 404 {object} util.Response "主题不存在"
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/analyze-books [post]
func (c *BookController) Analyze(ctx *gin.Context) {
	var req AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.BookService.Analyze(ctx.Request.Context(), req.TopicID, req.Books)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTopicNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAIUnavailable):
			util.Error(ctx, http.StatusBadGateway, "AI 服务暂不可用")
		case errors.Is(err, util.ErrMalformedAIResponse):
			util.Error(ctx, http.StatusInternalServerError, "AI 返回结果无法解析")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if report.Outcome.State == service.AnalysisExhausted {
		util.ErrorWithData(ctx, http.StatusBadRequest, "图书分类校验未通过", gin.H{
			"details":  report.Outcome.Violations,
			"attempts": report.Outcome.Attempts,
		})
		return
	}

	util.Success(ctx, gin.H{
		"analyzed": len(report.Outcome.Analyses),
		"saved":    report.Saved,
		"reused":   report.Reused,
		"edges":    report.Edges,
		"attempts": report.Outcome.Attempts,
	})
}

// Status godoc
// @Summary 查询主题分析进度
// @Description 返回主题下已分析图书数与总数
// @Tags 图书
// @Produce  json
// @Param   topicId query string true "主题 ID"
// @Success 200 {object} util.Response{data=service.AnalysisStatus} "查询成功"
// @Failure 400 {object} util.Response "缺少主题参数"
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/analysis-status [get]
func (c *BookController) Status(ctx *gin.Context) {
	topicID := ctx.Query("topicId")
	if topicID == "" {
		util.BadRequest(ctx, "topicId is required")
		return
	}

	status, err := c.BookService.Status(topicID)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}
