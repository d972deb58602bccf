package controller

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/service"
	"bookgraph_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type GraphController struct {
	GraphService *service.GraphService
}

func NewGraphController(graphService *service.GraphService) *GraphController {
	return &GraphController{GraphService: graphService}
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

// Get godoc
// @Summary 获取知识图谱
// @Description 返回用户在某主题下的知识图谱视图。存在保存的布局时原样恢复，
// @Description 否则按用户技能等级计算初始可见子集。
// @Tags 图谱
// @Produce  json
// @Param   topicId query string true "主题 ID"
// @Success 200 {object} util.Response{data=model.GraphView} "获取成功"
// @Failure 400 {object} util.Response "缺少主题参数"
// @Failure 404 {object} util.Response "尚未选择该主题"
// @Security BearerAuth
// @Router /api/graph [get]
func (c *GraphController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	topicID := ctx.Query("topicId")
	if topicID == "" {
		util.BadRequest(ctx, "topicId is required")
		return
	}

	view, err := c.GraphService.BuildGraph(userID, topicID)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotEnrolled) {
			util.Error(ctx, http.StatusNotFound, "尚未选择该主题")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// ShowMoreRequest 展开更多节点请求
// swagger:model ShowMoreRequest
type ShowMoreRequest struct {
	TopicID string `json:"topicId" binding:"required"`
}

// ShowMore godoc
// @Summary 展开更多节点
// @Description 渐进揭示最多 3 个尚未可见的节点，只增不减
// @Tags 图谱
// @Accept  json
// @Produce  json
// @Param   body body ShowMoreRequest true "主题"
// @Success 200 {object} util.Response{data=model.GraphView} "展开成功"
// @Failure 404 {object} util.Response "尚未选择该主题"
// @Security BearerAuth
// @Router /api/graph/show-more [post]
func (c *GraphController) ShowMore(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req ShowMoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.GraphService.ShowMore(userID, req.TopicID)
	if err != nil {
		if errors.Is(err, util.ErrTopicNotEnrolled) {
			util.Error(ctx, http.StatusNotFound, "尚未选择该主题")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// SaveLayoutRequest 保存布局请求
// swagger:model SaveLayoutRequest
type SaveLayoutRequest struct {
	TopicID     string            `json:"topicId" binding:"required"`
	GraphLayout model.GraphLayout `json:"graphLayout" binding:"required"`
}

// SaveLayout godoc
// @Summary 保存图谱布局
// @Description 整体保存用户调整后的节点坐标与展开状态，
// @Description 同一 (用户, 主题) 的旧存档被覆盖
// @Tags 图谱
// @Accept  json
// @Produce  json
// @Param   body body SaveLayoutRequest true "布局数据"
// @Success 200 {object} util.Response "保存成功"
// @Failure 404 {object} util.Response "尚未选择该主题"
// @Security BearerAuth
// @Router /api/graph-layout [post]
func (c *GraphController) SaveLayout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req SaveLayoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.GraphService.SaveLayout(userID, req.TopicID, &req.GraphLayout); err != nil {
		if errors.Is(err, util.ErrTopicNotEnrolled) {
			util.Error(ctx, http.StatusNotFound, "尚未选择该主题")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"saved": true})
}
