package controller

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/service"
	"bookgraph_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	TopicService *service.TopicService
}

func NewTopicController(topicService *service.TopicService) *TopicController {
	return &TopicController{TopicService: topicService}
}

// List godoc
// @Summary 主题列表
// @Description 返回所有可选学习主题
// @Tags 主题
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Topic} "获取成功"
// @Router /api/topics [get]
func (c *TopicController) List(ctx *gin.Context) {
	topics, err := c.TopicService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// EnrollRequest 选题请求
// swagger:model EnrollRequest
type EnrollRequest struct {
	SkillLevel string `json:"skillLevel" binding:"required,oneof=beginner intermediate advanced"`
}

// Enroll godoc
// @Summary 选择主题
// @Description 用户选择主题并自报技能等级，重复选择会更新等级
// @Tags 主题
// @Accept  json
// @Produce  json
// @Param   id path string true "主题 ID"
// @Param   body body EnrollRequest true "自报技能等级"
// @Success 200 {object} util.Response{data=model.UserTopic} "选题成功"
// @Failure 400 {object} util.Response "技能等级无效"
// @Failure 404 {object} util.Response "主题不存在"
// @Security BearerAuth
// @Router /api/topics/{id}/enroll [post]
func (c *TopicController) Enroll(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ut, err := c.TopicService.Enroll(userID, ctx.Param("id"), model.DifficultyLevel(req.SkillLevel))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidSkillLevel):
			util.BadRequest(ctx, "invalid skill level")
		case errors.Is(err, util.ErrTopicNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, ut)
}
