package controller

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/service"
	"bookgraph_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// UpdateProgressRequest 进度更新请求
// swagger:model UpdateProgressRequest
type UpdateProgressRequest struct {
	BookID string `json:"bookId" binding:"required"`
	Status string `json:"status" binding:"required,oneof=not_started in_progress completed"`
}

// Update godoc
// @Summary 更新阅读进度
// @Description 按 (用户, 图书) 记录阅读状态，重复提交覆盖旧状态
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   body body UpdateProgressRequest true "进度信息"
// @Success 200 {object} util.Response{data=model.UserProgress} "更新成功"
// @Failure 400 {object} util.Response "状态值无效"
// @Failure 404 {object} util.Response "图书不存在"
// @Security BearerAuth
// @Router /api/user_progress [post]
func (c *ProgressController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	p, err := c.ProgressService.Update(userID, req.BookID, model.ProgressStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidStatus):
			util.BadRequest(ctx, "invalid progress status")
		case errors.Is(err, util.ErrBookNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, p)
}
