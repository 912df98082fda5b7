package controller

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
)

type GradingController struct {
	GradingService *service.GradingService
}

func NewGradingController(gradingService *service.GradingService) *GradingController {
	return &GradingController{GradingService: gradingService}
}

// ScoreRequest 人工赋分入参
type ScoreRequest struct {
	ModuleType model.ModuleType `json:"moduleType" binding:"required"`
	Score      float64          `json:"score"`
	Detail     json.RawMessage  `json:"detail"`
}

// AutoScoreRequest 自动判分入参
type AutoScoreRequest struct {
	ModuleType model.ModuleType `json:"moduleType" binding:"required"`
}

// BatchScoreRequest 批量赋分入参
type BatchScoreRequest struct {
	ModuleType model.ModuleType         `json:"moduleType" binding:"required"`
	Items      []service.BatchGradeItem `json:"items" binding:"required,min=1"`
}

// Submit godoc
// @Summary 提交作答
// @Tags 判分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SubmitRequest true "作答内容"
// @Success 201 {object} util.Response{data=service.ResponseView}
// @Failure 409 {object} util.Response "OPI 题重复作答"
// @Router /api/v1/responses [post]
func (c *GradingController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.GradingService.SubmitResponse(claims.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// Get godoc
// @Summary 查询单条作答
// @Tags 判分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Param   moduleType query string true "模块类型"
// @Success 200 {object} util.Response{data=service.ResponseView}
// @Router /api/v1/responses/{id} [get]
func (c *GradingController) Get(ctx *gin.Context) {
	view, err := c.GradingService.GetResponse(
		model.ModuleType(ctx.Query("moduleType")),
		util.MustParseUint(ctx.Param("id")),
	)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ListByQuestion godoc
// @Summary 按题目列出作答
// @Tags 判分
// @Produce  json
// @Security BearerAuth
// @Param   questionId path int true "题目 ID"
// @Param   moduleType query string true "模块类型"
// @Success 200 {object} util.Response{data=[]service.ResponseView}
// @Router /api/v1/admin/questions/{questionId}/responses [get]
func (c *GradingController) ListByQuestion(ctx *gin.Context) {
	views, err := c.GradingService.ListResponsesByQuestion(
		model.ModuleType(ctx.Query("moduleType")),
		util.MustParseUint(ctx.Param("questionId")),
	)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// Score godoc
// @Summary 人工赋分
// @Description 主观题接受 [0,10] 数值分，越界截断；客观题拒绝
// @Tags 判分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Param   body body ScoreRequest true "分数与评语"
// @Success 200 {object} util.Response{data=service.ResponseView}
// @Router /api/v1/admin/responses/{id}/score [post]
func (c *GradingController) Score(ctx *gin.Context) {
	var req ScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.GradingService.ScoreResponse(req.ModuleType, util.MustParseUint(ctx.Param("id")), req.Score, req.Detail)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// AutoScore godoc
// @Summary 自动判分
// @Description 客观题按当前正确选项比对，主观题委托评分服务
// @Tags 判分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答 ID"
// @Param   body body AutoScoreRequest true "模块类型"
// @Success 200 {object} util.Response{data=service.ResponseView}
// @Failure 422 {object} util.Response "缺少判分依据"
// @Router /api/v1/admin/responses/{id}/auto-score [post]
func (c *GradingController) AutoScore(ctx *gin.Context) {
	var req AutoScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	view, err := c.GradingService.AutoScoreResponse(req.ModuleType, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// BatchScore godoc
// @Summary 批量人工赋分
// @Description 逐条执行并按 id 上报结果，单条失败不影响其余
// @Tags 判分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body BatchScoreRequest true "批量分数"
// @Success 200 {object} util.Response{data=[]service.BatchResult}
// @Router /api/v1/admin/responses/batch-score [post]
func (c *GradingController) BatchScore(ctx *gin.Context) {
	var req BatchScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	results, err := c.GradingService.BatchGradeResponses(req.ModuleType, req.Items)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// GradeAllByQuestion godoc
// @Summary 对某题全部未判分作答自动判分
// @Tags 判分
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   questionId path int true "题目 ID"
// @Param   body body AutoScoreRequest true "模块类型"
// @Success 200 {object} util.Response{data=[]service.BatchResult}
// @Router /api/v1/admin/questions/{questionId}/responses/grade-all [post]
func (c *GradingController) GradeAllByQuestion(ctx *gin.Context) {
	var req AutoScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	results, err := c.GradingService.GradeAllResponsesByQuestion(req.ModuleType, util.MustParseUint(ctx.Param("questionId")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
