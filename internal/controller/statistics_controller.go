package controller

import (
	"github.com/gin-gonic/gin"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
)

type StatisticsController struct {
	StatisticsService *service.StatisticsService
}

func NewStatisticsController(statisticsService *service.StatisticsService) *StatisticsController {
	return &StatisticsController{StatisticsService: statisticsService}
}

// QuestionStats godoc
// @Summary 单题统计
// @Description 客观题返回正确率与选项分布，主观题返回分数分布；无判分数据时比率为 null
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   questionId path int true "题目 ID"
// @Param   moduleType query string true "模块类型"
// @Success 200 {object} util.Response{data=service.QuestionStats}
// @Router /api/v1/admin/stats/questions/{questionId} [get]
func (c *StatisticsController) QuestionStats(ctx *gin.Context) {
	stats, err := c.StatisticsService.GetQuestionStats(
		model.ModuleType(ctx.Query("moduleType")),
		util.MustParseUint(ctx.Param("questionId")),
	)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// ModuleStats godoc
// @Summary 模块统计
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块 ID"
// @Success 200 {object} util.Response{data=service.ModuleStats}
// @Router /api/v1/admin/stats/modules/{moduleId} [get]
func (c *StatisticsController) ModuleStats(ctx *gin.Context) {
	stats, err := c.StatisticsService.GetModuleStats(util.MustParseUint(ctx.Param("moduleId")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// SystemStats godoc
// @Summary 全系统统计
// @Description Redis 可用时走缓存快照，最多滞后缓存 TTL
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SystemStats}
// @Router /api/v1/admin/stats/system [get]
func (c *StatisticsController) SystemStats(ctx *gin.Context) {
	stats, err := c.StatisticsService.GetSystemStats(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
