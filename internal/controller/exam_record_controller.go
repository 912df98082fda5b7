package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
)

type ExamRecordController struct {
	RecordService *service.ExamRecordService
}

func NewExamRecordController(recordService *service.ExamRecordService) *ExamRecordController {
	return &ExamRecordController{RecordService: recordService}
}

// CreateRecordRequest 开考入参
type CreateRecordRequest struct {
	ExamPaperID uint `json:"examPaperId" binding:"required"`
}

// Create godoc
// @Summary 创建考试记录
// @Tags 考试记录
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateRecordRequest true "试卷"
// @Success 201 {object} util.Response{data=model.ExamRecord}
// @Router /api/v1/records [post]
func (c *ExamRecordController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req CreateRecordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	record, err := c.RecordService.CreateRecord(claims.UserID, req.ExamPaperID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, record)
}

// Get godoc
// @Summary 查询考试记录
// @Tags 考试记录
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "记录 ID"
// @Success 200 {object} util.Response{data=model.ExamRecord}
// @Router /api/v1/records/{id} [get]
func (c *ExamRecordController) Get(ctx *gin.Context) {
	record, err := c.RecordService.GetRecord(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Start godoc
// @Summary 开始考试
// @Description 落开始时间戳；重复开始不刷新，已结束的记录拒绝
// @Tags 考试记录
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "记录 ID"
// @Success 200 {object} util.Response{data=model.ExamRecord}
// @Failure 409 {object} util.Response "记录已结束"
// @Router /api/v1/records/{id}/start [post]
func (c *ExamRecordController) Start(ctx *gin.Context) {
	record, err := c.RecordService.StartRecord(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Finish godoc
// @Summary 结束考试
// @Description 终态操作，结束后幂等返回
// @Tags 考试记录
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "记录 ID"
// @Success 200 {object} util.Response{data=model.ExamRecord}
// @Router /api/v1/records/{id}/finish [post]
func (c *ExamRecordController) Finish(ctx *gin.Context) {
	record, err := c.RecordService.FinishRecord(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// UpdateStatusRequest 管理员改写结束标志的入参
type UpdateStatusRequest struct {
	IsFinished *bool `json:"isFinished" binding:"required"`
}

// UpdateStatus godoc
// @Summary 管理员改写考试记录状态
// @Description 正反两个方向都可以：强制结束未开始的记录会补落开始时间，强制重开撤销终态
// @Tags 考试记录
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "记录 ID"
// @Param   body body UpdateStatusRequest true "目标状态"
// @Success 200 {object} util.Response{data=model.ExamRecord}
// @Router /api/v1/admin/records/{id}/status [patch]
func (c *ExamRecordController) UpdateStatus(ctx *gin.Context) {
	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	record, err := c.RecordService.UpdateRecordStatus(util.MustParseUint(ctx.Param("id")), *req.IsFinished)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// ListMine godoc
// @Summary 我的考试记录
// @Tags 考试记录
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/records [get]
func (c *ExamRecordController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	records, total, err := c.RecordService.ListByUser(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: records, Total: total, Page: page, Limit: limit})
}

// ListByPaper godoc
// @Summary 某试卷全部考试记录
// @Tags 考试记录
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "试卷 ID"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/admin/papers/{id}/records [get]
func (c *ExamRecordController) ListByPaper(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	records, total, err := c.RecordService.ListByPaper(util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: records, Total: total, Page: page, Limit: limit})
}
