package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
)

type ExamPaperController struct {
	ModuleService *service.ModuleService
}

func NewExamPaperController(moduleService *service.ModuleService) *ExamPaperController {
	return &ExamPaperController{ModuleService: moduleService}
}

// Create godoc
// @Summary 创建试卷
// @Tags 试卷
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ExamPaperRequest true "试卷信息"
// @Success 201 {object} util.Response{data=model.ExamPaper}
// @Failure 409 {object} util.Response "编码已存在"
// @Router /api/v1/admin/papers [post]
func (c *ExamPaperController) Create(ctx *gin.Context) {
	var req service.ExamPaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	paper, err := c.ModuleService.CreatePaper(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, paper)
}

// Get godoc
// @Summary 查询试卷
// @Tags 试卷
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "试卷 ID"
// @Success 200 {object} util.Response{data=model.ExamPaper}
// @Router /api/v1/papers/{id} [get]
func (c *ExamPaperController) Get(ctx *gin.Context) {
	paper, err := c.ModuleService.GetPaper(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

// List godoc
// @Summary 分页查询试卷
// @Tags 试卷
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Param   keyword query string false "名称/编码关键字"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/papers [get]
func (c *ExamPaperController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	papers, total, err := c.ModuleService.ListPapers(page, limit, ctx.Query("keyword"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: papers, Total: total, Page: page, Limit: limit})
}

// Update godoc
// @Summary 更新试卷
// @Tags 试卷
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "试卷 ID"
// @Param   body body service.ExamPaperRequest true "试卷信息"
// @Success 200 {object} util.Response{data=model.ExamPaper}
// @Router /api/v1/admin/papers/{id} [put]
func (c *ExamPaperController) Update(ctx *gin.Context) {
	var req service.ExamPaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	paper, err := c.ModuleService.UpdatePaper(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

// Delete godoc
// @Summary 删除试卷
// @Description 试卷下仍有模块或考试记录时拒绝删除
// @Tags 试卷
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "试卷 ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "试卷仍被引用"
// @Router /api/v1/admin/papers/{id} [delete]
func (c *ExamPaperController) Delete(ctx *gin.Context) {
	if err := c.ModuleService.DeletePaper(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
