package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(moduleService *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: moduleService}
}

// ReorderRequest 模块重排入参，id 顺序即新展示顺序
type ReorderRequest struct {
	OrderedModuleIDs []uint `json:"orderedModuleIds" binding:"required"`
}

// CopyToPaperRequest 跨试卷复制入参
type CopyToPaperRequest struct {
	TargetPaperID uint `json:"targetPaperId" binding:"required"`
}

// ActivationRequest 启停入参
type ActivationRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// Create godoc
// @Summary 创建试卷模块
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ExamModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.ExamModule}
// @Router /api/v1/admin/modules [post]
func (c *ModuleController) Create(ctx *gin.Context) {
	var req service.ExamModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.ModuleService.CreateModule(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// Get godoc
// @Summary 查询模块
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response{data=model.ExamModule}
// @Router /api/v1/modules/{id} [get]
func (c *ModuleController) Get(ctx *gin.Context) {
	m, err := c.ModuleService.GetModule(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// ListByPaper godoc
// @Summary 按试卷列出模块
// @Description 按 displayOrder 升序返回；activeOnly=true 时过滤停用模块
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "试卷 ID"
// @Param   activeOnly query bool false "仅启用模块"
// @Success 200 {object} util.Response{data=[]model.ExamModule}
// @Router /api/v1/papers/{id}/modules [get]
func (c *ModuleController) ListByPaper(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.DefaultQuery("activeOnly", "false"))
	modules, err := c.ModuleService.ListModules(util.MustParseUint(ctx.Param("id")), activeOnly)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// Update godoc
// @Summary 更新模块
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body service.ModuleUpdateRequest true "模块信息"
// @Success 200 {object} util.Response{data=model.ExamModule}
// @Router /api/v1/admin/modules/{id} [put]
func (c *ModuleController) Update(ctx *gin.Context) {
	var req service.ModuleUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.ModuleService.UpdateModule(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// Reorder godoc
// @Summary 重排试卷内模块
// @Description 入参包含的模块按给定顺序重新编号，未包含的保持原相对顺序
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "试卷 ID"
// @Param   body body ReorderRequest true "模块 id 有序列表"
// @Success 200 {object} util.Response{data=[]model.ExamModule}
// @Router /api/v1/admin/papers/{id}/modules/reorder [put]
func (c *ModuleController) Reorder(ctx *gin.Context) {
	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	modules, err := c.ModuleService.ReorderModules(util.MustParseUint(ctx.Param("id")), req.OrderedModuleIDs)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// Copy godoc
// @Summary 在本试卷内复制模块
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 201 {object} util.Response{data=model.ExamModule}
// @Router /api/v1/admin/modules/{id}/copy [post]
func (c *ModuleController) Copy(ctx *gin.Context) {
	m, err := c.ModuleService.CopyModule(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// CopyToPaper godoc
// @Summary 复制模块到另一份试卷
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body CopyToPaperRequest true "目标试卷"
// @Success 201 {object} util.Response{data=model.ExamModule}
// @Router /api/v1/admin/modules/{id}/copy-to [post]
func (c *ModuleController) CopyToPaper(ctx *gin.Context) {
	var req CopyToPaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.ModuleService.CopyModuleToExamPaper(util.MustParseUint(ctx.Param("id")), req.TargetPaperID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// SetActivation godoc
// @Summary 启用或停用模块
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Param   body body ActivationRequest true "启停标志"
// @Success 200 {object} util.Response{data=model.ExamModule}
// @Router /api/v1/admin/modules/{id}/activation [put]
func (c *ModuleController) SetActivation(ctx *gin.Context) {
	var req ActivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.ModuleService.ToggleModuleActivation(util.MustParseUint(ctx.Param("id")), *req.IsActive)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// Delete godoc
// @Summary 删除模块
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/modules/{id} [delete]
func (c *ModuleController) Delete(ctx *gin.Context) {
	if err := c.ModuleService.DeleteModule(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
