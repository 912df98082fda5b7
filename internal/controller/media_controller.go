package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
)

type MediaController struct {
	MediaService *service.MediaService
}

func NewMediaController(mediaService *service.MediaService) *MediaController {
	return &MediaController{MediaService: mediaService}
}

// UploadAudio godoc
// @Summary 上传题目音频
// @Description 入库前探测时长；探测失败不阻断上传，时长留空
// @Tags 媒体
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "音频文件"
// @Success 201 {object} util.Response{data=model.MediaAsset}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/v1/admin/media/audio [post]
func (c *MediaController) UploadAudio(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	asset, err := c.MediaService.UploadAudio(ctx.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, asset)
}

// UploadImage godoc
// @Summary 上传题目插图
// @Tags 媒体
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "图片文件"
// @Success 201 {object} util.Response{data=model.MediaAsset}
// @Router /api/v1/admin/media/image [post]
func (c *MediaController) UploadImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	asset, err := c.MediaService.UploadImage(ctx.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, asset)
}

// Get godoc
// @Summary 查询媒体资源
// @Tags 媒体
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "资源 ID"
// @Success 200 {object} util.Response{data=model.MediaAsset}
// @Router /api/v1/media/{id} [get]
func (c *MediaController) Get(ctx *gin.Context) {
	asset, err := c.MediaService.GetAsset(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, asset)
}

// List godoc
// @Summary 分页查询媒体资源
// @Tags 媒体
// @Produce  json
// @Security BearerAuth
// @Param   kind query string false "audio / image"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/admin/media [get]
func (c *MediaController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	assets, total, err := c.MediaService.ListAssets(model.MediaAssetKind(ctx.Query("kind")), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: assets, Total: total, Page: page, Limit: limit})
}

// Delete godoc
// @Summary 删除媒体资源
// @Tags 媒体
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "资源 ID"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/media/{id} [delete]
func (c *MediaController) Delete(ctx *gin.Context) {
	if err := c.MediaService.DeleteAsset(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
