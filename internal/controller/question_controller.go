package controller

import (
	"github.com/gin-gonic/gin"

	"aviation_exam_backend/internal/service"
	"aviation_exam_backend/internal/util"
)

// QuestionController 五类题族的管理端 CRUD 与考生端视图
type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// CorrectChoiceRequest 正确选项换位入参
type CorrectChoiceRequest struct {
	ChoiceID uint `json:"choiceId" binding:"required"`
}

// ChoiceUpdateRequest 选项编辑入参，正确标志走独立接口
type ChoiceUpdateRequest struct {
	Label   string `json:"label" binding:"required,max=10"`
	Content string `json:"content" binding:"required"`
}

// CandidateView godoc
// @Summary 考生端模块题目视图
// @Description 按模块类型返回对应题族，剥离正确答案与评分参照
// @Tags 题目
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块 ID"
// @Success 200 {object} util.Response
// @Router /api/v1/modules/{id}/questions [get]
func (c *QuestionController) CandidateView(ctx *gin.Context) {
	view, err := c.QuestionService.CandidateViewForModule(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ---------- 听力选择题 ----------

// CreateMcq godoc
// @Summary 创建选择题
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.McqQuestionRequest true "题目"
// @Success 201 {object} util.Response{data=model.McqQuestion}
// @Router /api/v1/admin/questions/mcq [post]
func (c *QuestionController) CreateMcq(ctx *gin.Context) {
	var req service.McqQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.CreateMcqQuestion(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

func (c *QuestionController) GetMcq(ctx *gin.Context) {
	q, err := c.QuestionService.GetMcqQuestion(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

func (c *QuestionController) ListMcqByModule(ctx *gin.Context) {
	questions, err := c.QuestionService.ListMcqQuestions(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

func (c *QuestionController) UpdateMcq(ctx *gin.Context) {
	var req service.McqQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.UpdateMcqQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

func (c *QuestionController) DeleteMcq(ctx *gin.Context) {
	if err := c.QuestionService.DeleteMcqQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *QuestionController) AddChoice(ctx *gin.Context) {
	var req service.McqChoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	choice, err := c.QuestionService.AddMcqChoice(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, choice)
}

func (c *QuestionController) UpdateChoice(ctx *gin.Context) {
	var req ChoiceUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	choice, err := c.QuestionService.UpdateMcqChoice(util.MustParseUint(ctx.Param("id")), req.Label, req.Content)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, choice)
}

// SetCorrectChoice godoc
// @Summary 指定正确选项
// @Description 正确标志原子换位，同题其余选项的标志被清除
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目 ID"
// @Param   body body CorrectChoiceRequest true "目标选项"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/questions/mcq/{id}/correct-choice [put]
func (c *QuestionController) SetCorrectChoice(ctx *gin.Context) {
	var req CorrectChoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.QuestionService.SetCorrectChoice(util.MustParseUint(ctx.Param("id")), req.ChoiceID); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *QuestionController) DeleteChoice(ctx *gin.Context) {
	if err := c.QuestionService.DeleteMcqChoice(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---------- 故事复述 ----------

func (c *QuestionController) CreateRetell(ctx *gin.Context) {
	var req service.RetellItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	item, err := c.QuestionService.CreateRetellItem(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

func (c *QuestionController) GetRetell(ctx *gin.Context) {
	item, err := c.QuestionService.GetRetellItem(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

func (c *QuestionController) ListRetellByModule(ctx *gin.Context) {
	items, err := c.QuestionService.ListRetellItems(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

func (c *QuestionController) UpdateRetell(ctx *gin.Context) {
	var req service.RetellItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	item, err := c.QuestionService.UpdateRetellItem(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

func (c *QuestionController) DeleteRetell(ctx *gin.Context) {
	if err := c.QuestionService.DeleteRetellItem(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---------- 听力简答 ----------

func (c *QuestionController) CreateLsaDialog(ctx *gin.Context) {
	var req service.LsaDialogRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	d, err := c.QuestionService.CreateLsaDialog(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, d)
}

func (c *QuestionController) GetLsaDialog(ctx *gin.Context) {
	d, err := c.QuestionService.GetLsaDialog(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

func (c *QuestionController) ListLsaDialogsByModule(ctx *gin.Context) {
	dialogs, err := c.QuestionService.ListLsaDialogs(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, dialogs)
}

func (c *QuestionController) UpdateLsaDialog(ctx *gin.Context) {
	var req service.LsaDialogRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	d, err := c.QuestionService.UpdateLsaDialog(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

func (c *QuestionController) DeleteLsaDialog(ctx *gin.Context) {
	if err := c.QuestionService.DeleteLsaDialog(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *QuestionController) AddLsaQuestion(ctx *gin.Context) {
	var req service.LsaQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.AddLsaQuestion(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

func (c *QuestionController) UpdateLsaQuestion(ctx *gin.Context) {
	var req service.LsaQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.UpdateLsaQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

func (c *QuestionController) DeleteLsaQuestion(ctx *gin.Context) {
	if err := c.QuestionService.DeleteLsaQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---------- 陆空通话模拟 ----------

func (c *QuestionController) CreateAtcScenario(ctx *gin.Context) {
	var req service.AtcScenarioRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	sc, err := c.QuestionService.CreateAtcScenario(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, sc)
}

func (c *QuestionController) GetAtcScenario(ctx *gin.Context) {
	sc, err := c.QuestionService.GetAtcScenario(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, sc)
}

func (c *QuestionController) ListAtcScenariosByModule(ctx *gin.Context) {
	scenarios, err := c.QuestionService.ListAtcScenarios(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, scenarios)
}

func (c *QuestionController) UpdateAtcScenario(ctx *gin.Context) {
	var req service.AtcScenarioRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	sc, err := c.QuestionService.UpdateAtcScenario(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, sc)
}

func (c *QuestionController) DeleteAtcScenario(ctx *gin.Context) {
	if err := c.QuestionService.DeleteAtcScenario(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *QuestionController) AddAtcTurn(ctx *gin.Context) {
	var req service.AtcTurnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	t, err := c.QuestionService.AddAtcTurn(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, t)
}

func (c *QuestionController) UpdateAtcTurn(ctx *gin.Context) {
	var req service.AtcTurnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	t, err := c.QuestionService.UpdateAtcTurn(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, t)
}

func (c *QuestionController) DeleteAtcTurn(ctx *gin.Context) {
	if err := c.QuestionService.DeleteAtcTurn(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---------- 口语面试 ----------

func (c *QuestionController) CreateOpiTopic(ctx *gin.Context) {
	var req service.OpiTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	t, err := c.QuestionService.CreateOpiTopic(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, t)
}

func (c *QuestionController) GetOpiTopic(ctx *gin.Context) {
	t, err := c.QuestionService.GetOpiTopic(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, t)
}

func (c *QuestionController) ListOpiTopicsByModule(ctx *gin.Context) {
	topics, err := c.QuestionService.ListOpiTopics(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

func (c *QuestionController) UpdateOpiTopic(ctx *gin.Context) {
	var req service.OpiTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	t, err := c.QuestionService.UpdateOpiTopic(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, t)
}

func (c *QuestionController) DeleteOpiTopic(ctx *gin.Context) {
	if err := c.QuestionService.DeleteOpiTopic(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func (c *QuestionController) AddOpiQuestion(ctx *gin.Context) {
	var req service.OpiQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.AddOpiQuestion(req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

func (c *QuestionController) UpdateOpiQuestion(ctx *gin.Context) {
	var req service.OpiQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.UpdateOpiQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

func (c *QuestionController) DeleteOpiQuestion(ctx *gin.Context) {
	if err := c.QuestionService.DeleteOpiQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
