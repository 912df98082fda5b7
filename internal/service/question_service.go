package service

import (
	"gorm.io/gorm"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"
)

// QuestionService 五类题族的题目管理与考生端安全视图
type QuestionService struct {
	ModuleRepo *repository.ExamModuleRepository
	McqRepo    *repository.McqRepository
	RetellRepo *repository.RetellRepository
	LsaRepo    *repository.LsaRepository
	AtcRepo    *repository.AtcRepository
	OpiRepo    *repository.OpiRepository
	DB         *gorm.DB
}

func NewQuestionService(
	moduleRepo *repository.ExamModuleRepository,
	mcqRepo *repository.McqRepository,
	retellRepo *repository.RetellRepository,
	lsaRepo *repository.LsaRepository,
	atcRepo *repository.AtcRepository,
	opiRepo *repository.OpiRepository,
	db *gorm.DB,
) *QuestionService {
	return &QuestionService{
		ModuleRepo: moduleRepo,
		McqRepo:    mcqRepo,
		RetellRepo: retellRepo,
		LsaRepo:    lsaRepo,
		AtcRepo:    atcRepo,
		OpiRepo:    opiRepo,
		DB:         db,
	}
}

// requireModule 校验模块存在且类型与题族一致
func (s *QuestionService) requireModule(moduleID uint, want model.ModuleType) (*model.ExamModule, error) {
	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if m.ModuleType != want {
		return nil, util.ValidationErrorf("module %d is %s, expected %s", moduleID, m.ModuleType, want)
	}
	return m, nil
}

// ---------- 听力选择题 ----------

type McqQuestionRequest struct {
	ExamModuleID uint   `json:"examModuleId" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
	Content      string `json:"content" binding:"required"`
	AudioAssetID *uint  `json:"audioAssetId"`
	ImageAssetID *uint  `json:"imageAssetId"`
	Difficulty   string `json:"difficulty"`
	Explanation  string `json:"explanation"`
}

type McqChoiceRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Label      string `json:"label" binding:"required,max=10"`
	Content    string `json:"content" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

func (s *QuestionService) CreateMcqQuestion(req McqQuestionRequest) (*model.McqQuestion, error) {
	if _, err := s.requireModule(req.ExamModuleID, model.ModuleListeningMcq); err != nil {
		return nil, err
	}
	q := &model.McqQuestion{
		ExamModuleID: req.ExamModuleID,
		DisplayOrder: req.DisplayOrder,
		Content:      req.Content,
		AudioAssetID: req.AudioAssetID,
		ImageAssetID: req.ImageAssetID,
		Difficulty:   req.Difficulty,
		Explanation:  req.Explanation,
	}
	if err := s.McqRepo.CreateQuestion(q); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return q, nil
}

func (s *QuestionService) GetMcqQuestion(id uint) (*model.McqQuestion, error) {
	q, err := s.McqRepo.FindQuestionByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return q, nil
}

func (s *QuestionService) ListMcqQuestions(moduleID uint) ([]model.McqQuestion, error) {
	if _, err := s.requireModule(moduleID, model.ModuleListeningMcq); err != nil {
		return nil, err
	}
	return s.McqRepo.ListQuestionsByModule(moduleID)
}

func (s *QuestionService) UpdateMcqQuestion(id uint, req McqQuestionRequest) (*model.McqQuestion, error) {
	q, err := s.McqRepo.FindQuestionByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	q.DisplayOrder = req.DisplayOrder
	q.Content = req.Content
	q.AudioAssetID = req.AudioAssetID
	q.ImageAssetID = req.ImageAssetID
	q.Difficulty = req.Difficulty
	q.Explanation = req.Explanation
	if err := s.McqRepo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteMcqQuestion(id uint) error {
	if _, err := s.McqRepo.FindQuestionByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.McqRepo.DeleteQuestion(id)
}

func (s *QuestionService) AddMcqChoice(req McqChoiceRequest) (*model.McqChoice, error) {
	if _, err := s.McqRepo.FindQuestionByID(req.QuestionID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	c := &model.McqChoice{
		QuestionID: req.QuestionID,
		Label:      req.Label,
		Content:    req.Content,
	}
	if err := s.McqRepo.CreateChoice(c); err != nil {
		return nil, util.TranslateDBError(err)
	}
	// 新选项要成为正确答案时走原子换位，避免多选项同时带标志
	if req.IsCorrect {
		if err := s.McqRepo.SetCorrectChoice(req.QuestionID, c.ID); err != nil {
			return nil, err
		}
		c.IsCorrect = true
	}
	return c, nil
}

func (s *QuestionService) UpdateMcqChoice(id uint, label, content string) (*model.McqChoice, error) {
	c, err := s.McqRepo.FindChoiceByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	c.Label = label
	c.Content = content
	if err := s.McqRepo.UpdateChoice(c); err != nil {
		return nil, err
	}
	return c, nil
}

// SetCorrectChoice 把正确标志移到指定选项，同题其余选项标志被清除
func (s *QuestionService) SetCorrectChoice(questionID, choiceID uint) error {
	c, err := s.McqRepo.FindChoiceByID(choiceID)
	if err != nil {
		return util.TranslateDBError(err)
	}
	if c.QuestionID != questionID {
		return util.ValidationErrorf("choice %d does not belong to question %d", choiceID, questionID)
	}
	return s.McqRepo.SetCorrectChoice(questionID, choiceID)
}

func (s *QuestionService) DeleteMcqChoice(id uint) error {
	c, err := s.McqRepo.FindChoiceByID(id)
	if err != nil {
		return util.TranslateDBError(err)
	}
	if c.IsCorrect {
		return util.Conflictf("choice %d is the flagged correct answer, reassign before deleting", id)
	}
	return s.McqRepo.DeleteChoice(id)
}

// ---------- 故事复述 ----------

type RetellItemRequest struct {
	ExamModuleID uint   `json:"examModuleId" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
	Title        string `json:"title"`
	StoryText    string `json:"storyText"`
	AudioAssetID *uint  `json:"audioAssetId"`
	Difficulty   string `json:"difficulty"`
}

func (s *QuestionService) CreateRetellItem(req RetellItemRequest) (*model.RetellItem, error) {
	if _, err := s.requireModule(req.ExamModuleID, model.ModuleStoryRetell); err != nil {
		return nil, err
	}
	item := &model.RetellItem{
		ExamModuleID: req.ExamModuleID,
		DisplayOrder: req.DisplayOrder,
		Title:        req.Title,
		StoryText:    req.StoryText,
		AudioAssetID: req.AudioAssetID,
		Difficulty:   req.Difficulty,
	}
	if err := s.RetellRepo.CreateItem(item); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return item, nil
}

func (s *QuestionService) GetRetellItem(id uint) (*model.RetellItem, error) {
	item, err := s.RetellRepo.FindItemByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return item, nil
}

func (s *QuestionService) ListRetellItems(moduleID uint) ([]model.RetellItem, error) {
	if _, err := s.requireModule(moduleID, model.ModuleStoryRetell); err != nil {
		return nil, err
	}
	return s.RetellRepo.ListItemsByModule(moduleID)
}

func (s *QuestionService) UpdateRetellItem(id uint, req RetellItemRequest) (*model.RetellItem, error) {
	item, err := s.RetellRepo.FindItemByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	item.DisplayOrder = req.DisplayOrder
	item.Title = req.Title
	item.StoryText = req.StoryText
	item.AudioAssetID = req.AudioAssetID
	item.Difficulty = req.Difficulty
	if err := s.RetellRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *QuestionService) DeleteRetellItem(id uint) error {
	if _, err := s.RetellRepo.FindItemByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.RetellRepo.DeleteItem(id)
}

// ---------- 听力简答 ----------

type LsaDialogRequest struct {
	ExamModuleID uint   `json:"examModuleId" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
	Title        string `json:"title"`
	AudioAssetID *uint  `json:"audioAssetId"`
	Difficulty   string `json:"difficulty"`
}

type LsaQuestionRequest struct {
	DialogID        uint   `json:"dialogId" binding:"required"`
	QOrder          int    `json:"qOrder"`
	Content         string `json:"content" binding:"required"`
	ReferenceAnswer string `json:"referenceAnswer"`
	AnswerSeconds   int    `json:"answerSeconds"`
}

func (s *QuestionService) CreateLsaDialog(req LsaDialogRequest) (*model.LsaDialog, error) {
	if _, err := s.requireModule(req.ExamModuleID, model.ModuleListeningSa); err != nil {
		return nil, err
	}
	d := &model.LsaDialog{
		ExamModuleID: req.ExamModuleID,
		DisplayOrder: req.DisplayOrder,
		Title:        req.Title,
		AudioAssetID: req.AudioAssetID,
		Difficulty:   req.Difficulty,
	}
	if err := s.LsaRepo.CreateDialog(d); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return d, nil
}

func (s *QuestionService) GetLsaDialog(id uint) (*model.LsaDialog, error) {
	d, err := s.LsaRepo.FindDialogByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return d, nil
}

func (s *QuestionService) ListLsaDialogs(moduleID uint) ([]model.LsaDialog, error) {
	if _, err := s.requireModule(moduleID, model.ModuleListeningSa); err != nil {
		return nil, err
	}
	return s.LsaRepo.ListDialogsByModule(moduleID)
}

func (s *QuestionService) UpdateLsaDialog(id uint, req LsaDialogRequest) (*model.LsaDialog, error) {
	d, err := s.LsaRepo.FindDialogByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	d.DisplayOrder = req.DisplayOrder
	d.Title = req.Title
	d.AudioAssetID = req.AudioAssetID
	d.Difficulty = req.Difficulty
	if err := s.LsaRepo.UpdateDialog(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *QuestionService) DeleteLsaDialog(id uint) error {
	if _, err := s.LsaRepo.FindDialogByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.LsaRepo.DeleteDialog(id)
}

func (s *QuestionService) AddLsaQuestion(req LsaQuestionRequest) (*model.LsaQuestion, error) {
	if _, err := s.LsaRepo.FindDialogByID(req.DialogID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	q := &model.LsaQuestion{
		DialogID:        req.DialogID,
		QOrder:          req.QOrder,
		Content:         req.Content,
		ReferenceAnswer: req.ReferenceAnswer,
		AnswerSeconds:   req.AnswerSeconds,
	}
	if err := s.LsaRepo.CreateQuestion(q); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return q, nil
}

func (s *QuestionService) UpdateLsaQuestion(id uint, req LsaQuestionRequest) (*model.LsaQuestion, error) {
	q, err := s.LsaRepo.FindQuestionByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	q.QOrder = req.QOrder
	q.Content = req.Content
	q.ReferenceAnswer = req.ReferenceAnswer
	q.AnswerSeconds = req.AnswerSeconds
	if err := s.LsaRepo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteLsaQuestion(id uint) error {
	if _, err := s.LsaRepo.FindQuestionByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.LsaRepo.DeleteQuestion(id)
}

// ---------- 陆空通话模拟 ----------

type AtcScenarioRequest struct {
	ExamModuleID uint   `json:"examModuleId" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
	Title        string `json:"title"`
	Background   string `json:"background"`
	Difficulty   string `json:"difficulty"`
}

type AtcTurnRequest struct {
	ScenarioID      uint   `json:"scenarioId" binding:"required"`
	TurnNumber      int    `json:"turnNumber"`
	Speaker         string `json:"speaker"`
	Prompt          string `json:"prompt" binding:"required"`
	AudioAssetID    *uint  `json:"audioAssetId"`
	ExpectedReply   string `json:"expectedReply"`
	ResponseSeconds int    `json:"responseSeconds"`
}

func (s *QuestionService) CreateAtcScenario(req AtcScenarioRequest) (*model.AtcScenario, error) {
	if _, err := s.requireModule(req.ExamModuleID, model.ModuleAtcSim); err != nil {
		return nil, err
	}
	sc := &model.AtcScenario{
		ExamModuleID: req.ExamModuleID,
		DisplayOrder: req.DisplayOrder,
		Title:        req.Title,
		Background:   req.Background,
		Difficulty:   req.Difficulty,
	}
	if err := s.AtcRepo.CreateScenario(sc); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return sc, nil
}

func (s *QuestionService) GetAtcScenario(id uint) (*model.AtcScenario, error) {
	sc, err := s.AtcRepo.FindScenarioByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return sc, nil
}

func (s *QuestionService) ListAtcScenarios(moduleID uint) ([]model.AtcScenario, error) {
	if _, err := s.requireModule(moduleID, model.ModuleAtcSim); err != nil {
		return nil, err
	}
	return s.AtcRepo.ListScenariosByModule(moduleID)
}

func (s *QuestionService) UpdateAtcScenario(id uint, req AtcScenarioRequest) (*model.AtcScenario, error) {
	sc, err := s.AtcRepo.FindScenarioByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	sc.DisplayOrder = req.DisplayOrder
	sc.Title = req.Title
	sc.Background = req.Background
	sc.Difficulty = req.Difficulty
	if err := s.AtcRepo.UpdateScenario(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *QuestionService) DeleteAtcScenario(id uint) error {
	if _, err := s.AtcRepo.FindScenarioByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.AtcRepo.DeleteScenario(id)
}

func (s *QuestionService) AddAtcTurn(req AtcTurnRequest) (*model.AtcTurn, error) {
	if _, err := s.AtcRepo.FindScenarioByID(req.ScenarioID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	t := &model.AtcTurn{
		ScenarioID:      req.ScenarioID,
		TurnNumber:      req.TurnNumber,
		Speaker:         req.Speaker,
		Prompt:          req.Prompt,
		AudioAssetID:    req.AudioAssetID,
		ExpectedReply:   req.ExpectedReply,
		ResponseSeconds: req.ResponseSeconds,
	}
	if err := s.AtcRepo.CreateTurn(t); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return t, nil
}

func (s *QuestionService) UpdateAtcTurn(id uint, req AtcTurnRequest) (*model.AtcTurn, error) {
	t, err := s.AtcRepo.FindTurnByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	t.TurnNumber = req.TurnNumber
	t.Speaker = req.Speaker
	t.Prompt = req.Prompt
	t.AudioAssetID = req.AudioAssetID
	t.ExpectedReply = req.ExpectedReply
	t.ResponseSeconds = req.ResponseSeconds
	if err := s.AtcRepo.UpdateTurn(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *QuestionService) DeleteAtcTurn(id uint) error {
	if _, err := s.AtcRepo.FindTurnByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.AtcRepo.DeleteTurn(id)
}

// ---------- 口语面试 ----------

type OpiTopicRequest struct {
	ExamModuleID uint   `json:"examModuleId" binding:"required"`
	DisplayOrder int    `json:"displayOrder"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Difficulty   string `json:"difficulty"`
}

type OpiQuestionRequest struct {
	TopicID       uint   `json:"topicId" binding:"required"`
	QOrder        int    `json:"qOrder"`
	Content       string `json:"content" binding:"required"`
	AnswerSeconds int    `json:"answerSeconds"`
	ScoringRubric string `json:"scoringRubric"`
}

func (s *QuestionService) CreateOpiTopic(req OpiTopicRequest) (*model.OpiTopic, error) {
	if _, err := s.requireModule(req.ExamModuleID, model.ModuleOpi); err != nil {
		return nil, err
	}
	t := &model.OpiTopic{
		ExamModuleID: req.ExamModuleID,
		DisplayOrder: req.DisplayOrder,
		Title:        req.Title,
		Description:  req.Description,
		Difficulty:   req.Difficulty,
	}
	if err := s.OpiRepo.CreateTopic(t); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return t, nil
}

func (s *QuestionService) GetOpiTopic(id uint) (*model.OpiTopic, error) {
	t, err := s.OpiRepo.FindTopicByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return t, nil
}

func (s *QuestionService) ListOpiTopics(moduleID uint) ([]model.OpiTopic, error) {
	if _, err := s.requireModule(moduleID, model.ModuleOpi); err != nil {
		return nil, err
	}
	return s.OpiRepo.ListTopicsByModule(moduleID)
}

func (s *QuestionService) UpdateOpiTopic(id uint, req OpiTopicRequest) (*model.OpiTopic, error) {
	t, err := s.OpiRepo.FindTopicByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	t.DisplayOrder = req.DisplayOrder
	t.Title = req.Title
	t.Description = req.Description
	t.Difficulty = req.Difficulty
	if err := s.OpiRepo.UpdateTopic(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *QuestionService) DeleteOpiTopic(id uint) error {
	if _, err := s.OpiRepo.FindTopicByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.OpiRepo.DeleteTopic(id)
}

func (s *QuestionService) AddOpiQuestion(req OpiQuestionRequest) (*model.OpiQuestion, error) {
	if _, err := s.OpiRepo.FindTopicByID(req.TopicID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	q := &model.OpiQuestion{
		TopicID:       req.TopicID,
		QOrder:        req.QOrder,
		Content:       req.Content,
		AnswerSeconds: req.AnswerSeconds,
		ScoringRubric: req.ScoringRubric,
	}
	if err := s.OpiRepo.CreateQuestion(q); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return q, nil
}

func (s *QuestionService) UpdateOpiQuestion(id uint, req OpiQuestionRequest) (*model.OpiQuestion, error) {
	q, err := s.OpiRepo.FindQuestionByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	q.QOrder = req.QOrder
	q.Content = req.Content
	q.AnswerSeconds = req.AnswerSeconds
	q.ScoringRubric = req.ScoringRubric
	if err := s.OpiRepo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteOpiQuestion(id uint) error {
	if _, err := s.OpiRepo.FindQuestionByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	return s.OpiRepo.DeleteQuestion(id)
}
