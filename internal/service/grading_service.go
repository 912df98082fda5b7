package service

import (
	"encoding/json"
	"time"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"
	"aviation_exam_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// ResponseView 五类作答对外的统一视图
type ResponseView struct {
	ID         uint             `json:"id"`
	ModuleType model.ModuleType `json:"moduleType"`
	QuestionID uint             `json:"questionId"`
	UserID     uint             `json:"userId"`
	AnsweredAt time.Time        `json:"answeredAt"`
	ElapsedMs  int              `json:"elapsedMs"`
	Graded     bool             `json:"graded"`
	IsCorrect  *bool            `json:"isCorrect,omitempty"` // 仅客观题
	Score      *float64         `json:"score,omitempty"`     // 仅主观题
	Detail     json.RawMessage  `json:"detail,omitempty"`
}

// SubmitRequest 提交作答。questionId 在 ATC 下指轮次 id，LSA/OPI 下指小题 id。
type SubmitRequest struct {
	ModuleType       model.ModuleType `json:"moduleType" binding:"required"`
	QuestionID       uint             `json:"questionId" binding:"required"`
	SelectedChoiceID uint             `json:"selectedChoiceId"` // LISTENING_MCQ
	AudioAssetID     *uint            `json:"audioAssetId"`     // 主观题录音
	AsrText          string           `json:"asrText"`
	ElapsedMs        int              `json:"elapsedMs"`
}

type BatchGradeItem struct {
	ResponseID uint            `json:"responseId" binding:"required"`
	Score      float64         `json:"score"`
	Detail     json.RawMessage `json:"detail"`
}

// BatchResult 批量判分按条上报结果，不做整体事务
type BatchResult struct {
	ResponseID uint          `json:"responseId"`
	Error      string        `json:"error,omitempty"`
	Response   *ResponseView `json:"response,omitempty"`
}

// familyOps 模块类型到具体题族操作的分发表项
type familyOps struct {
	submit         func(userID uint, req SubmitRequest) (*ResponseView, error)
	score          func(responseID uint, score float64, detail json.RawMessage) (*ResponseView, error)
	autoScore      func(responseID uint) (*ResponseView, error)
	find           func(responseID uint) (*ResponseView, error)
	listByQuestion func(questionID uint) ([]ResponseView, error)
}

// GradingService 判分引擎：客观题比对、主观题打分、批量操作
type GradingService struct {
	McqRepo    *repository.McqRepository
	RetellRepo *repository.RetellRepository
	LsaRepo    *repository.LsaRepository
	AtcRepo    *repository.AtcRepository
	OpiRepo    *repository.OpiRepository
	Scorer     AutoScorer
	DB         *gorm.DB

	registry map[model.ModuleType]*familyOps
}

func NewGradingService(
	mcqRepo *repository.McqRepository,
	retellRepo *repository.RetellRepository,
	lsaRepo *repository.LsaRepository,
	atcRepo *repository.AtcRepository,
	opiRepo *repository.OpiRepository,
	scorer AutoScorer,
	db *gorm.DB,
) *GradingService {
	s := &GradingService{
		McqRepo:    mcqRepo,
		RetellRepo: retellRepo,
		LsaRepo:    lsaRepo,
		AtcRepo:    atcRepo,
		OpiRepo:    opiRepo,
		Scorer:     scorer,
		DB:         db,
	}
	s.registry = map[model.ModuleType]*familyOps{
		model.ModuleListeningMcq: {
			submit:         s.submitMcq,
			score:          s.scoreMcq,
			autoScore:      s.autoScoreMcq,
			find:           s.findMcq,
			listByQuestion: s.listMcqByQuestion,
		},
		model.ModuleStoryRetell: {
			submit:         s.submitRetell,
			score:          s.scoreRetell,
			autoScore:      s.autoScoreRetell,
			find:           s.findRetell,
			listByQuestion: s.listRetellByItem,
		},
		model.ModuleListeningSa: {
			submit:         s.submitLsa,
			score:          s.scoreLsa,
			autoScore:      s.autoScoreLsa,
			find:           s.findLsa,
			listByQuestion: s.listLsaByQuestion,
		},
		model.ModuleAtcSim: {
			submit:         s.submitAtc,
			score:          s.scoreAtc,
			autoScore:      s.autoScoreAtc,
			find:           s.findAtc,
			listByQuestion: s.listAtcByTurn,
		},
		model.ModuleOpi: {
			submit:         s.submitOpi,
			score:          s.scoreOpi,
			autoScore:      s.autoScoreOpi,
			find:           s.findOpi,
			listByQuestion: s.listOpiByQuestion,
		},
	}
	return s
}

func (s *GradingService) ops(moduleType model.ModuleType) (*familyOps, error) {
	ops, ok := s.registry[moduleType]
	if !ok {
		return nil, util.ValidationErrorf("invalid module type %q", moduleType)
	}
	return ops, nil
}

// SubmitResponse 提交一条作答，落库为未判分状态
func (s *GradingService) SubmitResponse(userID uint, req SubmitRequest) (*ResponseView, error) {
	ops, err := s.ops(req.ModuleType)
	if err != nil {
		return nil, err
	}
	if req.QuestionID == 0 {
		return nil, util.ValidationErrorf("questionId required")
	}
	if req.ElapsedMs < 0 {
		return nil, util.ValidationErrorf("elapsedMs must not be negative")
	}
	view, err := ops.submit(userID, req)
	if err != nil {
		return nil, err
	}
	monitoring.ResponsesSubmitted.WithLabelValues(string(req.ModuleType)).Inc()
	return view, nil
}

// ScoreResponse 人工赋分。分数越界按边界截断，score 与 detail 一次写入。
func (s *GradingService) ScoreResponse(moduleType model.ModuleType, responseID uint, score float64, detail json.RawMessage) (*ResponseView, error) {
	ops, err := s.ops(moduleType)
	if err != nil {
		return nil, err
	}
	view, err := ops.score(responseID, clampScore(score), detail)
	if err != nil {
		return nil, err
	}
	monitoring.ResponsesGraded.WithLabelValues(string(moduleType), "manual").Inc()
	return view, nil
}

// AutoScoreResponse 自动判分：客观题按当前正确标志比对，主观题委托外部评分服务
func (s *GradingService) AutoScoreResponse(moduleType model.ModuleType, responseID uint) (*ResponseView, error) {
	ops, err := s.ops(moduleType)
	if err != nil {
		return nil, err
	}
	view, err := ops.autoScore(responseID)
	if err != nil {
		return nil, err
	}
	monitoring.ResponsesGraded.WithLabelValues(string(moduleType), "auto").Inc()
	return view, nil
}

func (s *GradingService) GetResponse(moduleType model.ModuleType, responseID uint) (*ResponseView, error) {
	ops, err := s.ops(moduleType)
	if err != nil {
		return nil, err
	}
	return ops.find(responseID)
}

func (s *GradingService) ListResponsesByQuestion(moduleType model.ModuleType, questionID uint) ([]ResponseView, error) {
	ops, err := s.ops(moduleType)
	if err != nil {
		return nil, err
	}
	return ops.listByQuestion(questionID)
}

// BatchGradeResponses 逐条赋分，失败按 id 单独上报，不整体回滚
func (s *GradingService) BatchGradeResponses(moduleType model.ModuleType, items []BatchGradeItem) ([]BatchResult, error) {
	ops, err := s.ops(moduleType)
	if err != nil {
		return nil, err
	}
	results := make([]BatchResult, 0, len(items))
	for _, item := range items {
		view, err := ops.score(item.ResponseID, clampScore(item.Score), item.Detail)
		if err != nil {
			results = append(results, BatchResult{ResponseID: item.ResponseID, Error: err.Error()})
			continue
		}
		monitoring.ResponsesGraded.WithLabelValues(string(moduleType), "manual").Inc()
		results = append(results, BatchResult{ResponseID: item.ResponseID, Response: view})
	}
	return results, nil
}

// GradeAllResponsesByQuestion 对某题的全部未判分作答逐条自动判分
func (s *GradingService) GradeAllResponsesByQuestion(moduleType model.ModuleType, questionID uint) ([]BatchResult, error) {
	ops, err := s.ops(moduleType)
	if err != nil {
		return nil, err
	}
	views, err := ops.listByQuestion(questionID)
	if err != nil {
		return nil, err
	}
	results := make([]BatchResult, 0, len(views))
	for _, v := range views {
		if v.Graded {
			continue
		}
		graded, err := ops.autoScore(v.ID)
		if err != nil {
			results = append(results, BatchResult{ResponseID: v.ID, Error: err.Error()})
			continue
		}
		monitoring.ResponsesGraded.WithLabelValues(string(moduleType), "auto").Inc()
		results = append(results, BatchResult{ResponseID: v.ID, Response: graded})
	}
	return results, nil
}

// clampScore 把分数截断到 [0,10]，越界取最近边界
func clampScore(score float64) float64 {
	if score < util.MinSubjectiveScore {
		return util.MinSubjectiveScore
	}
	if score > util.MaxSubjectiveScore {
		return util.MaxSubjectiveScore
	}
	return score
}
