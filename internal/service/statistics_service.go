package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"
)

const systemStatsCacheKey = "avex:stats:system"

// ChoiceCount 选项命中分布的一项
type ChoiceCount struct {
	ChoiceID uint   `json:"choiceId"`
	Label    string `json:"label"`
	Count    int64  `json:"count"`
}

// QuestionStats 单题维度统计。客观题给正确率与选项分布，主观题给分数分布。
// 分母为零时比率类指标为 null，不输出 0 以免误读。
type QuestionStats struct {
	QuestionID     uint             `json:"questionId"`
	ModuleType     model.ModuleType `json:"moduleType"`
	TotalResponses int64            `json:"totalResponses"`
	GradedCount    int64            `json:"gradedCount"`

	CorrectCount       *int64        `json:"correctCount,omitempty"`
	Accuracy           *float64      `json:"accuracy,omitempty"`
	ObservedDifficulty string        `json:"observedDifficulty,omitempty"`
	ChoiceDistribution []ChoiceCount `json:"choiceDistribution,omitempty"`

	AvgScore *float64 `json:"avgScore,omitempty"`
	MinScore *float64 `json:"minScore,omitempty"`
	MaxScore *float64 `json:"maxScore,omitempty"`

	// 平均作答耗时（毫秒），含未判分作答，无作答时为 null
	AvgElapsedMs *float64 `json:"avgElapsedMs,omitempty"`
}

// ModuleStats 模块维度统计，聚合模块下全部题目的作答。
// 客观题模块另给判对/判错计数，判错 = 已判分 - 判对。
type ModuleStats struct {
	ExamModuleID   uint             `json:"examModuleId"`
	ModuleType     model.ModuleType `json:"moduleType"`
	QuestionCount  int64            `json:"questionCount"`
	TotalResponses int64            `json:"totalResponses"`
	GradedCount    int64            `json:"gradedCount"`
	CorrectCount   *int64           `json:"correctCount,omitempty"`
	IncorrectCount *int64           `json:"incorrectCount,omitempty"`
	Accuracy       *float64         `json:"accuracy,omitempty"`
	AvgScore       *float64         `json:"avgScore,omitempty"`
}

// ModuleTypeStats 某一模块类型在全系统范围内的聚合
type ModuleTypeStats struct {
	ModuleType     model.ModuleType `json:"moduleType"`
	TotalResponses int64            `json:"totalResponses"`
	GradedCount    int64            `json:"gradedCount"`
	Accuracy       *float64         `json:"accuracy,omitempty"`
	AvgScore       *float64         `json:"avgScore,omitempty"`
}

// SystemStats 全系统统计快照
type SystemStats struct {
	ByModuleType   []ModuleTypeStats `json:"byModuleType"`
	TotalResponses int64             `json:"totalResponses"`
	TotalGraded    int64             `json:"totalGraded"`
	GeneratedAt    time.Time         `json:"generatedAt"`
}

// StatisticsService 题目/模块/全系统三个粒度的统计聚合。
// Redis 非空时系统级快照走缓存，聚合 SQL 保持 MySQL 与 sqlite 双方言可用。
type StatisticsService struct {
	DB         *gorm.DB
	ModuleRepo *repository.ExamModuleRepository
	Redis      *redis.Client
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

func NewStatisticsService(db *gorm.DB, moduleRepo *repository.ExamModuleRepository, rdb *redis.Client, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		DB:         db,
		ModuleRepo: moduleRepo,
		Redis:      rdb,
		CacheTTL:   5 * time.Minute,
		Logger:     logger,
	}
}

type objectiveAgg struct {
	Total        int64
	Graded       int64
	Correct      int64
	AvgElapsedMs *float64
}

type subjectiveAgg struct {
	Total        int64
	Graded       int64
	AvgScore     *float64
	MinScore     *float64
	MaxScore     *float64
	AvgElapsedMs *float64
}

func ratio(numerator, denominator int64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := float64(numerator) / float64(denominator)
	return &v
}

// observedDifficulty 按实测正确率标定难度，无判分数据时不标定
func observedDifficulty(accuracy *float64) string {
	switch {
	case accuracy == nil:
		return ""
	case *accuracy >= 0.75:
		return "EASY"
	case *accuracy >= 0.4:
		return "MEDIUM"
	}
	return "HARD"
}

func (s *StatisticsService) objectiveAggregate(questionIDs []uint) (*objectiveAgg, error) {
	var agg objectiveAgg
	if len(questionIDs) == 0 {
		return &agg, nil
	}
	err := s.DB.Model(&model.McqResponse{}).
		Select("COUNT(*) AS total, COUNT(is_correct) AS graded, COALESCE(SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END), 0) AS correct, AVG(elapsed_ms) AS avg_elapsed_ms").
		Where("question_id IN ?", questionIDs).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (s *StatisticsService) subjectiveAggregate(respModel interface{}, fkColumn string, questionIDs []uint) (*subjectiveAgg, error) {
	var agg subjectiveAgg
	if len(questionIDs) == 0 {
		return &agg, nil
	}
	err := s.DB.Model(respModel).
		Select("COUNT(*) AS total, COUNT(score) AS graded, AVG(score) AS avg_score, MIN(score) AS min_score, MAX(score) AS max_score, AVG(elapsed_ms) AS avg_elapsed_ms").
		Where(fkColumn+" IN ?", questionIDs).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

// subjectiveFamilies 四个主观题族的响应表与外键列
var subjectiveFamilies = map[model.ModuleType]struct {
	respModel interface{}
	fkColumn  string
}{
	model.ModuleStoryRetell: {&model.RetellResponse{}, "item_id"},
	model.ModuleListeningSa: {&model.LsaResponse{}, "question_id"},
	model.ModuleAtcSim:      {&model.AtcTurnResponse{}, "turn_id"},
	model.ModuleOpi:         {&model.OpiResponse{}, "question_id"},
}

// GetQuestionStats 单题统计。questionID 在 ATC 下指轮次，LSA/OPI 下指小题。
func (s *StatisticsService) GetQuestionStats(moduleType model.ModuleType, questionID uint) (*QuestionStats, error) {
	if !moduleType.Valid() {
		return nil, util.ValidationErrorf("invalid module type %q", moduleType)
	}
	if err := s.verifyQuestionExists(moduleType, questionID); err != nil {
		return nil, err
	}

	stats := &QuestionStats{QuestionID: questionID, ModuleType: moduleType}
	if moduleType == model.ModuleListeningMcq {
		agg, err := s.objectiveAggregate([]uint{questionID})
		if err != nil {
			return nil, err
		}
		stats.TotalResponses = agg.Total
		stats.GradedCount = agg.Graded
		stats.CorrectCount = &agg.Correct
		stats.Accuracy = ratio(agg.Correct, agg.Graded)
		stats.ObservedDifficulty = observedDifficulty(stats.Accuracy)
		stats.AvgElapsedMs = agg.AvgElapsedMs

		dist, err := s.choiceDistribution(questionID)
		if err != nil {
			return nil, err
		}
		stats.ChoiceDistribution = dist
		return stats, nil
	}

	family := subjectiveFamilies[moduleType]
	agg, err := s.subjectiveAggregate(family.respModel, family.fkColumn, []uint{questionID})
	if err != nil {
		return nil, err
	}
	stats.TotalResponses = agg.Total
	stats.GradedCount = agg.Graded
	stats.AvgScore = agg.AvgScore
	stats.MinScore = agg.MinScore
	stats.MaxScore = agg.MaxScore
	stats.AvgElapsedMs = agg.AvgElapsedMs
	return stats, nil
}

func (s *StatisticsService) choiceDistribution(questionID uint) ([]ChoiceCount, error) {
	var rows []ChoiceCount
	err := s.DB.Model(&model.McqResponse{}).
		Select("mcq_responses.selected_choice_id AS choice_id, mcq_choices.label AS label, COUNT(*) AS count").
		Joins("JOIN mcq_choices ON mcq_choices.id = mcq_responses.selected_choice_id").
		Where("mcq_responses.question_id = ?", questionID).
		Group("mcq_responses.selected_choice_id, mcq_choices.label").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *StatisticsService) verifyQuestionExists(moduleType model.ModuleType, questionID uint) error {
	var questionModel interface{}
	switch moduleType {
	case model.ModuleListeningMcq:
		questionModel = &model.McqQuestion{}
	case model.ModuleStoryRetell:
		questionModel = &model.RetellItem{}
	case model.ModuleListeningSa:
		questionModel = &model.LsaQuestion{}
	case model.ModuleAtcSim:
		questionModel = &model.AtcTurn{}
	case model.ModuleOpi:
		questionModel = &model.OpiQuestion{}
	}
	var count int64
	if err := s.DB.Model(questionModel).Where("id = ?", questionID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return util.NotFoundf("question %d of type %s not found", questionID, moduleType)
	}
	return nil
}

// questionIDsForModule 展开模块下全部题目 id。LSA/ATC/OPI 的题目挂在
// 中间层（对话/场景/话题）之下，需要一次 join。
func (s *StatisticsService) questionIDsForModule(m *model.ExamModule) ([]uint, error) {
	var ids []uint
	var err error
	switch m.ModuleType {
	case model.ModuleListeningMcq:
		err = s.DB.Model(&model.McqQuestion{}).
			Where("exam_module_id = ?", m.ID).
			Pluck("id", &ids).Error
	case model.ModuleStoryRetell:
		err = s.DB.Model(&model.RetellItem{}).
			Where("exam_module_id = ?", m.ID).
			Pluck("id", &ids).Error
	case model.ModuleListeningSa:
		err = s.DB.Model(&model.LsaQuestion{}).
			Joins("JOIN lsa_dialogs ON lsa_dialogs.id = lsa_questions.dialog_id").
			Where("lsa_dialogs.exam_module_id = ? AND lsa_dialogs.deleted_at IS NULL", m.ID).
			Pluck("lsa_questions.id", &ids).Error
	case model.ModuleAtcSim:
		err = s.DB.Model(&model.AtcTurn{}).
			Joins("JOIN atc_scenarios ON atc_scenarios.id = atc_turns.scenario_id").
			Where("atc_scenarios.exam_module_id = ? AND atc_scenarios.deleted_at IS NULL", m.ID).
			Pluck("atc_turns.id", &ids).Error
	case model.ModuleOpi:
		err = s.DB.Model(&model.OpiQuestion{}).
			Joins("JOIN opi_topics ON opi_topics.id = opi_questions.topic_id").
			Where("opi_topics.exam_module_id = ? AND opi_topics.deleted_at IS NULL", m.ID).
			Pluck("opi_questions.id", &ids).Error
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetModuleStats 模块维度统计
func (s *StatisticsService) GetModuleStats(moduleID uint) (*ModuleStats, error) {
	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	ids, err := s.questionIDsForModule(m)
	if err != nil {
		return nil, err
	}

	stats := &ModuleStats{
		ExamModuleID:  m.ID,
		ModuleType:    m.ModuleType,
		QuestionCount: int64(len(ids)),
	}
	if m.ModuleType == model.ModuleListeningMcq {
		agg, err := s.objectiveAggregate(ids)
		if err != nil {
			return nil, err
		}
		stats.TotalResponses = agg.Total
		stats.GradedCount = agg.Graded
		stats.CorrectCount = &agg.Correct
		incorrect := agg.Graded - agg.Correct
		stats.IncorrectCount = &incorrect
		stats.Accuracy = ratio(agg.Correct, agg.Graded)
		return stats, nil
	}

	family := subjectiveFamilies[m.ModuleType]
	agg, err := s.subjectiveAggregate(family.respModel, family.fkColumn, ids)
	if err != nil {
		return nil, err
	}
	stats.TotalResponses = agg.Total
	stats.GradedCount = agg.Graded
	stats.AvgScore = agg.AvgScore
	return stats, nil
}

// GetSystemStats 全系统统计。Redis 可用时最多滞后 CacheTTL。
func (s *StatisticsService) GetSystemStats(ctx context.Context) (*SystemStats, error) {
	if s.Redis != nil {
		raw, err := s.Redis.Get(ctx, systemStatsCacheKey).Bytes()
		if err == nil {
			var cached SystemStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil && s.Logger != nil {
			s.Logger.Warn("system stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.computeSystemStats()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(ctx, systemStatsCacheKey, raw, s.CacheTTL).Err(); err != nil && s.Logger != nil {
				s.Logger.Warn("system stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

// InvalidateSystemStats 数据变更后主动失效缓存
func (s *StatisticsService) InvalidateSystemStats(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, systemStatsCacheKey).Err(); err != nil && s.Logger != nil {
		s.Logger.Warn("system stats cache invalidation failed", zap.Error(err))
	}
}

func (s *StatisticsService) computeSystemStats() (*SystemStats, error) {
	stats := &SystemStats{
		ByModuleType: make([]ModuleTypeStats, 0, len(model.AllModuleTypes)),
		GeneratedAt:  time.Now(),
	}

	var mcqAgg objectiveAgg
	err := s.DB.Model(&model.McqResponse{}).
		Select("COUNT(*) AS total, COUNT(is_correct) AS graded, COALESCE(SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END), 0) AS correct").
		Scan(&mcqAgg).Error
	if err != nil {
		return nil, err
	}
	stats.ByModuleType = append(stats.ByModuleType, ModuleTypeStats{
		ModuleType:     model.ModuleListeningMcq,
		TotalResponses: mcqAgg.Total,
		GradedCount:    mcqAgg.Graded,
		Accuracy:       ratio(mcqAgg.Correct, mcqAgg.Graded),
	})
	stats.TotalResponses += mcqAgg.Total
	stats.TotalGraded += mcqAgg.Graded

	for _, mt := range model.AllModuleTypes {
		family, ok := subjectiveFamilies[mt]
		if !ok {
			continue
		}
		var agg subjectiveAgg
		err := s.DB.Model(family.respModel).
			Select("COUNT(*) AS total, COUNT(score) AS graded, AVG(score) AS avg_score").
			Scan(&agg).Error
		if err != nil {
			return nil, err
		}
		stats.ByModuleType = append(stats.ByModuleType, ModuleTypeStats{
			ModuleType:     mt,
			TotalResponses: agg.Total,
			GradedCount:    agg.Graded,
			AvgScore:       agg.AvgScore,
		})
		stats.TotalResponses += agg.Total
		stats.TotalGraded += agg.Graded
	}
	return stats, nil
}
