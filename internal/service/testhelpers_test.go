package service

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// 内存库与连接一一对应，连接池必须收敛到单连接
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.ExamPaper{},
		&model.ExamModule{},
		&model.McqQuestion{},
		&model.McqChoice{},
		&model.McqResponse{},
		&model.RetellItem{},
		&model.RetellResponse{},
		&model.LsaDialog{},
		&model.LsaQuestion{},
		&model.LsaResponse{},
		&model.AtcScenario{},
		&model.AtcTurn{},
		&model.AtcTurnResponse{},
		&model.OpiTopic{},
		&model.OpiQuestion{},
		&model.OpiResponse{},
		&model.ExamRecord{},
		&model.MediaAsset{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var paperSeq uint64

func seedPaper(t *testing.T, db *gorm.DB) *model.ExamPaper {
	t.Helper()
	paper := &model.ExamPaper{
		Code:             fmt.Sprintf("ICAO4-%03d", atomic.AddUint64(&paperSeq, 1)),
		Name:             "民航英语等级测试",
		TotalDurationMin: 90,
	}
	if err := db.Create(paper).Error; err != nil {
		t.Fatalf("seed paper: %v", err)
	}
	return paper
}

func seedModule(t *testing.T, db *gorm.DB, paperID uint, moduleType model.ModuleType, order int) *model.ExamModule {
	t.Helper()
	m := &model.ExamModule{
		ExamPaperID:  paperID,
		ModuleType:   moduleType,
		DisplayOrder: order,
		IsActive:     true,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed module: %v", err)
	}
	return m
}

// seedMcqQuestion 两个选项，A 为正确答案
func seedMcqQuestion(t *testing.T, db *gorm.DB, moduleID uint) (*model.McqQuestion, *model.McqChoice, *model.McqChoice) {
	t.Helper()
	q := &model.McqQuestion{
		ExamModuleID: moduleID,
		Content:      "What does the controller instruct the pilot to do?",
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed mcq question: %v", err)
	}
	correct := &model.McqChoice{QuestionID: q.ID, Label: "A", Content: "Hold short of runway 27", IsCorrect: true}
	wrong := &model.McqChoice{QuestionID: q.ID, Label: "B", Content: "Line up and wait"}
	if err := db.Create(correct).Error; err != nil {
		t.Fatalf("seed choice: %v", err)
	}
	if err := db.Create(wrong).Error; err != nil {
		t.Fatalf("seed choice: %v", err)
	}
	return q, correct, wrong
}

func seedRetellItem(t *testing.T, db *gorm.DB, moduleID uint, storyText string) *model.RetellItem {
	t.Helper()
	item := &model.RetellItem{
		ExamModuleID: moduleID,
		Title:        "Diversion due to weather",
		StoryText:    storyText,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed retell item: %v", err)
	}
	return item
}

func seedOpiQuestion(t *testing.T, db *gorm.DB, moduleID uint, rubric string) *model.OpiQuestion {
	t.Helper()
	topic := &model.OpiTopic{ExamModuleID: moduleID, Title: "Abnormal situations"}
	if err := db.Create(topic).Error; err != nil {
		t.Fatalf("seed opi topic: %v", err)
	}
	q := &model.OpiQuestion{
		TopicID:       topic.ID,
		Content:       "Describe a situation where you had to declare an emergency.",
		ScoringRubric: rubric,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed opi question: %v", err)
	}
	return q
}

// stubScorer 固定返回值的评分桩
type stubScorer struct {
	score float64
	err   error
}

func (s stubScorer) Score(kind, reference, answer string) (float64, json.RawMessage, error) {
	if s.err != nil {
		return 0, nil, s.err
	}
	detail, _ := json.Marshal(map[string]string{"scoredBy": "stub", "kind": kind})
	return s.score, detail, nil
}

func newGradingService(db *gorm.DB, scorer AutoScorer) *GradingService {
	return NewGradingService(
		repository.NewMcqRepository(db),
		repository.NewRetellRepository(db),
		repository.NewLsaRepository(db),
		repository.NewAtcRepository(db),
		repository.NewOpiRepository(db),
		scorer,
		db,
	)
}

func newModuleService(db *gorm.DB) *ModuleService {
	return NewModuleService(repository.NewExamPaperRepository(db), repository.NewExamModuleRepository(db), db)
}

func newRecordService(db *gorm.DB) *ExamRecordService {
	return NewExamRecordService(repository.NewExamRecordRepository(db), repository.NewExamPaperRepository(db), db)
}

func newStatsService(db *gorm.DB) *StatisticsService {
	return NewStatisticsService(db, repository.NewExamModuleRepository(db), nil, nil)
}
