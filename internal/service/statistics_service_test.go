package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/util"
)

func TestQuestionStatsMcq(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, correct, wrong := seedMcqQuestion(t, db, m.ID)

	now := time.Now()
	yes, no := true, false
	responses := []model.McqResponse{
		{QuestionID: q.ID, UserID: 1, SelectedChoiceID: correct.ID, AnsweredAt: now, ElapsedMs: 8000, IsCorrect: &yes, GradedAt: &now},
		{QuestionID: q.ID, UserID: 2, SelectedChoiceID: wrong.ID, AnsweredAt: now, ElapsedMs: 12000, IsCorrect: &no, GradedAt: &now},
		{QuestionID: q.ID, UserID: 3, SelectedChoiceID: wrong.ID, AnsweredAt: now, ElapsedMs: 10000}, // 未判分
	}
	for i := range responses {
		if err := db.Create(&responses[i]).Error; err != nil {
			t.Fatalf("seed response: %v", err)
		}
	}

	stats, err := svc.GetQuestionStats(model.ModuleListeningMcq, q.ID)
	if err != nil {
		t.Fatalf("question stats failed: %v", err)
	}
	if stats.TotalResponses != 3 || stats.GradedCount != 2 {
		t.Fatalf("expected total=3 graded=2, got %+v", stats)
	}
	if stats.CorrectCount == nil || *stats.CorrectCount != 1 {
		t.Fatalf("expected 1 correct, got %+v", stats.CorrectCount)
	}
	if stats.Accuracy == nil || *stats.Accuracy != 0.5 {
		t.Fatalf("expected accuracy 0.5, got %+v", stats.Accuracy)
	}
	if stats.ObservedDifficulty != "MEDIUM" {
		t.Fatalf("expected MEDIUM difficulty at 50%% accuracy, got %q", stats.ObservedDifficulty)
	}
	// 耗时均值覆盖全部作答，不限已判分的
	if stats.AvgElapsedMs == nil || *stats.AvgElapsedMs != 10000 {
		t.Fatalf("expected avg elapsed 10000ms, got %+v", stats.AvgElapsedMs)
	}

	dist := map[string]int64{}
	for _, c := range stats.ChoiceDistribution {
		dist[c.Label] = c.Count
	}
	if dist["A"] != 1 || dist["B"] != 2 {
		t.Fatalf("unexpected choice distribution %v", dist)
	}
}

func TestQuestionStatsAccuracyNilWithoutGrades(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, correct, _ := seedMcqQuestion(t, db, m.ID)

	resp := model.McqResponse{QuestionID: q.ID, UserID: 1, SelectedChoiceID: correct.ID, AnsweredAt: time.Now()}
	if err := db.Create(&resp).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}

	stats, err := svc.GetQuestionStats(model.ModuleListeningMcq, q.ID)
	if err != nil {
		t.Fatalf("question stats failed: %v", err)
	}
	if stats.TotalResponses != 1 || stats.GradedCount != 0 {
		t.Fatalf("expected total=1 graded=0, got %+v", stats)
	}
	// 分母为零时不输出 0，比率为 null
	if stats.Accuracy != nil {
		t.Fatalf("expected nil accuracy, got %v", *stats.Accuracy)
	}
	if stats.ObservedDifficulty != "" {
		t.Fatalf("expected no difficulty label, got %q", stats.ObservedDifficulty)
	}
}

func TestQuestionStatsSubjective(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 1)
	item := seedRetellItem(t, db, m.ID, "story")

	now := time.Now()
	s4, s8 := 4.0, 8.0
	responses := []model.RetellResponse{
		{ItemID: item.ID, UserID: 1, AsrText: "a", AnsweredAt: now, ElapsedMs: 50000, Score: &s4, GradedAt: &now},
		{ItemID: item.ID, UserID: 2, AsrText: "b", AnsweredAt: now, ElapsedMs: 70000, Score: &s8, GradedAt: &now},
		{ItemID: item.ID, UserID: 3, AsrText: "c", AnsweredAt: now, ElapsedMs: 60000},
	}
	for i := range responses {
		if err := db.Create(&responses[i]).Error; err != nil {
			t.Fatalf("seed response: %v", err)
		}
	}

	stats, err := svc.GetQuestionStats(model.ModuleStoryRetell, item.ID)
	if err != nil {
		t.Fatalf("question stats failed: %v", err)
	}
	if stats.TotalResponses != 3 || stats.GradedCount != 2 {
		t.Fatalf("expected total=3 graded=2, got %+v", stats)
	}
	if stats.AvgScore == nil || *stats.AvgScore != 6 {
		t.Fatalf("expected avg 6, got %+v", stats.AvgScore)
	}
	if stats.MinScore == nil || *stats.MinScore != 4 || stats.MaxScore == nil || *stats.MaxScore != 8 {
		t.Fatalf("expected min 4 max 8, got %+v %+v", stats.MinScore, stats.MaxScore)
	}
	if stats.AvgElapsedMs == nil || *stats.AvgElapsedMs != 60000 {
		t.Fatalf("expected avg elapsed 60000ms, got %+v", stats.AvgElapsedMs)
	}
}

func TestQuestionStatsUnknownQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)

	_, err := svc.GetQuestionStats(model.ModuleListeningMcq, 99999)
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	_, err = svc.GetQuestionStats("QUIZ", 1)
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestModuleStatsOpiJoinsTopicLayer(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleOpi, 1)
	q1 := seedOpiQuestion(t, db, m.ID, "rubric")
	q2 := seedOpiQuestion(t, db, m.ID, "rubric")

	now := time.Now()
	s6 := 6.0
	if err := db.Create(&model.OpiResponse{QuestionID: q1.ID, UserID: 1, AnsweredAt: now, Score: &s6, GradedAt: &now}).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}
	if err := db.Create(&model.OpiResponse{QuestionID: q2.ID, UserID: 1, AnsweredAt: now}).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}

	stats, err := svc.GetModuleStats(m.ID)
	if err != nil {
		t.Fatalf("module stats failed: %v", err)
	}
	if stats.QuestionCount != 2 {
		t.Fatalf("expected 2 questions through topic join, got %d", stats.QuestionCount)
	}
	if stats.TotalResponses != 2 || stats.GradedCount != 1 {
		t.Fatalf("expected total=2 graded=1, got %+v", stats)
	}
	if stats.AvgScore == nil || *stats.AvgScore != 6 {
		t.Fatalf("expected avg 6, got %+v", stats.AvgScore)
	}
}

func TestModuleStatsMcqCountsVerdicts(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, correct, wrong := seedMcqQuestion(t, db, m.ID)

	now := time.Now()
	yes, no := true, false
	responses := []model.McqResponse{
		{QuestionID: q.ID, UserID: 1, SelectedChoiceID: correct.ID, AnsweredAt: now, IsCorrect: &yes, GradedAt: &now},
		{QuestionID: q.ID, UserID: 2, SelectedChoiceID: wrong.ID, AnsweredAt: now, IsCorrect: &no, GradedAt: &now},
		{QuestionID: q.ID, UserID: 3, SelectedChoiceID: wrong.ID, AnsweredAt: now, IsCorrect: &no, GradedAt: &now},
		{QuestionID: q.ID, UserID: 4, SelectedChoiceID: wrong.ID, AnsweredAt: now},
	}
	for i := range responses {
		if err := db.Create(&responses[i]).Error; err != nil {
			t.Fatalf("seed response: %v", err)
		}
	}

	stats, err := svc.GetModuleStats(m.ID)
	if err != nil {
		t.Fatalf("module stats failed: %v", err)
	}
	if stats.TotalResponses != 4 || stats.GradedCount != 3 {
		t.Fatalf("expected total=4 graded=3, got %+v", stats)
	}
	// 判错 = 已判分 - 判对，未判分作答不进任何一边
	if stats.CorrectCount == nil || *stats.CorrectCount != 1 {
		t.Fatalf("expected 1 correct, got %+v", stats.CorrectCount)
	}
	if stats.IncorrectCount == nil || *stats.IncorrectCount != 2 {
		t.Fatalf("expected 2 incorrect, got %+v", stats.IncorrectCount)
	}
}

func TestModuleStatsEmptyModule(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)

	stats, err := svc.GetModuleStats(m.ID)
	if err != nil {
		t.Fatalf("module stats failed: %v", err)
	}
	if stats.QuestionCount != 0 || stats.TotalResponses != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
	if stats.Accuracy != nil {
		t.Fatalf("expected nil accuracy for empty module")
	}
}

func TestSystemStatsAggregatesAllFamilies(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db)
	paper := seedPaper(t, db)
	mcqModule := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	retellModule := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 2)
	q, correct, _ := seedMcqQuestion(t, db, mcqModule.ID)
	item := seedRetellItem(t, db, retellModule.ID, "story")

	now := time.Now()
	yes := true
	s7 := 7.0
	if err := db.Create(&model.McqResponse{QuestionID: q.ID, UserID: 1, SelectedChoiceID: correct.ID, AnsweredAt: now, IsCorrect: &yes, GradedAt: &now}).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}
	if err := db.Create(&model.RetellResponse{ItemID: item.ID, UserID: 1, AnsweredAt: now, Score: &s7, GradedAt: &now}).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}
	if err := db.Create(&model.RetellResponse{ItemID: item.ID, UserID: 2, AnsweredAt: now}).Error; err != nil {
		t.Fatalf("seed response: %v", err)
	}

	stats, err := svc.GetSystemStats(context.Background())
	if err != nil {
		t.Fatalf("system stats failed: %v", err)
	}
	if stats.TotalResponses != 3 || stats.TotalGraded != 2 {
		t.Fatalf("expected total=3 graded=2, got %+v", stats)
	}
	if len(stats.ByModuleType) != len(model.AllModuleTypes) {
		t.Fatalf("expected one entry per module type, got %d", len(stats.ByModuleType))
	}

	byType := map[model.ModuleType]ModuleTypeStats{}
	for _, e := range stats.ByModuleType {
		byType[e.ModuleType] = e
	}
	mcq := byType[model.ModuleListeningMcq]
	if mcq.TotalResponses != 1 || mcq.Accuracy == nil || *mcq.Accuracy != 1 {
		t.Fatalf("unexpected MCQ system entry %+v", mcq)
	}
	retell := byType[model.ModuleStoryRetell]
	if retell.TotalResponses != 2 || retell.GradedCount != 1 || retell.AvgScore == nil || *retell.AvgScore != 7 {
		t.Fatalf("unexpected retell system entry %+v", retell)
	}
	opi := byType[model.ModuleOpi]
	if opi.TotalResponses != 0 || opi.AvgScore != nil {
		t.Fatalf("expected empty OPI entry, got %+v", opi)
	}
}
