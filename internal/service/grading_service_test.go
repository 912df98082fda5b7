package service

import (
	"errors"
	"testing"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/util"
)

func TestSubmitAndAutoScoreMcq(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, correct, wrong := seedMcqQuestion(t, db, m.ID)

	view, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType:       model.ModuleListeningMcq,
		QuestionID:       q.ID,
		SelectedChoiceID: correct.ID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if view.Graded {
		t.Fatalf("freshly submitted response must be ungraded")
	}

	graded, err := svc.AutoScoreResponse(model.ModuleListeningMcq, view.ID)
	if err != nil {
		t.Fatalf("auto score failed: %v", err)
	}
	if graded.IsCorrect == nil || !*graded.IsCorrect {
		t.Fatalf("expected correct, got %+v", graded.IsCorrect)
	}

	view2, err := svc.SubmitResponse(8, SubmitRequest{
		ModuleType:       model.ModuleListeningMcq,
		QuestionID:       q.ID,
		SelectedChoiceID: wrong.ID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	graded2, err := svc.AutoScoreResponse(model.ModuleListeningMcq, view2.ID)
	if err != nil {
		t.Fatalf("auto score failed: %v", err)
	}
	if graded2.IsCorrect == nil || *graded2.IsCorrect {
		t.Fatalf("expected incorrect, got %+v", graded2.IsCorrect)
	}
}

func TestAutoScoreMcqRegradeFollowsFlagMove(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, _, wrong := seedMcqQuestion(t, db, m.ID)

	view, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType:       model.ModuleListeningMcq,
		QuestionID:       q.ID,
		SelectedChoiceID: wrong.ID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	graded, err := svc.AutoScoreResponse(model.ModuleListeningMcq, view.ID)
	if err != nil {
		t.Fatalf("auto score failed: %v", err)
	}
	if *graded.IsCorrect {
		t.Fatalf("expected incorrect before flag move")
	}

	// 正确标志换位后重判，结论随当前标志位翻转
	if err := svc.McqRepo.SetCorrectChoice(q.ID, wrong.ID); err != nil {
		t.Fatalf("move correct flag: %v", err)
	}
	regraded, err := svc.AutoScoreResponse(model.ModuleListeningMcq, view.ID)
	if err != nil {
		t.Fatalf("regrade failed: %v", err)
	}
	if !*regraded.IsCorrect {
		t.Fatalf("expected correct after flag moved to selected choice")
	}
}

func TestAutoScoreMcqNoFlaggedChoice(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)

	q := &model.McqQuestion{ExamModuleID: m.ID, Content: "Say again?"}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("seed question: %v", err)
	}
	choice := &model.McqChoice{QuestionID: q.ID, Label: "A", Content: "Roger"}
	if err := db.Create(choice).Error; err != nil {
		t.Fatalf("seed choice: %v", err)
	}

	view, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType:       model.ModuleListeningMcq,
		QuestionID:       q.ID,
		SelectedChoiceID: choice.ID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	_, err = svc.AutoScoreResponse(model.ModuleListeningMcq, view.ID)
	if !errors.Is(err, util.ErrNotGradable) {
		t.Fatalf("expected ErrNotGradable, got %v", err)
	}
}

func TestManualScoreRejectedForMcq(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, correct, _ := seedMcqQuestion(t, db, m.ID)

	view, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType:       model.ModuleListeningMcq,
		QuestionID:       q.ID,
		SelectedChoiceID: correct.ID,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	_, err = svc.ScoreResponse(model.ModuleListeningMcq, view.ID, 8, nil)
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestSubmitMcqChoiceMustBelongToQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q1, _, _ := seedMcqQuestion(t, db, m.ID)
	_, otherCorrect, _ := seedMcqQuestion(t, db, m.ID)

	_, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType:       model.ModuleListeningMcq,
		QuestionID:       q1.ID,
		SelectedChoiceID: otherCorrect.ID,
	})
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestManualScoreClampedToBounds(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 1)
	item := seedRetellItem(t, db, m.ID, "The aircraft diverted to the alternate.")

	low, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType: model.ModuleStoryRetell,
		QuestionID: item.ID,
		AsrText:    "they went to another airport",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	high, err := svc.SubmitResponse(8, SubmitRequest{
		ModuleType: model.ModuleStoryRetell,
		QuestionID: item.ID,
		AsrText:    "the aircraft diverted to the alternate",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	clampedLow, err := svc.ScoreResponse(model.ModuleStoryRetell, low.ID, -3, nil)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if clampedLow.Score == nil || *clampedLow.Score != 0 {
		t.Fatalf("expected score clamped to 0, got %+v", clampedLow.Score)
	}

	clampedHigh, err := svc.ScoreResponse(model.ModuleStoryRetell, high.ID, 11.5, nil)
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}
	if clampedHigh.Score == nil || *clampedHigh.Score != 10 {
		t.Fatalf("expected score clamped to 10, got %+v", clampedHigh.Score)
	}
}

func TestAutoScoreRetellUsesScorer(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{score: 7.5})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 1)
	item := seedRetellItem(t, db, m.ID, "The flight held for thirty minutes.")

	view, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType: model.ModuleStoryRetell,
		QuestionID: item.ID,
		AsrText:    "the flight was in a holding pattern",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	graded, err := svc.AutoScoreResponse(model.ModuleStoryRetell, view.ID)
	if err != nil {
		t.Fatalf("auto score failed: %v", err)
	}
	if graded.Score == nil || *graded.Score != 7.5 {
		t.Fatalf("expected score 7.5, got %+v", graded.Score)
	}
	if !graded.Graded {
		t.Fatalf("expected graded view")
	}
}

func TestAutoScoreRetellWithoutStoryTextNotGradable(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{score: 5})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 1)
	item := seedRetellItem(t, db, m.ID, "")

	view, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType: model.ModuleStoryRetell,
		QuestionID: item.ID,
		AsrText:    "anything",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	_, err = svc.AutoScoreResponse(model.ModuleStoryRetell, view.ID)
	if !errors.Is(err, util.ErrNotGradable) {
		t.Fatalf("expected ErrNotGradable, got %v", err)
	}
}

func TestSubmitOpiDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleOpi, 1)
	q := seedOpiQuestion(t, db, m.ID, "fluency and phraseology")

	if _, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType: model.ModuleOpi,
		QuestionID: q.ID,
		AsrText:    "first attempt",
	}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType: model.ModuleOpi,
		QuestionID: q.ID,
		AsrText:    "second attempt",
	})
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate OPI submit, got %v", err)
	}
}

func TestListOpiResponsesEmptyWhenNone(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleOpi, 1)
	q := seedOpiQuestion(t, db, m.ID, "rubric")

	views, err := svc.ListResponsesByQuestion(model.ModuleOpi, q.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty list, got %d", len(views))
	}
}

func TestBatchGradeReportsPerItem(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 1)
	item := seedRetellItem(t, db, m.ID, "story")

	view, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType: model.ModuleStoryRetell,
		QuestionID: item.ID,
		AsrText:    "retelling",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	results, err := svc.BatchGradeResponses(model.ModuleStoryRetell, []BatchGradeItem{
		{ResponseID: view.ID, Score: 6},
		{ResponseID: 99999, Score: 4},
	})
	if err != nil {
		t.Fatalf("batch grade failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Error != "" || results[0].Response == nil || *results[0].Response.Score != 6 {
		t.Fatalf("expected first item graded to 6, got %+v", results[0])
	}
	if results[1].Error == "" {
		t.Fatalf("expected error for unknown response id")
	}
}

func TestGradeAllByQuestionSkipsGraded(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{score: 5})
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 1)
	item := seedRetellItem(t, db, m.ID, "story text")

	first, err := svc.SubmitResponse(7, SubmitRequest{
		ModuleType: model.ModuleStoryRetell,
		QuestionID: item.ID,
		AsrText:    "one",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.SubmitResponse(8, SubmitRequest{
		ModuleType: model.ModuleStoryRetell,
		QuestionID: item.ID,
		AsrText:    "two",
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.ScoreResponse(model.ModuleStoryRetell, first.ID, 9, nil); err != nil {
		t.Fatalf("score failed: %v", err)
	}

	results, err := svc.GradeAllResponsesByQuestion(model.ModuleStoryRetell, item.ID)
	if err != nil {
		t.Fatalf("grade all failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only the ungraded response to be graded, got %d results", len(results))
	}

	kept, err := svc.GetResponse(model.ModuleStoryRetell, first.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if kept.Score == nil || *kept.Score != 9 {
		t.Fatalf("manual score must survive grade-all, got %+v", kept.Score)
	}
}

func TestUnknownModuleTypeRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db, stubScorer{})

	_, err := svc.SubmitResponse(7, SubmitRequest{ModuleType: "QUIZ", QuestionID: 1})
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}
