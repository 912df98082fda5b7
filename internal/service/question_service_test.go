package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"
)

func newQuestionService(db *gorm.DB) *QuestionService {
	return NewQuestionService(
		repository.NewExamModuleRepository(db),
		repository.NewMcqRepository(db),
		repository.NewRetellRepository(db),
		repository.NewLsaRepository(db),
		repository.NewAtcRepository(db),
		repository.NewOpiRepository(db),
		db,
	)
}

func TestCreateQuestionRequiresMatchingModuleType(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)
	opiModule := seedModule(t, db, paper.ID, model.ModuleOpi, 1)

	_, err := svc.CreateMcqQuestion(McqQuestionRequest{
		ExamModuleID: opiModule.ID,
		Content:      "Which frequency should the pilot contact?",
	})
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed for type mismatch, got %v", err)
	}

	_, err = svc.CreateMcqQuestion(McqQuestionRequest{ExamModuleID: 99999, Content: "x"})
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing module, got %v", err)
	}
}

func TestSetCorrectChoiceMovesFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, _, wrong := seedMcqQuestion(t, db, m.ID)

	if err := svc.SetCorrectChoice(q.ID, wrong.ID); err != nil {
		t.Fatalf("set correct choice failed: %v", err)
	}

	var flagged []model.McqChoice
	if err := db.Where("question_id = ? AND is_correct = ?", q.ID, true).Find(&flagged).Error; err != nil {
		t.Fatalf("read choices: %v", err)
	}
	if len(flagged) != 1 || flagged[0].ID != wrong.ID {
		t.Fatalf("expected flag on exactly one choice %d, got %+v", wrong.ID, flagged)
	}
}

func TestSetCorrectChoiceRejectsForeignChoice(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q1, _, _ := seedMcqQuestion(t, db, m.ID)
	_, otherChoice, _ := seedMcqQuestion(t, db, m.ID)

	err := svc.SetCorrectChoice(q1.ID, otherChoice.ID)
	if !errors.Is(err, util.ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestAddMcqChoiceAsCorrectReplacesFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, _, _ := seedMcqQuestion(t, db, m.ID)

	c, err := svc.AddMcqChoice(McqChoiceRequest{QuestionID: q.ID, Label: "C", Content: "Taxi via Alpha", IsCorrect: true})
	if err != nil {
		t.Fatalf("add choice failed: %v", err)
	}
	if !c.IsCorrect {
		t.Fatalf("expected new choice flagged correct")
	}

	var count int64
	if err := db.Model(&model.McqChoice{}).Where("question_id = ? AND is_correct = ?", q.ID, true).Count(&count).Error; err != nil {
		t.Fatalf("count flagged: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one flagged choice, got %d", count)
	}
}

func TestDeleteFlaggedChoiceConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	_, correct, wrong := seedMcqQuestion(t, db, m.ID)

	err := svc.DeleteMcqChoice(correct.ID)
	if !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict deleting flagged choice, got %v", err)
	}
	if err := svc.DeleteMcqChoice(wrong.ID); err != nil {
		t.Fatalf("deleting unflagged choice failed: %v", err)
	}
}

func TestCandidateViewStripsAnswerFields(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)

	mcqModule := seedModule(t, db, paper.ID, model.ModuleListeningMcq, 1)
	q, _, _ := seedMcqQuestion(t, db, mcqModule.ID)
	q.Explanation = "A is correct because the instruction was to hold short"
	if err := db.Save(q).Error; err != nil {
		t.Fatalf("update question: %v", err)
	}

	view, err := svc.CandidateViewForModule(mcqModule.ID)
	if err != nil {
		t.Fatalf("candidate view failed: %v", err)
	}
	raw, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	for _, leaked := range []string{"isCorrect", "explanation", "A is correct"} {
		if strings.Contains(string(raw), leaked) {
			t.Fatalf("candidate view leaked %q: %s", leaked, raw)
		}
	}

	questions, err := svc.ListMcqForCandidate(mcqModule.ID)
	if err != nil {
		t.Fatalf("list for candidate failed: %v", err)
	}
	if len(questions) != 1 || len(questions[0].Choices) != 2 {
		t.Fatalf("expected 1 question with 2 choices, got %+v", questions)
	}
}

func TestCandidateViewStripsRetellStoryText(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleStoryRetell, 1)
	seedRetellItem(t, db, m.ID, "secret original story text")

	items, err := svc.ListRetellForCandidate(m.ID)
	if err != nil {
		t.Fatalf("list for candidate failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	raw, _ := json.Marshal(items)
	if strings.Contains(string(raw), "secret original story text") {
		t.Fatalf("candidate view leaked story text: %s", raw)
	}
}

func TestCandidateViewStripsOpiRubric(t *testing.T) {
	db := newTestDB(t)
	svc := newQuestionService(db)
	paper := seedPaper(t, db)
	m := seedModule(t, db, paper.ID, model.ModuleOpi, 1)
	seedOpiQuestion(t, db, m.ID, "grade on fluency, structure and phraseology")

	topics, err := svc.ListOpiForCandidate(m.ID)
	if err != nil {
		t.Fatalf("list for candidate failed: %v", err)
	}
	if len(topics) != 1 || len(topics[0].Questions) != 1 {
		t.Fatalf("expected 1 topic with 1 question, got %+v", topics)
	}
	raw, _ := json.Marshal(topics)
	if strings.Contains(string(raw), "phraseology") {
		t.Fatalf("candidate view leaked scoring rubric: %s", raw)
	}
}
