package service

import (
	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/util"
)

// 考生端视图：剥离正确答案、参考答案、评分参照与讲解，其余字段原样透出。
// 管理端接口返回完整模型，这些结构只给作答路径使用。

type CandidateChoice struct {
	ID      uint   `json:"id"`
	Label   string `json:"label"`
	Content string `json:"content"`
}

type CandidateMcqQuestion struct {
	ID           uint              `json:"id"`
	DisplayOrder int               `json:"displayOrder"`
	Content      string            `json:"content"`
	AudioAssetID *uint             `json:"audioAssetId,omitempty"`
	ImageAssetID *uint             `json:"imageAssetId,omitempty"`
	Choices      []CandidateChoice `json:"choices"`
}

type CandidateRetellItem struct {
	ID           uint   `json:"id"`
	DisplayOrder int    `json:"displayOrder"`
	Title        string `json:"title"`
	AudioAssetID *uint  `json:"audioAssetId,omitempty"`
}

type CandidateLsaQuestion struct {
	ID            uint   `json:"id"`
	QOrder        int    `json:"qOrder"`
	Content       string `json:"content"`
	AnswerSeconds int    `json:"answerSeconds"`
}

type CandidateLsaDialog struct {
	ID           uint                   `json:"id"`
	DisplayOrder int                    `json:"displayOrder"`
	Title        string                 `json:"title"`
	AudioAssetID *uint                  `json:"audioAssetId,omitempty"`
	Questions    []CandidateLsaQuestion `json:"questions"`
}

type CandidateAtcTurn struct {
	ID              uint   `json:"id"`
	TurnNumber      int    `json:"turnNumber"`
	Speaker         string `json:"speaker"`
	Prompt          string `json:"prompt"`
	AudioAssetID    *uint  `json:"audioAssetId,omitempty"`
	ResponseSeconds int    `json:"responseSeconds"`
}

type CandidateAtcScenario struct {
	ID           uint               `json:"id"`
	DisplayOrder int                `json:"displayOrder"`
	Title        string             `json:"title"`
	Background   string             `json:"background"`
	Turns        []CandidateAtcTurn `json:"turns"`
}

type CandidateOpiQuestion struct {
	ID            uint   `json:"id"`
	QOrder        int    `json:"qOrder"`
	Content       string `json:"content"`
	AnswerSeconds int    `json:"answerSeconds"`
}

type CandidateOpiTopic struct {
	ID           uint                   `json:"id"`
	DisplayOrder int                    `json:"displayOrder"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Questions    []CandidateOpiQuestion `json:"questions"`
}

// CandidateViewForModule 按模块类型分发到对应题族的考生端视图
func (s *QuestionService) CandidateViewForModule(moduleID uint) (interface{}, error) {
	m, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	switch m.ModuleType {
	case model.ModuleListeningMcq:
		return s.ListMcqForCandidate(moduleID)
	case model.ModuleStoryRetell:
		return s.ListRetellForCandidate(moduleID)
	case model.ModuleListeningSa:
		return s.ListLsaForCandidate(moduleID)
	case model.ModuleAtcSim:
		return s.ListAtcForCandidate(moduleID)
	case model.ModuleOpi:
		return s.ListOpiForCandidate(moduleID)
	}
	return nil, util.ValidationErrorf("invalid module type %q", m.ModuleType)
}

func (s *QuestionService) ListMcqForCandidate(moduleID uint) ([]CandidateMcqQuestion, error) {
	questions, err := s.ListMcqQuestions(moduleID)
	if err != nil {
		return nil, err
	}
	views := make([]CandidateMcqQuestion, 0, len(questions))
	for _, q := range questions {
		choices := make([]CandidateChoice, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, CandidateChoice{ID: c.ID, Label: c.Label, Content: c.Content})
		}
		views = append(views, CandidateMcqQuestion{
			ID:           q.ID,
			DisplayOrder: q.DisplayOrder,
			Content:      q.Content,
			AudioAssetID: q.AudioAssetID,
			ImageAssetID: q.ImageAssetID,
			Choices:      choices,
		})
	}
	return views, nil
}

func (s *QuestionService) ListRetellForCandidate(moduleID uint) ([]CandidateRetellItem, error) {
	items, err := s.ListRetellItems(moduleID)
	if err != nil {
		return nil, err
	}
	views := make([]CandidateRetellItem, 0, len(items))
	for _, item := range items {
		views = append(views, CandidateRetellItem{
			ID:           item.ID,
			DisplayOrder: item.DisplayOrder,
			Title:        item.Title,
			AudioAssetID: item.AudioAssetID,
		})
	}
	return views, nil
}

func (s *QuestionService) ListLsaForCandidate(moduleID uint) ([]CandidateLsaDialog, error) {
	dialogs, err := s.ListLsaDialogs(moduleID)
	if err != nil {
		return nil, err
	}
	views := make([]CandidateLsaDialog, 0, len(dialogs))
	for _, d := range dialogs {
		questions := make([]CandidateLsaQuestion, 0, len(d.Questions))
		for _, q := range d.Questions {
			questions = append(questions, CandidateLsaQuestion{
				ID:            q.ID,
				QOrder:        q.QOrder,
				Content:       q.Content,
				AnswerSeconds: q.AnswerSeconds,
			})
		}
		views = append(views, CandidateLsaDialog{
			ID:           d.ID,
			DisplayOrder: d.DisplayOrder,
			Title:        d.Title,
			AudioAssetID: d.AudioAssetID,
			Questions:    questions,
		})
	}
	return views, nil
}

func (s *QuestionService) ListAtcForCandidate(moduleID uint) ([]CandidateAtcScenario, error) {
	scenarios, err := s.ListAtcScenarios(moduleID)
	if err != nil {
		return nil, err
	}
	views := make([]CandidateAtcScenario, 0, len(scenarios))
	for _, sc := range scenarios {
		turns := make([]CandidateAtcTurn, 0, len(sc.Turns))
		for _, t := range sc.Turns {
			turns = append(turns, CandidateAtcTurn{
				ID:              t.ID,
				TurnNumber:      t.TurnNumber,
				Speaker:         t.Speaker,
				Prompt:          t.Prompt,
				AudioAssetID:    t.AudioAssetID,
				ResponseSeconds: t.ResponseSeconds,
			})
		}
		views = append(views, CandidateAtcScenario{
			ID:           sc.ID,
			DisplayOrder: sc.DisplayOrder,
			Title:        sc.Title,
			Background:   sc.Background,
			Turns:        turns,
		})
	}
	return views, nil
}

func (s *QuestionService) ListOpiForCandidate(moduleID uint) ([]CandidateOpiTopic, error) {
	topics, err := s.ListOpiTopics(moduleID)
	if err != nil {
		return nil, err
	}
	views := make([]CandidateOpiTopic, 0, len(topics))
	for _, t := range topics {
		questions := make([]CandidateOpiQuestion, 0, len(t.Questions))
		for _, q := range t.Questions {
			questions = append(questions, CandidateOpiQuestion{
				ID:            q.ID,
				QOrder:        q.QOrder,
				Content:       q.Content,
				AnswerSeconds: q.AnswerSeconds,
			})
		}
		views = append(views, CandidateOpiTopic{
			ID:           t.ID,
			DisplayOrder: t.DisplayOrder,
			Title:        t.Title,
			Description:  t.Description,
			Questions:    questions,
		})
	}
	return views, nil
}
