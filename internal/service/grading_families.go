package service

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/util"
)

// ---------- 听力选择题（客观） ----------

func mcqView(resp *model.McqResponse) *ResponseView {
	return &ResponseView{
		ID:         resp.ID,
		ModuleType: model.ModuleListeningMcq,
		QuestionID: resp.QuestionID,
		UserID:     resp.UserID,
		AnsweredAt: resp.AnsweredAt,
		ElapsedMs:  resp.ElapsedMs,
		Graded:     resp.IsCorrect != nil,
		IsCorrect:  resp.IsCorrect,
		Detail:     resp.Detail,
	}
}

func (s *GradingService) submitMcq(userID uint, req SubmitRequest) (*ResponseView, error) {
	if req.SelectedChoiceID == 0 {
		return nil, util.ValidationErrorf("selectedChoiceId required")
	}
	if _, err := s.McqRepo.FindQuestionByID(req.QuestionID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	choice, err := s.McqRepo.FindChoiceByID(req.SelectedChoiceID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if choice.QuestionID != req.QuestionID {
		return nil, util.ValidationErrorf("choice %d does not belong to question %d", req.SelectedChoiceID, req.QuestionID)
	}

	resp := &model.McqResponse{
		QuestionID:       req.QuestionID,
		UserID:           userID,
		SelectedChoiceID: req.SelectedChoiceID,
		AnsweredAt:       time.Now(),
		ElapsedMs:        req.ElapsedMs,
	}
	if err := s.McqRepo.CreateResponse(resp); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return mcqView(resp), nil
}

// scoreMcq 客观题不接受人工数值打分
func (s *GradingService) scoreMcq(responseID uint, score float64, detail json.RawMessage) (*ResponseView, error) {
	return nil, util.ValidationErrorf("listening MCQ responses are auto-graded, numeric score not accepted")
}

// autoScoreMcq 按选项的当前正确标志比对，重判会反映标志位的后续变动
func (s *GradingService) autoScoreMcq(responseID uint) (*ResponseView, error) {
	resp, err := s.McqRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	correct, err := s.McqRepo.FindCorrectChoice(resp.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotGradablef("question %d has no correct choice flagged", resp.QuestionID)
		}
		return nil, err
	}

	isCorrect := resp.SelectedChoiceID == correct.ID
	detail, _ := json.Marshal(map[string]interface{}{
		"correctChoiceId": correct.ID,
		"gradedAgainst":   correct.Label,
	})
	now := time.Now()
	err = s.DB.Model(&model.McqResponse{}).
		Where("id = ?", resp.ID).
		Updates(map[string]interface{}{
			"is_correct": isCorrect,
			"detail":     detail,
			"graded_at":  now,
		}).Error
	if err != nil {
		return nil, err
	}

	resp.IsCorrect = &isCorrect
	resp.Detail = detail
	resp.GradedAt = &now
	return mcqView(resp), nil
}

func (s *GradingService) findMcq(responseID uint) (*ResponseView, error) {
	resp, err := s.McqRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return mcqView(resp), nil
}

func (s *GradingService) listMcqByQuestion(questionID uint) ([]ResponseView, error) {
	resps, err := s.McqRepo.ListResponsesByQuestion(questionID)
	if err != nil {
		return nil, err
	}
	views := make([]ResponseView, len(resps))
	for i := range resps {
		views[i] = *mcqView(&resps[i])
	}
	return views, nil
}

// ---------- 故事复述（主观） ----------

func retellView(resp *model.RetellResponse) *ResponseView {
	return &ResponseView{
		ID:         resp.ID,
		ModuleType: model.ModuleStoryRetell,
		QuestionID: resp.ItemID,
		UserID:     resp.UserID,
		AnsweredAt: resp.AnsweredAt,
		ElapsedMs:  resp.ElapsedMs,
		Graded:     resp.Score != nil,
		Score:      resp.Score,
		Detail:     resp.Detail,
	}
}

func (s *GradingService) submitRetell(userID uint, req SubmitRequest) (*ResponseView, error) {
	if _, err := s.RetellRepo.FindItemByID(req.QuestionID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	resp := &model.RetellResponse{
		ItemID:       req.QuestionID,
		UserID:       userID,
		AudioAssetID: req.AudioAssetID,
		AsrText:      req.AsrText,
		AnsweredAt:   time.Now(),
		ElapsedMs:    req.ElapsedMs,
	}
	if err := s.RetellRepo.CreateResponse(resp); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return retellView(resp), nil
}

func (s *GradingService) scoreRetell(responseID uint, score float64, detail json.RawMessage) (*ResponseView, error) {
	resp, err := s.RetellRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if err := s.assignScore(&model.RetellResponse{}, resp.ID, score, detail); err != nil {
		return nil, err
	}
	return s.findRetell(resp.ID)
}

func (s *GradingService) autoScoreRetell(responseID uint) (*ResponseView, error) {
	resp, err := s.RetellRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	item, err := s.RetellRepo.FindItemByID(resp.ItemID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if item.StoryText == "" {
		return nil, util.NotGradablef("retell item %d has no story text to score against", item.ID)
	}
	score, detail, err := s.Scorer.Score("story_retell", item.StoryText, resp.AsrText)
	if err != nil {
		return nil, err
	}
	if err := s.assignScore(&model.RetellResponse{}, resp.ID, clampScore(score), detail); err != nil {
		return nil, err
	}
	return s.findRetell(resp.ID)
}

func (s *GradingService) findRetell(responseID uint) (*ResponseView, error) {
	resp, err := s.RetellRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return retellView(resp), nil
}

func (s *GradingService) listRetellByItem(itemID uint) ([]ResponseView, error) {
	resps, err := s.RetellRepo.ListResponsesByItem(itemID)
	if err != nil {
		return nil, err
	}
	views := make([]ResponseView, len(resps))
	for i := range resps {
		views[i] = *retellView(&resps[i])
	}
	return views, nil
}

// ---------- 听力简答（主观） ----------

func lsaView(resp *model.LsaResponse) *ResponseView {
	return &ResponseView{
		ID:         resp.ID,
		ModuleType: model.ModuleListeningSa,
		QuestionID: resp.QuestionID,
		UserID:     resp.UserID,
		AnsweredAt: resp.AnsweredAt,
		ElapsedMs:  resp.ElapsedMs,
		Graded:     resp.Score != nil,
		Score:      resp.Score,
		Detail:     resp.Detail,
	}
}

func (s *GradingService) submitLsa(userID uint, req SubmitRequest) (*ResponseView, error) {
	if _, err := s.LsaRepo.FindQuestionByID(req.QuestionID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	resp := &model.LsaResponse{
		QuestionID:   req.QuestionID,
		UserID:       userID,
		AudioAssetID: req.AudioAssetID,
		AsrText:      req.AsrText,
		AnsweredAt:   time.Now(),
		ElapsedMs:    req.ElapsedMs,
	}
	if err := s.LsaRepo.CreateResponse(resp); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return lsaView(resp), nil
}

func (s *GradingService) scoreLsa(responseID uint, score float64, detail json.RawMessage) (*ResponseView, error) {
	resp, err := s.LsaRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if err := s.assignScore(&model.LsaResponse{}, resp.ID, score, detail); err != nil {
		return nil, err
	}
	return s.findLsa(resp.ID)
}

func (s *GradingService) autoScoreLsa(responseID uint) (*ResponseView, error) {
	resp, err := s.LsaRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	q, err := s.LsaRepo.FindQuestionByID(resp.QuestionID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if q.ReferenceAnswer == "" {
		return nil, util.NotGradablef("LSA question %d has no reference answer", q.ID)
	}
	score, detail, err := s.Scorer.Score("listening_sa", q.ReferenceAnswer, resp.AsrText)
	if err != nil {
		return nil, err
	}
	if err := s.assignScore(&model.LsaResponse{}, resp.ID, clampScore(score), detail); err != nil {
		return nil, err
	}
	return s.findLsa(resp.ID)
}

func (s *GradingService) findLsa(responseID uint) (*ResponseView, error) {
	resp, err := s.LsaRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return lsaView(resp), nil
}

func (s *GradingService) listLsaByQuestion(questionID uint) ([]ResponseView, error) {
	resps, err := s.LsaRepo.ListResponsesByQuestion(questionID)
	if err != nil {
		return nil, err
	}
	views := make([]ResponseView, len(resps))
	for i := range resps {
		views[i] = *lsaView(&resps[i])
	}
	return views, nil
}

// ---------- 陆空通话模拟（主观） ----------

func atcView(resp *model.AtcTurnResponse) *ResponseView {
	return &ResponseView{
		ID:         resp.ID,
		ModuleType: model.ModuleAtcSim,
		QuestionID: resp.TurnID,
		UserID:     resp.UserID,
		AnsweredAt: resp.AnsweredAt,
		ElapsedMs:  resp.ElapsedMs,
		Graded:     resp.Score != nil,
		Score:      resp.Score,
		Detail:     resp.Detail,
	}
}

func (s *GradingService) submitAtc(userID uint, req SubmitRequest) (*ResponseView, error) {
	if _, err := s.AtcRepo.FindTurnByID(req.QuestionID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	resp := &model.AtcTurnResponse{
		TurnID:       req.QuestionID,
		UserID:       userID,
		AudioAssetID: req.AudioAssetID,
		AsrText:      req.AsrText,
		AnsweredAt:   time.Now(),
		ElapsedMs:    req.ElapsedMs,
	}
	if err := s.AtcRepo.CreateResponse(resp); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return atcView(resp), nil
}

func (s *GradingService) scoreAtc(responseID uint, score float64, detail json.RawMessage) (*ResponseView, error) {
	resp, err := s.AtcRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if err := s.assignScore(&model.AtcTurnResponse{}, resp.ID, score, detail); err != nil {
		return nil, err
	}
	return s.findAtc(resp.ID)
}

func (s *GradingService) autoScoreAtc(responseID uint) (*ResponseView, error) {
	resp, err := s.AtcRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	turn, err := s.AtcRepo.FindTurnByID(resp.TurnID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if turn.ExpectedReply == "" {
		return nil, util.NotGradablef("ATC turn %d has no expected reply", turn.ID)
	}
	score, detail, err := s.Scorer.Score("atc_sim", turn.ExpectedReply, resp.AsrText)
	if err != nil {
		return nil, err
	}
	if err := s.assignScore(&model.AtcTurnResponse{}, resp.ID, clampScore(score), detail); err != nil {
		return nil, err
	}
	return s.findAtc(resp.ID)
}

func (s *GradingService) findAtc(responseID uint) (*ResponseView, error) {
	resp, err := s.AtcRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return atcView(resp), nil
}

func (s *GradingService) listAtcByTurn(turnID uint) ([]ResponseView, error) {
	resps, err := s.AtcRepo.ListResponsesByTurn(turnID)
	if err != nil {
		return nil, err
	}
	views := make([]ResponseView, len(resps))
	for i := range resps {
		views[i] = *atcView(&resps[i])
	}
	return views, nil
}

// ---------- 口语面试（主观，每题至多一次作答） ----------

func opiView(resp *model.OpiResponse) *ResponseView {
	return &ResponseView{
		ID:         resp.ID,
		ModuleType: model.ModuleOpi,
		QuestionID: resp.QuestionID,
		UserID:     resp.UserID,
		AnsweredAt: resp.AnsweredAt,
		ElapsedMs:  resp.ElapsedMs,
		Graded:     resp.Score != nil,
		Score:      resp.Score,
		Detail:     resp.Detail,
	}
}

func (s *GradingService) submitOpi(userID uint, req SubmitRequest) (*ResponseView, error) {
	if _, err := s.OpiRepo.FindQuestionByID(req.QuestionID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	resp := &model.OpiResponse{
		QuestionID:   req.QuestionID,
		UserID:       userID,
		AudioAssetID: req.AudioAssetID,
		AsrText:      req.AsrText,
		AnsweredAt:   time.Now(),
		ElapsedMs:    req.ElapsedMs,
	}
	// 唯一索引在并发下兜底，重复提交翻译为 Conflict
	if err := s.OpiRepo.CreateResponse(resp); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return opiView(resp), nil
}

func (s *GradingService) scoreOpi(responseID uint, score float64, detail json.RawMessage) (*ResponseView, error) {
	resp, err := s.OpiRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if err := s.assignScore(&model.OpiResponse{}, resp.ID, score, detail); err != nil {
		return nil, err
	}
	return s.findOpi(resp.ID)
}

func (s *GradingService) autoScoreOpi(responseID uint) (*ResponseView, error) {
	resp, err := s.OpiRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	q, err := s.OpiRepo.FindQuestionByID(resp.QuestionID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if q.ScoringRubric == "" {
		return nil, util.NotGradablef("OPI question %d has no scoring rubric", q.ID)
	}
	score, detail, err := s.Scorer.Score("opi", q.ScoringRubric, resp.AsrText)
	if err != nil {
		return nil, err
	}
	if err := s.assignScore(&model.OpiResponse{}, resp.ID, clampScore(score), detail); err != nil {
		return nil, err
	}
	return s.findOpi(resp.ID)
}

func (s *GradingService) findOpi(responseID uint) (*ResponseView, error) {
	resp, err := s.OpiRepo.FindResponseByID(responseID)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return opiView(resp), nil
}

func (s *GradingService) listOpiByQuestion(questionID uint) ([]ResponseView, error) {
	resp, err := s.OpiRepo.FindResponseByQuestion(questionID)
	if err != nil {
		// 每题至多一条，不存在即空列表
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []ResponseView{}, nil
		}
		return nil, err
	}
	return []ResponseView{*opiView(resp)}, nil
}

// assignScore 主观题赋分：score、detail、graded_at 单条 UPDATE 一次写入，
// 重判时旧值被整体覆盖，不会出现部分可见
func (s *GradingService) assignScore(respModel interface{}, responseID uint, score float64, detail json.RawMessage) error {
	return s.DB.Model(respModel).
		Where("id = ?", responseID).
		Updates(map[string]interface{}{
			"score":     score,
			"detail":    detail,
			"graded_at": time.Now(),
		}).Error
}
