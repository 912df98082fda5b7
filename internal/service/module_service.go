package service

import (
	"errors"

	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/internal/repository"
	"aviation_exam_backend/internal/util"

	"gorm.io/gorm"
)

// ModuleService 试卷与模块编排：创建、排序、复制、启停
type ModuleService struct {
	PaperRepo  *repository.ExamPaperRepository
	ModuleRepo *repository.ExamModuleRepository
	DB         *gorm.DB
}

func NewModuleService(paperRepo *repository.ExamPaperRepository, moduleRepo *repository.ExamModuleRepository, db *gorm.DB) *ModuleService {
	return &ModuleService{
		PaperRepo:  paperRepo,
		ModuleRepo: moduleRepo,
		DB:         db,
	}
}

type ExamPaperRequest struct {
	Code             string `json:"code" binding:"required"`
	Name             string `json:"name" binding:"required"`
	TotalDurationMin int    `json:"totalDurationMin" binding:"required"`
	Description      string `json:"description"`
}

func (s *ModuleService) CreatePaper(req ExamPaperRequest) (*model.ExamPaper, error) {
	if req.TotalDurationMin <= 0 {
		return nil, util.ValidationErrorf("totalDurationMin must be positive")
	}
	paper := &model.ExamPaper{
		Code:             req.Code,
		Name:             req.Name,
		TotalDurationMin: req.TotalDurationMin,
		Description:      req.Description,
	}
	// code 唯一由索引兜底，并发下重复插入翻译为 Conflict
	if err := s.PaperRepo.Create(paper); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return paper, nil
}

func (s *ModuleService) GetPaper(id uint) (*model.ExamPaper, error) {
	paper, err := s.PaperRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return paper, nil
}

func (s *ModuleService) ListPapers(page, limit int, keyword string) ([]model.ExamPaper, int64, error) {
	return s.PaperRepo.List(page, limit, keyword)
}

func (s *ModuleService) UpdatePaper(id uint, req ExamPaperRequest) (*model.ExamPaper, error) {
	paper, err := s.PaperRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if req.TotalDurationMin <= 0 {
		return nil, util.ValidationErrorf("totalDurationMin must be positive")
	}
	paper.Code = req.Code
	paper.Name = req.Name
	paper.TotalDurationMin = req.TotalDurationMin
	paper.Description = req.Description
	if err := s.PaperRepo.Update(paper); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return paper, nil
}

// DeletePaper 仍被模块或考试记录引用的试卷不允许删除
func (s *ModuleService) DeletePaper(id uint) error {
	if _, err := s.PaperRepo.FindByID(id); err != nil {
		return util.TranslateDBError(err)
	}
	moduleCount, err := s.PaperRepo.CountModules(id)
	if err != nil {
		return err
	}
	if moduleCount > 0 {
		return util.Conflictf("exam paper has %d modules", moduleCount)
	}
	recordCount, err := s.PaperRepo.CountRecords(id)
	if err != nil {
		return err
	}
	if recordCount > 0 {
		return util.Conflictf("exam paper has %d exam records", recordCount)
	}
	return s.PaperRepo.Delete(id)
}

type ExamModuleRequest struct {
	ExamPaperID  uint             `json:"examPaperId" binding:"required"`
	ModuleType   model.ModuleType `json:"moduleType" binding:"required"`
	DisplayOrder int              `json:"displayOrder"`
	ConfigJSON   string           `json:"configJson"`
	Score        float64          `json:"score"`
}

// CreateModule 新建模块，配置按类型解析校验后回写 config_json
func (s *ModuleService) CreateModule(req ExamModuleRequest) (*model.ExamModule, error) {
	if req.ExamPaperID == 0 {
		return nil, util.ValidationErrorf("examPaperId required")
	}
	if !req.ModuleType.Valid() {
		return nil, util.ValidationErrorf("invalid module type %q", req.ModuleType)
	}
	if req.DisplayOrder < 0 {
		return nil, util.ValidationErrorf("displayOrder must not be negative")
	}
	if req.Score < 0 {
		return nil, util.ValidationErrorf("score must not be negative")
	}
	if _, err := s.PaperRepo.FindByID(req.ExamPaperID); err != nil {
		return nil, util.TranslateDBError(err)
	}

	var cfg model.ModuleConfig
	if req.ConfigJSON != "" {
		parsed, err := model.ParseModuleConfig(req.ModuleType, req.ConfigJSON)
		if err != nil {
			return nil, util.ValidationErrorf("%v", err)
		}
		if err := parsed.Validate(); err != nil {
			return nil, util.ValidationErrorf("%v", err)
		}
		cfg = parsed
	} else {
		cfg = model.DefaultModuleConfig(req.ModuleType)
	}
	configJSON, err := model.MarshalModuleConfig(cfg)
	if err != nil {
		return nil, err
	}

	m := &model.ExamModule{
		ExamPaperID:  req.ExamPaperID,
		ModuleType:   req.ModuleType,
		DisplayOrder: req.DisplayOrder,
		ConfigJSON:   configJSON,
		Score:        req.Score,
		IsActive:     true,
	}
	if err := s.ModuleRepo.Create(m); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return m, nil
}

func (s *ModuleService) GetModule(id uint) (*model.ExamModule, error) {
	m, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return m, nil
}

func (s *ModuleService) ListModules(paperID uint, activeOnly bool) ([]model.ExamModule, error) {
	if _, err := s.PaperRepo.FindByID(paperID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return s.ModuleRepo.ListByPaper(paperID, activeOnly)
}

type ModuleUpdateRequest struct {
	ConfigJSON *string  `json:"configJson"`
	Score      *float64 `json:"score"`
}

func (s *ModuleService) UpdateModule(id uint, req ModuleUpdateRequest) (*model.ExamModule, error) {
	m, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if req.ConfigJSON != nil {
		parsed, err := model.ParseModuleConfig(m.ModuleType, *req.ConfigJSON)
		if err != nil {
			return nil, util.ValidationErrorf("%v", err)
		}
		if err := parsed.Validate(); err != nil {
			return nil, util.ValidationErrorf("%v", err)
		}
		configJSON, err := model.MarshalModuleConfig(parsed)
		if err != nil {
			return nil, err
		}
		m.ConfigJSON = configJSON
	}
	if req.Score != nil {
		if *req.Score < 0 {
			return nil, util.ValidationErrorf("score must not be negative")
		}
		m.Score = *req.Score
	}
	if err := s.ModuleRepo.Update(m); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return m, nil
}

// ReorderModules 按传入顺序把模块重排为 1..N。
// 单事务内读改写，避免并发重排互相覆盖；不属于该试卷的 id 静默忽略，
// 未出现在列表中的模块保持原有顺序值。
func (s *ModuleService) ReorderModules(paperID uint, orderedModuleIDs []uint) ([]model.ExamModule, error) {
	if paperID == 0 {
		return nil, util.ValidationErrorf("examPaperId required")
	}
	if _, err := s.PaperRepo.FindByID(paperID); err != nil {
		return nil, util.TranslateDBError(err)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var modules []model.ExamModule
		if err := tx.Where("exam_paper_id = ?", paperID).Find(&modules).Error; err != nil {
			return err
		}
		belongs := make(map[uint]bool, len(modules))
		for _, m := range modules {
			belongs[m.ID] = true
		}

		order := 0
		for _, id := range orderedModuleIDs {
			if !belongs[id] {
				continue
			}
			order++
			if err := tx.Model(&model.ExamModule{}).
				Where("id = ?", id).
				Update("display_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.ModuleRepo.ListByPaper(paperID, false)
}

// CopyModule 在原试卷内复制模块，仅复制标量字段，不复制题目
func (s *ModuleService) CopyModule(id uint) (*model.ExamModule, error) {
	m, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	return s.copyTo(m, m.ExamPaperID)
}

// CopyModuleToExamPaper 把模块复制到另一张试卷
func (s *ModuleService) CopyModuleToExamPaper(id, targetPaperID uint) (*model.ExamModule, error) {
	m, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	if _, err := s.PaperRepo.FindByID(targetPaperID); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return s.copyTo(m, targetPaperID)
}

func (s *ModuleService) copyTo(src *model.ExamModule, paperID uint) (*model.ExamModule, error) {
	dup := &model.ExamModule{
		ExamPaperID:  paperID,
		ModuleType:   src.ModuleType,
		DisplayOrder: src.DisplayOrder + 1,
		ConfigJSON:   src.ConfigJSON,
		Score:        src.Score,
		IsActive:     src.IsActive,
	}
	if err := s.ModuleRepo.Create(dup); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return dup, nil
}

// ToggleModuleActivation 启停模块，对已有作答无副作用
func (s *ModuleService) ToggleModuleActivation(id uint, isActivate bool) (*model.ExamModule, error) {
	m, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		return nil, util.TranslateDBError(err)
	}
	m.IsActive = isActivate
	if err := s.ModuleRepo.Update(m); err != nil {
		return nil, util.TranslateDBError(err)
	}
	return m, nil
}

// DeleteModule 模块下还有题目时由调用方先行清理，这里直接软删
func (s *ModuleService) DeleteModule(id uint) error {
	if _, err := s.ModuleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundf("module %d", id)
		}
		return err
	}
	return s.ModuleRepo.Delete(id)
}
