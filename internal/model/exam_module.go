package model

// ModuleType 试卷模块类型，持久化存储符号名而非序号
type ModuleType string

const (
	ModuleListeningMcq ModuleType = "LISTENING_MCQ"
	ModuleStoryRetell  ModuleType = "STORY_RETELL"
	ModuleListeningSa  ModuleType = "LISTENING_SA"
	ModuleAtcSim       ModuleType = "ATC_SIM"
	ModuleOpi          ModuleType = "OPI"
)

// AllModuleTypes 所有模块类型，按试卷常规出现顺序排列
var AllModuleTypes = []ModuleType{
	ModuleListeningMcq,
	ModuleStoryRetell,
	ModuleListeningSa,
	ModuleAtcSim,
	ModuleOpi,
}

func (t ModuleType) Valid() bool {
	switch t {
	case ModuleListeningMcq, ModuleStoryRetell, ModuleListeningSa, ModuleAtcSim, ModuleOpi:
		return true
	}
	return false
}

// swagger:model ExamModule
type ExamModule struct {
	BaseModel
	ExamPaperID  uint       `gorm:"index;type:bigint unsigned;not null" json:"examPaperId"`
	ModuleType   ModuleType `gorm:"size:20;not null" json:"moduleType"`
	DisplayOrder int        `gorm:"default:0" json:"displayOrder"`
	ConfigJSON   string     `gorm:"column:config_json;type:json" json:"configJson"`
	Score        float64    `gorm:"type:decimal(6,2);default:0" json:"score"` // 模块分值权重
	IsActive     bool       `gorm:"default:true" json:"isActive"`
}

func (ExamModule) TableName() string {
	return "exam_modules"
}
