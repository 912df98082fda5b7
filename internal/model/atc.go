package model

import (
	"encoding/json"
	"time"
)

// AtcScenario 陆空通话模拟场景
// swagger:model AtcScenario
type AtcScenario struct {
	BaseModel
	ExamModuleID uint      `gorm:"index;type:bigint unsigned;not null" json:"examModuleId"`
	DisplayOrder int       `gorm:"default:0" json:"displayOrder"`
	Title        string    `gorm:"size:255" json:"title"`
	Background   string    `gorm:"type:text" json:"background"` // 航班/空域背景信息
	Difficulty   string    `gorm:"size:20" json:"difficulty"`
	Turns        []AtcTurn `gorm:"foreignKey:ScenarioID" json:"turns,omitempty"`
}

func (AtcScenario) TableName() string {
	return "atc_scenarios"
}

// AtcTurn 场景中的一轮通话，考生对管制员指令逐轮应答
// swagger:model AtcTurn
type AtcTurn struct {
	BaseModel
	ScenarioID      uint   `gorm:"index;type:bigint unsigned;not null" json:"scenarioId"`
	TurnNumber      int    `gorm:"default:0" json:"turnNumber"`
	Speaker         string `gorm:"size:20" json:"speaker"` // controller / pilot
	Prompt          string `gorm:"type:text;not null" json:"prompt"`
	AudioAssetID    *uint  `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	ExpectedReply   string `gorm:"type:text" json:"expectedReply"` // 标准复诵，自动评分参照
	ResponseSeconds int    `gorm:"default:0" json:"responseSeconds"`
}

func (AtcTurn) TableName() string {
	return "atc_turns"
}

// AtcTurnResponse 一轮通话的应答
// swagger:model AtcTurnResponse
type AtcTurnResponse struct {
	BaseModel
	TurnID       uint            `gorm:"index;type:bigint unsigned;not null" json:"turnId"`
	UserID       uint            `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	AudioAssetID *uint           `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	AsrText      string          `gorm:"type:text" json:"asrText"`
	AnsweredAt   time.Time       `json:"answeredAt"`
	ElapsedMs    int             `gorm:"default:0" json:"elapsedMs"`
	Score        *float64        `gorm:"type:decimal(5,2)" json:"score"`
	Detail       json.RawMessage `gorm:"type:json" json:"detail,omitempty"`
	GradedAt     *time.Time      `json:"gradedAt,omitempty"`
}

func (AtcTurnResponse) TableName() string {
	return "atc_turn_responses"
}
