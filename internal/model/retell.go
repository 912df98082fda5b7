package model

import (
	"encoding/json"
	"time"
)

// RetellItem 故事复述题
// swagger:model RetellItem
type RetellItem struct {
	BaseModel
	ExamModuleID uint   `gorm:"index;type:bigint unsigned;not null" json:"examModuleId"`
	DisplayOrder int    `gorm:"default:0" json:"displayOrder"`
	Title        string `gorm:"size:255" json:"title"`
	StoryText    string `gorm:"type:text" json:"storyText"` // 原文，自动评分的参照
	AudioAssetID *uint  `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	Difficulty   string `gorm:"size:20" json:"difficulty"`
}

func (RetellItem) TableName() string {
	return "retell_items"
}

// RetellResponse 复述作答录音与识别文本。Score 为空表示未评分
// swagger:model RetellResponse
type RetellResponse struct {
	BaseModel
	ItemID       uint            `gorm:"index;type:bigint unsigned;not null" json:"itemId"`
	UserID       uint            `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	AudioAssetID *uint           `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	AsrText      string          `gorm:"type:text" json:"asrText"`
	AnsweredAt   time.Time       `json:"answeredAt"`
	ElapsedMs    int             `gorm:"default:0" json:"elapsedMs"`
	Score        *float64        `gorm:"type:decimal(5,2)" json:"score"`
	Detail       json.RawMessage `gorm:"type:json" json:"detail,omitempty"`
	GradedAt     *time.Time      `json:"gradedAt,omitempty"`
}

func (RetellResponse) TableName() string {
	return "retell_responses"
}
