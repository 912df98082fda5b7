package model

import (
	"encoding/json"
	"time"
)

// LsaDialog 听力简答对话材料
// swagger:model LsaDialog
type LsaDialog struct {
	BaseModel
	ExamModuleID uint          `gorm:"index;type:bigint unsigned;not null" json:"examModuleId"`
	DisplayOrder int           `gorm:"default:0" json:"displayOrder"`
	Title        string        `gorm:"size:255" json:"title"`
	AudioAssetID *uint         `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	Difficulty   string        `gorm:"size:20" json:"difficulty"`
	Questions    []LsaQuestion `gorm:"foreignKey:DialogID" json:"questions,omitempty"`
}

func (LsaDialog) TableName() string {
	return "lsa_dialogs"
}

// LsaQuestion 对话下的简答小题
// swagger:model LsaQuestion
type LsaQuestion struct {
	BaseModel
	DialogID        uint   `gorm:"index;type:bigint unsigned;not null" json:"dialogId"`
	QOrder          int    `gorm:"column:q_order;default:0" json:"qOrder"`
	Content         string `gorm:"type:text;not null" json:"content"`
	ReferenceAnswer string `gorm:"type:text" json:"referenceAnswer"` // 评分参照
	AnswerSeconds   int    `gorm:"default:0" json:"answerSeconds"`
}

func (LsaQuestion) TableName() string {
	return "lsa_questions"
}

// LsaResponse 简答作答
// swagger:model LsaResponse
type LsaResponse struct {
	BaseModel
	QuestionID   uint            `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	UserID       uint            `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	AudioAssetID *uint           `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	AsrText      string          `gorm:"type:text" json:"asrText"`
	AnsweredAt   time.Time       `json:"answeredAt"`
	ElapsedMs    int             `gorm:"default:0" json:"elapsedMs"`
	Score        *float64        `gorm:"type:decimal(5,2)" json:"score"`
	Detail       json.RawMessage `gorm:"type:json" json:"detail,omitempty"`
	GradedAt     *time.Time      `json:"gradedAt,omitempty"`
}

func (LsaResponse) TableName() string {
	return "lsa_responses"
}
