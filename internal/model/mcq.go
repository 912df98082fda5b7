package model

import (
	"encoding/json"
	"time"
)

// McqQuestion 听力选择题
// swagger:model McqQuestion
type McqQuestion struct {
	BaseModel
	ExamModuleID uint        `gorm:"index;type:bigint unsigned;not null" json:"examModuleId"`
	DisplayOrder int         `gorm:"default:0" json:"displayOrder"`
	Content      string      `gorm:"type:text;not null" json:"content"` // 题干
	AudioAssetID *uint       `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	ImageAssetID *uint       `gorm:"type:bigint unsigned" json:"imageAssetId,omitempty"`
	Difficulty   string      `gorm:"size:20" json:"difficulty"`
	Explanation  string      `gorm:"type:text" json:"explanation"`
	Choices      []McqChoice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (McqQuestion) TableName() string {
	return "mcq_questions"
}

// McqChoice 选项。正确答案以选项上的标志位表示，写路径保证每题只保留一个
// swagger:model McqChoice
type McqChoice struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	Label      string `gorm:"size:10;not null" json:"label"` // A/B/C/D
	Content    string `gorm:"type:text;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (McqChoice) TableName() string {
	return "mcq_choices"
}

// McqResponse 选择题作答。IsCorrect 为空表示未判分；重判按选项当前标志位重算
// swagger:model McqResponse
type McqResponse struct {
	BaseModel
	QuestionID       uint            `gorm:"index;type:bigint unsigned;not null" json:"questionId"`
	UserID           uint            `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SelectedChoiceID uint            `gorm:"type:bigint unsigned;not null" json:"selectedChoiceId"`
	AnsweredAt       time.Time       `json:"answeredAt"`
	ElapsedMs        int             `gorm:"default:0" json:"elapsedMs"`
	IsCorrect        *bool           `json:"isCorrect"`
	Detail           json.RawMessage `gorm:"type:json" json:"detail,omitempty"`
	GradedAt         *time.Time      `json:"gradedAt,omitempty"`
}

func (McqResponse) TableName() string {
	return "mcq_responses"
}
