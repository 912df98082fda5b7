package model

import (
	"encoding/json"
	"time"
)

// OpiTopic 口语面试话题
// swagger:model OpiTopic
type OpiTopic struct {
	BaseModel
	ExamModuleID uint          `gorm:"index;type:bigint unsigned;not null" json:"examModuleId"`
	DisplayOrder int           `gorm:"default:0" json:"displayOrder"`
	Title        string        `gorm:"size:255;not null" json:"title"`
	Description  string        `gorm:"type:text" json:"description"`
	Difficulty   string        `gorm:"size:20" json:"difficulty"`
	Questions    []OpiQuestion `gorm:"foreignKey:TopicID" json:"questions,omitempty"`
}

func (OpiTopic) TableName() string {
	return "opi_topics"
}

// OpiQuestion 面试问题
// swagger:model OpiQuestion
type OpiQuestion struct {
	BaseModel
	TopicID       uint   `gorm:"index;type:bigint unsigned;not null" json:"topicId"`
	QOrder        int    `gorm:"column:q_order;default:0" json:"qOrder"`
	Content       string `gorm:"type:text;not null" json:"content"`
	AnswerSeconds int    `gorm:"default:0" json:"answerSeconds"`
	ScoringRubric string `gorm:"type:text" json:"scoringRubric"` // 评分量规，自动评分参照
}

func (OpiQuestion) TableName() string {
	return "opi_questions"
}

// OpiResponse 面试作答。每题至多一次作答，由唯一索引在存储层兜底
// swagger:model OpiResponse
type OpiResponse struct {
	BaseModel
	QuestionID   uint            `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"questionId"`
	UserID       uint            `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	AudioAssetID *uint           `gorm:"type:bigint unsigned" json:"audioAssetId,omitempty"`
	AsrText      string          `gorm:"type:text" json:"asrText"`
	AnsweredAt   time.Time       `json:"answeredAt"`
	ElapsedMs    int             `gorm:"default:0" json:"elapsedMs"`
	Score        *float64        `gorm:"type:decimal(5,2)" json:"score"`
	Detail       json.RawMessage `gorm:"type:json" json:"detail,omitempty"`
	GradedAt     *time.Time      `json:"gradedAt,omitempty"`
}

func (OpiResponse) TableName() string {
	return "opi_responses"
}
