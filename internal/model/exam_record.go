package model

import "time"

// ExamRecord 一次考试尝试。创建 → 开始（StartedAt 落时间戳）→ 结束（IsFinished 置位，终态）。
// 作答记录不关联到具体尝试，是否补上该关联见 DESIGN.md。
// swagger:model ExamRecord
type ExamRecord struct {
	BaseModel
	ExamPaperID uint       `gorm:"index;type:bigint unsigned;not null" json:"examPaperId"`
	UserID      uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	StartedAt   *time.Time `json:"startedAt"`
	IsFinished  bool       `gorm:"default:false" json:"isFinished"`
}

func (ExamRecord) TableName() string {
	return "exam_records"
}
