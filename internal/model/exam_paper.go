package model

// swagger:model ExamPaper
type ExamPaper struct {
	BaseModel
	Code             string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name             string `gorm:"size:255;not null" json:"name"`
	TotalDurationMin int    `gorm:"not null" json:"totalDurationMin"` // 考试总时长（分钟）
	Description      string `gorm:"type:text" json:"description"`
}

func (ExamPaper) TableName() string {
	return "exam_papers"
}
