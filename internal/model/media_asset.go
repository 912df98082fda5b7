package model

// MediaAssetKind 媒体类型
type MediaAssetKind string

const (
	MediaAudio MediaAssetKind = "audio"
	MediaImage MediaAssetKind = "image"
)

// MediaAsset 题目引用的音频/图片，业务侧只持有数字 id
// swagger:model MediaAsset
type MediaAsset struct {
	BaseModel
	Kind        MediaAssetKind `gorm:"size:10;not null" json:"kind"`
	FileName    string         `gorm:"size:255;not null" json:"fileName"`
	ObjectKey   string         `gorm:"size:255;not null" json:"objectKey"`
	URL         string         `gorm:"size:512" json:"url"`
	ContentType string         `gorm:"size:100" json:"contentType"`
	SizeBytes   int64          `gorm:"default:0" json:"sizeBytes"`
	DurationMs  *int           `json:"durationMs,omitempty"` // 音频时长，探测失败时为空
}

func (MediaAsset) TableName() string {
	return "media_assets"
}
