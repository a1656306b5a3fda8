package model

// StudyNote 学习笔记
// swagger:model StudyNote
type StudyNote struct {
	BaseModel
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	ContentHTML string `gorm:"type:text;not null" json:"content_html"`
	ContentText string `gorm:"type:text" json:"content_text"`
	Tags        string `gorm:"type:json" json:"tags"`
	IsPrivate   bool   `gorm:"not null;default:true;index" json:"is_private"`
	ViewCount   int    `gorm:"not null;default:0" json:"view_count"`
}

func (StudyNote) TableName() string {
	return "study_notes"
}
