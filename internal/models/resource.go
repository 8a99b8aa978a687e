package models

import "time"

// LearningResource is a study material (video, document or question bank file)
// attached to a subject and chapter.
type LearningResource struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Type          string    `gorm:"size:32;index" json:"type"`
	Subject       string    `gorm:"size:64;index" json:"subject"`
	Chapter       string    `gorm:"size:64" json:"chapter"`
	Section       string    `gorm:"size:64" json:"section"`
	FileURL       string    `gorm:"size:512" json:"file_url"`
	CoverURL      string    `gorm:"size:512" json:"cover_url"`
	Duration      int       `json:"duration"`
	FileSize      int64     `json:"file_size"`
	ViewCount     int       `gorm:"default:0" json:"view_count"`
	DownloadCount int       `gorm:"default:0" json:"download_count"`
	Published     bool      `gorm:"default:false" json:"published"`
	UploaderID    uint      `gorm:"index" json:"uploader_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	// ResourceTypeVideo is a recorded lecture or walkthrough.
	ResourceTypeVideo = "VIDEO"
	// ResourceTypeDocument is a PDF or text material.
	ResourceTypeDocument = "DOCUMENT"
	// ResourceTypeQuestionBank is a downloadable practice set.
	ResourceTypeQuestionBank = "QUESTION_BANK"
)
