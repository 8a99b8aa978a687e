package models

import (
	"time"

	"gorm.io/datatypes"
)

// CommunityPost is a forum entry shared with other exam candidates.
type CommunityPost struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	UserID       uint                        `gorm:"index;not null" json:"user_id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Content      string                      `gorm:"type:text" json:"content"`
	Category     string                      `gorm:"size:32;index" json:"category"`
	Images       datatypes.JSONSlice[string] `gorm:"type:json" json:"images"`
	ViewCount    int                         `gorm:"default:0" json:"view_count"`
	LikeCount    int                         `gorm:"default:0" json:"like_count"`
	CommentCount int                         `gorm:"default:0" json:"comment_count"`
	Published    bool                        `gorm:"default:true" json:"published"`
	Pinned       bool                        `gorm:"default:false" json:"pinned"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

const (
	// PostCategoryNews is official announcements and exam news.
	PostCategoryNews = "NEWS"
	// PostCategoryExperience is shared preparation write-ups.
	PostCategoryExperience = "EXPERIENCE"
	// PostCategoryDiscussion is open discussion threads.
	PostCategoryDiscussion = "DISCUSSION"
	// PostCategoryCheckIn is daily study check-in shares.
	PostCategoryCheckIn = "CHECK_IN"
)

// PostComment is a reply on a community post, optionally nested under a parent.
type PostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ParentID  *uint     `json:"parent_id"`
	LikeCount int       `gorm:"default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}

// StudyCheckIn records one study log per user per calendar day. The composite
// unique index is what actually enforces the one-per-day invariant under
// concurrent requests.
type StudyCheckIn struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	UserID      uint                        `gorm:"not null;uniqueIndex:idx_checkin_user_date" json:"user_id"`
	CheckInDate time.Time                   `gorm:"type:date;not null;uniqueIndex:idx_checkin_user_date" json:"check_in_date"`
	StudyHours  int                         `json:"study_hours"`
	Note        string                      `gorm:"type:text" json:"note"`
	Images      datatypes.JSONSlice[string] `gorm:"type:json" json:"images"`
	CreatedAt   time.Time                   `json:"created_at"`
}
