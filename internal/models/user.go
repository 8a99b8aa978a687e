package models

import "time"

// Account roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an exam-prep app account, created lazily on first wechat
// login. Admin accounts additionally carry credentials for the console login;
// Username is a pointer so credential-less wechat accounts do not collide on
// the unique index.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	OpenID             string    `gorm:"size:64;uniqueIndex;not null" json:"open_id"`
	Username           *string   `gorm:"size:64;uniqueIndex" json:"username,omitempty"`
	Password           string    `gorm:"size:128" json:"-"`
	NickName           string    `gorm:"size:64" json:"nick_name"`
	AvatarURL          string    `gorm:"size:512" json:"avatar_url"`
	Gender             string    `gorm:"size:16" json:"gender"`
	Phone              string    `gorm:"size:32" json:"phone"`
	Email              string    `gorm:"size:255" json:"email"`
	TargetUniversity   string    `gorm:"size:255" json:"target_university"`
	TargetMajor        string    `gorm:"size:255" json:"target_major"`
	ExamYear           string    `gorm:"size:8" json:"exam_year"`
	StudyDays          int       `gorm:"default:0" json:"study_days"`
	StudyHours         int       `gorm:"default:0" json:"study_hours"`
	CompletedQuestions int       `gorm:"default:0" json:"completed_questions"`
	CorrectQuestions   int       `gorm:"default:0" json:"correct_questions"`
	Role               string    `gorm:"size:16;default:USER" json:"role"`
	Enabled            bool      `gorm:"default:true" json:"enabled"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
