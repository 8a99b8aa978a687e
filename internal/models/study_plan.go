package models

import "time"

// StudyPlan represents a user's exam preparation schedule between two dates.
type StudyPlan struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	TargetUniversity string    `gorm:"size:255" json:"target_university"`
	TargetMajor      string    `gorm:"size:255" json:"target_major"`
	StartDate        time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate          time.Time `gorm:"type:date;not null" json:"end_date"`
	TotalDays        int       `gorm:"not null" json:"total_days"`
	CompletedDays    int       `gorm:"default:0" json:"completed_days"`
	Progress         int       `gorm:"default:0" json:"progress"`
	Status           string    `gorm:"size:16;default:ACTIVE" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	// PlanStatusActive indicates the plan is being worked through.
	PlanStatusActive = "ACTIVE"
	// PlanStatusCompleted indicates every scheduled day has been finished.
	PlanStatusCompleted = "COMPLETED"
	// PlanStatusPaused indicates the user suspended the plan.
	PlanStatusPaused = "PAUSED"
)

// ValidPlanStatus reports whether the given status is one of the known plan states.
func ValidPlanStatus(status string) bool {
	switch status {
	case PlanStatusActive, PlanStatusCompleted, PlanStatusPaused:
		return true
	default:
		return false
	}
}

// StudyPlanItem is one scheduled unit of study (subject + chapter + date) within a plan.
type StudyPlanItem struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PlanID         uint       `gorm:"index;not null" json:"plan_id"`
	Subject        string     `gorm:"size:64;not null" json:"subject"`
	Chapter        string     `gorm:"size:64" json:"chapter"`
	Section        string     `gorm:"size:64" json:"section"`
	PlanDate       time.Time  `gorm:"type:date;index;not null" json:"plan_date"`
	EstimatedHours int        `gorm:"default:2" json:"estimated_hours"`
	ActualHours    int        `json:"actual_hours"`
	Content        string     `gorm:"type:text" json:"content"`
	Completed      bool       `gorm:"default:false" json:"completed"`
	CompletedTime  *time.Time `json:"completed_time"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
