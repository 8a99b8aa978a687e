package models

import (
	"strings"
	"time"
)

// Question is a single entry of the practice question bank.
type Question struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Subject        string    `gorm:"size:64;index;not null" json:"subject"`
	Chapter        string    `gorm:"size:64;index" json:"chapter"`
	KnowledgePoint string    `gorm:"size:255" json:"knowledge_point"`
	Type           string    `gorm:"size:32;index" json:"type"`
	Difficulty     string    `gorm:"size:16" json:"difficulty"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	OptionA        string    `gorm:"type:text" json:"option_a"`
	OptionB        string    `gorm:"type:text" json:"option_b"`
	OptionC        string    `gorm:"type:text" json:"option_c"`
	OptionD        string    `gorm:"type:text" json:"option_d"`
	Answer         string    `gorm:"size:512;not null" json:"answer"`
	Analysis       string    `gorm:"type:text" json:"analysis"`
	Year           string    `gorm:"size:8;index" json:"year"`
	AnswerCount    int       `gorm:"default:0" json:"answer_count"`
	CorrectCount   int       `gorm:"default:0" json:"correct_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	// QuestionTypeSingleChoice is a single-answer multiple choice question.
	QuestionTypeSingleChoice = "SINGLE_CHOICE"
	// QuestionTypeMultipleChoice allows several correct options.
	QuestionTypeMultipleChoice = "MULTIPLE_CHOICE"
	// QuestionTypeTrueFalse is a yes/no judgement question.
	QuestionTypeTrueFalse = "TRUE_FALSE"
	// QuestionTypeFillBlank expects a short free-text answer.
	QuestionTypeFillBlank = "FILL_BLANK"
	// QuestionTypeEssay expects a long-form answer.
	QuestionTypeEssay = "ESSAY"
)

// Matches reports whether the submitted answer is correct. Comparison is
// whitespace-trimmed and case-insensitive; there is no partial credit.
func (q Question) Matches(userAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(q.Answer), strings.TrimSpace(userAnswer))
}

// AnswerRecord is an append-only log entry for one submission attempt.
type AnswerRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	UserAnswer string    `gorm:"size:512" json:"user_answer"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	TimeSpent  int       `json:"time_spent"`
	CreatedAt  time.Time `json:"created_at"`
}

// WrongQuestion tracks how often a user has missed a question and whether they
// have since marked it mastered. At most one row exists per (user, question).
type WrongQuestion struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_wrong_user_question" json:"user_id"`
	QuestionID     uint       `gorm:"not null;uniqueIndex:idx_wrong_user_question" json:"question_id"`
	WrongCount     int        `gorm:"default:1" json:"wrong_count"`
	Mastered       bool       `gorm:"default:false" json:"mastered"`
	LastReviewTime *time.Time `json:"last_review_time"`
	CreatedAt      time.Time  `json:"created_at"`
}
