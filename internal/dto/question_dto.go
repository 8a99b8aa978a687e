package dto

import (
	"time"

	"github.com/noah-isme/studyprep-go-api/internal/models"
)

// QuestionCreateRequest describes the payload for adding a question to the bank.
type QuestionCreateRequest struct {
	Subject        string `json:"subject" validate:"required"`
	Chapter        string `json:"chapter"`
	KnowledgePoint string `json:"knowledge_point"`
	Type           string `json:"type" validate:"required,oneof=SINGLE_CHOICE MULTIPLE_CHOICE TRUE_FALSE FILL_BLANK ESSAY"`
	Difficulty     string `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	Content        string `json:"content" validate:"required"`
	OptionA        string `json:"option_a"`
	OptionB        string `json:"option_b"`
	OptionC        string `json:"option_c"`
	OptionD        string `json:"option_d"`
	Answer         string `json:"answer" validate:"required"`
	Analysis       string `json:"analysis"`
	Year           string `json:"year"`
}

// QuestionFilter narrows paged question listings. Pages are 1-based.
type QuestionFilter struct {
	Subject  string `validate:"omitempty"`
	Chapter  string `validate:"omitempty"`
	Type     string `validate:"omitempty"`
	Year     string `validate:"omitempty"`
	Page     int    `validate:"gte=1"`
	PageSize int    `validate:"gte=1,lte=100"`
}

// SubmitAnswerRequest carries one practice submission.
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	UserAnswer string `json:"user_answer" validate:"required"`
	TimeSpent  int    `json:"time_spent" validate:"gte=0"`
}

// SubmitAnswerResponse reports the graded outcome of a submission.
type SubmitAnswerResponse struct {
	QuestionID uint   `json:"question_id"`
	Correct    bool   `json:"correct"`
	Answer     string `json:"answer"`
	Analysis   string `json:"analysis"`
}

// QuestionResponse is the serialized representation of a bank question.
type QuestionResponse struct {
	ID             uint      `json:"id"`
	Subject        string    `json:"subject"`
	Chapter        string    `json:"chapter"`
	KnowledgePoint string    `json:"knowledge_point"`
	Type           string    `json:"type"`
	Difficulty     string    `json:"difficulty"`
	Content        string    `json:"content"`
	OptionA        string    `json:"option_a"`
	OptionB        string    `json:"option_b"`
	OptionC        string    `json:"option_c"`
	OptionD        string    `json:"option_d"`
	Answer         string    `json:"answer"`
	Analysis       string    `json:"analysis"`
	Year           string    `json:"year"`
	AnswerCount    int       `json:"answer_count"`
	CorrectCount   int       `json:"correct_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewQuestionResponse converts a model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:             model.ID,
		Subject:        model.Subject,
		Chapter:        model.Chapter,
		KnowledgePoint: model.KnowledgePoint,
		Type:           model.Type,
		Difficulty:     model.Difficulty,
		Content:        model.Content,
		OptionA:        model.OptionA,
		OptionB:        model.OptionB,
		OptionC:        model.OptionC,
		OptionD:        model.OptionD,
		Answer:         model.Answer,
		Analysis:       model.Analysis,
		Year:           model.Year,
		AnswerCount:    model.AnswerCount,
		CorrectCount:   model.CorrectCount,
		CreatedAt:      model.CreatedAt,
	}
}

// NewQuestionResponseSlice converts a slice of models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}

// QuestionPageResponse wraps a page of questions with paging metadata.
type QuestionPageResponse struct {
	Items    []QuestionResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// WrongQuestionResponse pairs a missed question with its ledger entry.
type WrongQuestionResponse struct {
	Question       QuestionResponse `json:"question"`
	WrongCount     int              `json:"wrong_count"`
	Mastered       bool             `json:"mastered"`
	LastReviewTime *time.Time       `json:"last_review_time"`
}
