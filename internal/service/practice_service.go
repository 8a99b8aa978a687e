package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/studyprep-go-api/internal/dto"
	"github.com/noah-isme/studyprep-go-api/internal/models"
	"github.com/noah-isme/studyprep-go-api/internal/repository"
)

var (
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrWrongQuestionNotFound indicates the user has no ledger row for the question.
	ErrWrongQuestionNotFound = errors.New("wrong question record not found")
)

// PracticeService grades submissions, maintains the wrong-question ledger and
// assembles reinforcement-first practice sets.
type PracticeService interface {
	SubmitAnswer(ctx context.Context, userID uint, payload dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error)
	GetWrongQuestions(ctx context.Context, userID uint, mastered *bool) ([]dto.WrongQuestionResponse, error)
	MarkMastered(ctx context.Context, userID, questionID uint) error
	GetSmartPracticeQuestions(ctx context.Context, userID uint, subject string, count int) ([]dto.QuestionResponse, error)
}

type practiceService struct {
	questions repository.QuestionRepository
	records   repository.AnswerRecordRepository
	wrongs    repository.WrongQuestionRepository
	tx        repository.PracticeTxRunner
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewPracticeService constructs a PracticeService instance.
func NewPracticeService(
	questions repository.QuestionRepository,
	records repository.AnswerRecordRepository,
	wrongs repository.WrongQuestionRepository,
	tx repository.PracticeTxRunner,
	validate *validator.Validate,
	logger zerolog.Logger,
) PracticeService {
	return &practiceService{
		questions: questions,
		records:   records,
		wrongs:    wrongs,
		tx:        tx,
		validator: validate,
		logger:    logger.With().Str("component", "practice_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/studyprep-go-api/internal/service/practice"),
		now:       time.Now,
	}
}

// SubmitAnswer grades one submission. The record append, the question counter
// bumps and the wrong-question upsert commit as a single transaction.
func (s *practiceService) SubmitAnswer(ctx context.Context, userID uint, payload dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error) {
	ctx, span := s.tracer.Start(ctx, "practice.submit_answer")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmitAnswerResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, payload.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitAnswerResponse{}, ErrQuestionNotFound
		}
		return dto.SubmitAnswerResponse{}, err
	}

	correct := question.Matches(payload.UserAnswer)
	span.SetAttributes(
		attribute.Int("question.id", int(payload.QuestionID)),
		attribute.Bool("submission.correct", correct),
	)

	err = s.tx.InTransaction(ctx, func(tx repository.PracticeTx) error {
		record := models.AnswerRecord{
			UserID:     userID,
			QuestionID: payload.QuestionID,
			UserAnswer: payload.UserAnswer,
			IsCorrect:  correct,
			TimeSpent:  payload.TimeSpent,
		}
		if err := tx.Records.Create(ctx, &record); err != nil {
			return err
		}

		if err := tx.Questions.IncrementCounters(ctx, payload.QuestionID, correct); err != nil {
			return err
		}

		if !correct {
			return tx.Wrongs.Upsert(ctx, userID, payload.QuestionID, s.now())
		}

		return nil
	})
	if err != nil {
		return dto.SubmitAnswerResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", userID).
		Uint("question_id", payload.QuestionID).
		Bool("correct", correct).
		Msg("answer submitted")

	return dto.SubmitAnswerResponse{
		QuestionID: payload.QuestionID,
		Correct:    correct,
		Answer:     question.Answer,
		Analysis:   question.Analysis,
	}, nil
}

func (s *practiceService) GetWrongQuestions(ctx context.Context, userID uint, mastered *bool) ([]dto.WrongQuestionResponse, error) {
	var (
		entries []models.WrongQuestion
		err     error
	)
	if mastered != nil {
		entries, err = s.wrongs.ListByUserAndMastered(ctx, userID, *mastered)
	} else {
		entries, err = s.wrongs.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	questions, err := s.resolveQuestions(ctx, entries)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.WrongQuestionResponse, 0, len(entries))
	for _, entry := range entries {
		question, ok := questions[entry.QuestionID]
		if !ok {
			continue
		}
		responses = append(responses, dto.WrongQuestionResponse{
			Question:       dto.NewQuestionResponse(question),
			WrongCount:     entry.WrongCount,
			Mastered:       entry.Mastered,
			LastReviewTime: entry.LastReviewTime,
		})
	}

	return responses, nil
}

func (s *practiceService) MarkMastered(ctx context.Context, userID, questionID uint) error {
	if err := s.wrongs.MarkMastered(ctx, userID, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWrongQuestionNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", userID).Uint("question_id", questionID).Msg("wrong question mastered")

	return nil
}

// GetSmartPracticeQuestions serves every unmastered wrong question first and
// tops the set up from the subject pool when the ledger alone cannot fill the
// requested count. Wrong questions are pulled across all subjects, not just the
// requested one; the result may exceed count by the ledger contribution or
// fall short when both pools are thin, and is never padded. Top-up candidates
// already covered by the wrong-question set are skipped rather than repeated,
// so a question never appears twice in one set.
func (s *practiceService) GetSmartPracticeQuestions(ctx context.Context, userID uint, subject string, count int) ([]dto.QuestionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "practice.smart_set")
	defer span.End()

	entries, err := s.wrongs.ListByUserAndMastered(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.QuestionID)
	}

	questions, err := s.questions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(questions) < count {
		fresh, err := s.questions.ListBySubject(ctx, subject, count)
		if err != nil {
			return nil, err
		}

		seen := make(map[uint]struct{}, len(questions))
		for _, question := range questions {
			seen[question.ID] = struct{}{}
		}
		for _, question := range fresh {
			if len(questions) >= count {
				break
			}
			if _, ok := seen[question.ID]; ok {
				continue
			}
			questions = append(questions, question)
		}
	}

	span.SetAttributes(
		attribute.Int("practice.wrong_questions", len(ids)),
		attribute.Int("practice.served", len(questions)),
	)

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *practiceService) resolveQuestions(ctx context.Context, entries []models.WrongQuestion) (map[uint]models.Question, error) {
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.QuestionID)
	}

	questions, err := s.questions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	return byID, nil
}
