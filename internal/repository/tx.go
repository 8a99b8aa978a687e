package repository

import (
	"context"

	"gorm.io/gorm"
)

// PracticeTx groups the repositories a graded submission mutates, all bound to
// the same transaction: the answer-record append, the question counter bumps
// and the wrong-question upsert commit or roll back together.
type PracticeTx struct {
	Questions QuestionRepository
	Records   AnswerRecordRepository
	Wrongs    WrongQuestionRepository
}

// PracticeTxRunner executes a function inside one database transaction.
type PracticeTxRunner interface {
	InTransaction(ctx context.Context, fn func(PracticeTx) error) error
}

type practiceTxRunner struct {
	db *gorm.DB
}

// NewPracticeTxRunner builds a transaction runner over the shared connection.
func NewPracticeTxRunner(db *gorm.DB) PracticeTxRunner {
	return &practiceTxRunner{db: db}
}

func (r *practiceTxRunner) InTransaction(ctx context.Context, fn func(PracticeTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(PracticeTx{
			Questions: NewQuestionRepository(tx),
			Records:   NewAnswerRecordRepository(tx),
			Wrongs:    NewWrongQuestionRepository(tx),
		})
	})
}
