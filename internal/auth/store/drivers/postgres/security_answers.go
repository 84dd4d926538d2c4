package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/jmoiron/sqlx"
)

type securityAnswersRepo struct {
	db dbtx
}

func (r *securityAnswersRepo) Get(ctx context.Context, accountID string) (domain.SecurityAnswer, error) {
	var row struct {
		QuestionID int       `db:"question_id"`
		AnswerHash string    `db:"answer_hash"`
		UpdatedAt  time.Time `db:"updated_at"`
	}
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT question_id, answer_hash, updated_at
		FROM security_answers WHERE account_id = $1`, accountID)
	if err != nil {
		return domain.SecurityAnswer{}, mapNotFound(err)
	}
	return domain.SecurityAnswer{
		AccountID:  accountID,
		QuestionID: row.QuestionID,
		AnswerHash: row.AnswerHash,
		UpdatedAt:  utc(row.UpdatedAt),
	}, nil
}

func (r *securityAnswersRepo) Upsert(ctx context.Context, a domain.SecurityAnswer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_answers (account_id, question_id, answer_hash, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			question_id = EXCLUDED.question_id,
			answer_hash = EXCLUDED.answer_hash,
			updated_at  = EXCLUDED.updated_at`,
		a.AccountID, a.QuestionID, a.AnswerHash, a.UpdatedAt)
	return err
}
