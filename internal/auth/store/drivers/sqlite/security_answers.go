package sqlite

import (
	"context"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

type securityAnswersRepo struct {
	db dbtx
}

func (r *securityAnswersRepo) Get(ctx context.Context, accountID string) (domain.SecurityAnswer, error) {
	a := domain.SecurityAnswer{AccountID: accountID}
	var updated int64
	err := r.db.QueryRowContext(ctx, `
		SELECT question_id, answer_hash, updated_at
		FROM security_answers WHERE account_id = ?`, accountID).
		Scan(&a.QuestionID, &a.AnswerHash, &updated)
	if err != nil {
		return domain.SecurityAnswer{}, mapNotFound(err)
	}
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}

func (r *securityAnswersRepo) Upsert(ctx context.Context, a domain.SecurityAnswer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_answers (account_id, question_id, answer_hash, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			question_id = excluded.question_id,
			answer_hash = excluded.answer_hash,
			updated_at  = excluded.updated_at`,
		a.AccountID, a.QuestionID, a.AnswerHash, toMillis(a.UpdatedAt))
	return err
}
