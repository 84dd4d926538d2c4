package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type shiftsRepo struct {
	db dbtx
}

func (r *shiftsRepo) HasOpenShift(ctx context.Context, accountID string) (bool, error) {
	var open bool
	err := sqlx.GetContext(ctx, r.db, &open, `
		SELECT EXISTS (
			SELECT 1 FROM pos_shifts WHERE account_id = $1 AND remitted_at IS NULL
		)`, accountID)
	return open, err
}
