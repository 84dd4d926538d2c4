package sqlite

import "context"

type shiftsRepo struct {
	db dbtx
}

func (r *shiftsRepo) HasOpenShift(ctx context.Context, accountID string) (bool, error) {
	var open bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pos_shifts WHERE account_id = ? AND remitted_at IS NULL
		)`, accountID).Scan(&open)
	return open, err
}
