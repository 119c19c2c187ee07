package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/odelarosa/tuition-engine/internal/domain"
)

type contractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	query := `
		SELECT id, student_id, guardian_id, start_date, end_date, total_value, installment_value, installment_count, status, created_at, updated_at
		FROM contracts
		WHERE id = $1
	`

	var contract domain.Contract
	if err := r.db.GetContext(ctx, &contract, query, id); err != nil {
		return nil, err
	}

	return &contract, nil
}

func (r *contractRepository) GetCampusID(ctx context.Context, contractID int64) (int64, error) {
	query := `
		SELECT s.campus_id
		FROM contracts c
		JOIN students s ON s.id = c.student_id
		WHERE c.id = $1
	`

	var campusID int64
	if err := r.db.GetContext(ctx, &campusID, query, contractID); err != nil {
		return 0, err
	}

	return campusID, nil
}
