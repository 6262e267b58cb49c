package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/codegate/gateway-server-go/internal/model"
)

// AccessCodeRepository handles whitelist data operations. Codes are written
// once by the seeding routine and never updated by request handling.
type AccessCodeRepository interface {
	FindByEncrypted(ctx context.Context, encrypted string) (*model.AccessCode, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, code, encrypted string) (*model.AccessCode, error)
	DeleteAll(ctx context.Context) error
}

type accessCodeRepo struct {
	db *sqlx.DB
}

// NewAccessCodeRepository creates a new access code repository
func NewAccessCodeRepository(db *sqlx.DB) AccessCodeRepository {
	return &accessCodeRepo{db: db}
}

// FindByEncrypted looks up a whitelist entry by its deterministic ciphertext
func (r *accessCodeRepo) FindByEncrypted(ctx context.Context, encrypted string) (*model.AccessCode, error) {
	var ac model.AccessCode
	err := r.db.GetContext(ctx, &ac, `
		SELECT * FROM access_codes WHERE encrypted_code = $1
	`, encrypted)
	return HandleNotFound(&ac, err)
}

func (r *accessCodeRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM access_codes`)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *accessCodeRepo) Insert(ctx context.Context, code, encrypted string) (*model.AccessCode, error) {
	var ac model.AccessCode
	err := r.db.GetContext(ctx, &ac, `
		INSERT INTO access_codes (code, encrypted_code)
		VALUES ($1, $2)
		RETURNING *
	`, code, encrypted)
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

// DeleteAll clears the whitelist. Only the seeding routine calls this, and
// only after confirming the table is already empty.
func (r *accessCodeRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM access_codes`)
	return err
}
