package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/admin-bn/company-controller/internal/credential/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `id, credential_revocation_id, revocation_registry_id,
	credential_exchange_id, connection_id, issuance_date`

func (s *PostgresStore) Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM issued_credentials WHERE id = $1)`,
		employeeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check issued credential exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, employeeID id.EmployeeID) (*models.Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM issued_credentials WHERE id = $1`,
		employeeID.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find issued credential: %w", err)
	}
	return r, nil
}

// Save inserts the record or replaces the one stored under the same id.
func (s *PostgresStore) Save(ctx context.Context, r *models.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issued_credentials (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			credential_revocation_id = EXCLUDED.credential_revocation_id,
			revocation_registry_id   = EXCLUDED.revocation_registry_id,
			credential_exchange_id   = EXCLUDED.credential_exchange_id,
			connection_id            = EXCLUDED.connection_id,
			issuance_date            = EXCLUDED.issuance_date
	`, r.ID.String(), r.CredentialRevocationID, r.RevocationRegistryID,
		r.CredentialExchangeID.String(), r.ConnectionID.String(), r.IssuanceDate)
	if err != nil {
		return fmt.Errorf("save issued credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, employeeID id.EmployeeID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM issued_credentials WHERE id = $1`, employeeID.String()); err != nil {
		return fmt.Errorf("delete issued credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM issued_credentials ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list issued credentials: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan issued credential: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issued credentials: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		r                                    models.Record
		employeeID, exchangeID, connectionID string
	)
	if err := row.Scan(&employeeID, &r.CredentialRevocationID, &r.RevocationRegistryID,
		&exchangeID, &connectionID, &r.IssuanceDate); err != nil {
		return nil, err
	}
	r.ID = id.EmployeeID(employeeID)
	r.CredentialExchangeID = id.CredentialExchangeID(exchangeID)
	r.ConnectionID = id.ConnectionID(connectionID)
	r.IssuanceDate = r.IssuanceDate.UTC()
	return &r, nil
}
