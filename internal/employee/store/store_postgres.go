package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/admin-bn/company-controller/internal/employee/models"
	id "github.com/admin-bn/company-controller/pkg/domain"
	"github.com/admin-bn/company-controller/pkg/platform/sentinel"
)

// PostgresStore persists employees in the employees table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const employeeColumns = `employee_id, first_name, last_name, email, firm_name,
	firm_subject, firm_street, firm_postal_code, firm_city`

func (s *PostgresStore) Exists(ctx context.Context, employeeID id.EmployeeID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM employees WHERE employee_id = $1)`,
		employeeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check employee exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, employeeID id.EmployeeID) (*models.Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`,
		employeeID.String(),
	)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) Create(ctx context.Context, e *models.Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID.String(), e.FirstName, e.LastName, e.Email, e.FirmName,
		e.FirmSubject, e.FirmStreet, e.FirmPostalCode, e.FirmCity)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, e *models.Employee) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees SET
			first_name = $2, last_name = $3, email = $4, firm_name = $5,
			firm_subject = $6, firm_street = $7, firm_postal_code = $8, firm_city = $9,
			updated_at = NOW()
		WHERE employee_id = $1
	`, e.ID.String(), e.FirstName, e.LastName, e.Email, e.FirmName,
		e.FirmSubject, e.FirmStreet, e.FirmPostalCode, e.FirmCity)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update employee rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, employeeID id.EmployeeID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE employee_id = $1`, employeeID.String()); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY employee_id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []*models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var e models.Employee
	var employeeID string
	if err := row.Scan(&employeeID, &e.FirstName, &e.LastName, &e.Email, &e.FirmName,
		&e.FirmSubject, &e.FirmStreet, &e.FirmPostalCode, &e.FirmCity); err != nil {
		return nil, err
	}
	e.ID = id.EmployeeID(employeeID)
	return &e, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
