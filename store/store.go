package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// Store provides manual-SQL data access for employees, leave requests and
// payslips.
type Store struct {
	DB     *DB
	cipher *fieldCipher
}

// Option configures Store behavior.
type Option func(*storeOptions)

type storeOptions struct {
	dataKey string
}

// WithDataKey enables at-rest encryption of payslip bank accounts.
func WithDataKey(key string) Option {
	return func(opts *storeOptions) {
		opts.dataKey = key
	}
}

func New(db *DB, opts ...Option) (*Store, error) {
	options := storeOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	c, err := newFieldCipher(options.dataKey)
	if err != nil {
		return nil, fmt.Errorf("data key: %w", err)
	}
	return &Store{DB: db, cipher: c}, nil
}

func (s *Store) ensureDB() (*sqlx.DB, error) {
	if s == nil || s.DB == nil || s.DB.DB == nil {
		return nil, apperr.Wrap(errors.New("nil db"), apperr.ErrDatabase, "")
	}
	return s.DB.DB, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp *hr_fields.Employee) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now().UTC()
	}
	emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
	stmt := db.Rebind(`INSERT INTO employees(id, full_name, email, position, department, created_at)
		VALUES(?, ?, ?, ?, ?, ?)`)
	_, err = db.ExecContext(ctx, stmt, emp.ID, emp.FullName, emp.Email, emp.Position, emp.Department, emp.CreatedAt)
	return mapWriteErr(err)
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	var emp hr_fields.Employee
	stmt := db.Rebind("SELECT id, full_name, email, position, department, created_at FROM employees WHERE id = ?")
	if err := db.GetContext(ctx, &emp, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(err, apperr.ErrEmployeeNotFound, "")
		}
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return &emp, nil
}

// CreateLeaveRequest records a request for an existing employee. An empty
// status is stored as pending.
func (s *Store) CreateLeaveRequest(ctx context.Context, req *hr_fields.LeaveRequest) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	if _, err := s.GetEmployee(ctx, req.EmployeeID); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = hr_fields.LeavePending
	}
	req.CreatedAt = time.Now().UTC()
	stmt := `INSERT INTO leave_requests(employee_id, leave_type, start_date, end_date, status, reason, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insertReturningID(ctx, db, stmt,
		req.EmployeeID, req.Type, req.StartDate, req.EndDate, req.Status, req.Reason, req.CreatedAt)
	if err != nil {
		return err
	}
	req.ID = id
	return nil
}

// ListLeaveRequests returns an employee's requests, most recent start first.
func (s *Store) ListLeaveRequests(ctx context.Context, employeeID string) ([]hr_fields.LeaveRequest, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	out := []hr_fields.LeaveRequest{}
	stmt := db.Rebind(`SELECT id, employee_id, leave_type, start_date, end_date, status, reason, created_at
		FROM leave_requests WHERE employee_id = ? ORDER BY start_date DESC, id DESC`)
	if err := db.SelectContext(ctx, &out, stmt, employeeID); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	return out, nil
}

// CreatePayslip stores a payslip for an existing employee. Net is recomputed
// from gross and deductions; the bank account is sealed when a data key is set.
func (s *Store) CreatePayslip(ctx context.Context, p *hr_fields.Payslip) error {
	db, err := s.ensureDB()
	if err != nil {
		return err
	}
	if _, err := s.GetEmployee(ctx, p.EmployeeID); err != nil {
		return err
	}
	p.ComputeNet()
	if p.IssuedAt.IsZero() {
		p.IssuedAt = time.Now().UTC()
	}
	account, err := s.cipher.Seal(p.BankAccount)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "")
	}
	stmt := `INSERT INTO payslips(employee_id, period, gross, deductions, net, currency, bank_account, issued_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := s.insertReturningID(ctx, db, stmt,
		p.EmployeeID, p.Period, p.Gross, p.Deductions, p.Net, p.Currency, account, p.IssuedAt)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// ListPayslips returns an employee's payslips, newest period first.
func (s *Store) ListPayslips(ctx context.Context, employeeID string) ([]hr_fields.Payslip, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	out := []hr_fields.Payslip{}
	stmt := db.Rebind(`SELECT id, employee_id, period, gross, deductions, net, currency, bank_account, issued_at
		FROM payslips WHERE employee_id = ? ORDER BY period DESC`)
	if err := db.SelectContext(ctx, &out, stmt, employeeID); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	for i := range out {
		if err := s.openPayslip(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) GetPayslip(ctx context.Context, employeeID, period string) (*hr_fields.Payslip, error) {
	db, err := s.ensureDB()
	if err != nil {
		return nil, err
	}
	var p hr_fields.Payslip
	stmt := db.Rebind(`SELECT id, employee_id, period, gross, deductions, net, currency, bank_account, issued_at
		FROM payslips WHERE employee_id = ? AND period = ?`)
	if err := db.GetContext(ctx, &p, stmt, employeeID, period); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Wrap(err, apperr.ErrPayslipNotFound, "")
		}
		return nil, apperr.Wrap(err, apperr.ErrDatabase, "")
	}
	if err := s.openPayslip(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) openPayslip(p *hr_fields.Payslip) error {
	account, err := s.cipher.Open(p.BankAccount)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal, "unable to decrypt payslip")
	}
	p.BankAccount = account
	return nil
}

func (s *Store) insertReturningID(ctx context.Context, db *sqlx.DB, stmt string, args ...any) (int64, error) {
	if s.DB.Driver == DriverPostgres {
		var id int64
		if err := db.QueryRowxContext(ctx, db.Rebind(stmt+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, mapWriteErr(err)
		}
		return id, nil
	}
	res, err := db.ExecContext(ctx, db.Rebind(stmt), args...)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		return apperr.Wrap(err, apperr.ErrConflict, "record already exists")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Wrap(err, apperr.ErrConflict, "record already exists")
	}
	return apperr.Wrap(err, apperr.ErrDatabase, "")
}
