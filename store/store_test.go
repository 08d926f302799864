package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	db, err := OpenFromConfig("", filepath.Join(t.TempDir(), "test.db"), "sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	s, err := New(db, opts...)
	require.NoError(t, err)
	return s
}

func seedEmployee(t *testing.T, s *Store, id string) *hr_fields.Employee {
	t.Helper()
	emp := &hr_fields.Employee{ID: id, FullName: "Amira Osman", Email: "Amira@Example.com", Position: "Accountant"}
	require.NoError(t, s.CreateEmployee(context.Background(), emp))
	return emp
}

func TestResolveDriver(t *testing.T) {
	tests := []struct {
		name, url, path, override string
		wantDriver, wantDSN       string
		wantErr                   bool
	}{
		{"default sqlite", "", "", "", DriverSQLite, "hrportal.db", false},
		{"url implies postgres", "postgres://x", "a.db", "", DriverPostgres, "postgres://x", false},
		{"explicit sqlite ignores url", "postgres://x", "a.db", "sqlite3", DriverSQLite, "a.db", false},
		{"postgres without url", "", "", "postgres", "", "", true},
		{"unknown driver", "", "", "oracle", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := resolveDriver(tt.url, tt.path, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestStore_Employees(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-042")

	got, err := s.GetEmployee(ctx, "emp-042")
	require.NoError(t, err)
	assert.Equal(t, "Amira Osman", got.FullName)
	assert.Equal(t, "amira@example.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetEmployee(ctx, "nobody")
	assert.True(t, apperr.Is(err, apperr.ErrEmployeeNotFound), "got %v", err)

	err = s.CreateEmployee(ctx, &hr_fields.Employee{ID: "emp-042", FullName: "Dup"})
	assert.True(t, apperr.Is(err, apperr.ErrConflict), "got %v", err)
}

func TestStore_LeaveRequests(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-042")

	first := &hr_fields.LeaveRequest{EmployeeID: "emp-042", Type: hr_fields.LeaveAnnual, StartDate: "2026-07-01", EndDate: "2026-07-10"}
	second := &hr_fields.LeaveRequest{EmployeeID: "emp-042", Type: hr_fields.LeaveSick, StartDate: "2026-09-14", EndDate: "2026-09-15", Reason: "flu"}
	require.NoError(t, s.CreateLeaveRequest(ctx, first))
	require.NoError(t, s.CreateLeaveRequest(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Equal(t, hr_fields.LeavePending, first.Status)

	got, err := s.ListLeaveRequests(ctx, "emp-042")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-09-14", got[0].StartDate)
	assert.Equal(t, hr_fields.LeaveSick, got[0].Type)
	assert.Equal(t, "flu", got[0].Reason)

	none, err := s.ListLeaveRequests(ctx, "emp-999")
	require.NoError(t, err)
	assert.Empty(t, none)

	err = s.CreateLeaveRequest(ctx, &hr_fields.LeaveRequest{EmployeeID: "emp-999", Type: hr_fields.LeaveOther, StartDate: "2026-01-01", EndDate: "2026-01-01"})
	assert.True(t, apperr.Is(err, apperr.ErrEmployeeNotFound), "got %v", err)
}

func TestStore_Payslips(t *testing.T) {
	s := newTestStore(t, WithDataKey("test-data-key"))
	ctx := context.Background()
	seedEmployee(t, s, "emp-042")

	for _, period := range []string{"2026-08", "2026-09"} {
		p := &hr_fields.Payslip{
			EmployeeID:  "emp-042",
			Period:      period,
			Gross:       decimal.RequireFromString("3000"),
			Deductions:  decimal.RequireFromString("450.75"),
			Net:         decimal.RequireFromString("1"), // recomputed
			Currency:    "USD",
			BankAccount: "0011223344",
		}
		require.NoError(t, s.CreatePayslip(ctx, p))
	}

	var raw string
	require.NoError(t, s.DB.GetContext(ctx, &raw, "SELECT bank_account FROM payslips WHERE period = '2026-09'"))
	assert.True(t, strings.HasPrefix(raw, encPrefix), "bank account should be sealed at rest, got %q", raw)

	list, err := s.ListPayslips(ctx, "emp-042")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-09", list[0].Period)
	assert.True(t, list[0].Net.Equal(decimal.RequireFromString("2549.25")), "net = %s", list[0].Net)
	assert.Equal(t, "0011223344", list[0].BankAccount)

	one, err := s.GetPayslip(ctx, "emp-042", "2026-08")
	require.NoError(t, err)
	assert.Equal(t, "2026-08", one.Period)

	_, err = s.GetPayslip(ctx, "emp-042", "2025-01")
	assert.True(t, apperr.Is(err, apperr.ErrPayslipNotFound), "got %v", err)

	dup := &hr_fields.Payslip{EmployeeID: "emp-042", Period: "2026-09", Currency: "USD"}
	assert.True(t, apperr.Is(s.CreatePayslip(ctx, dup), apperr.ErrConflict))
}

func TestFieldCipher(t *testing.T) {
	c, err := newFieldCipher("k")
	require.NoError(t, err)

	sealed, err := c.Seal("SD123456")
	require.NoError(t, err)
	assert.NotEqual(t, "SD123456", sealed)

	again, err := c.Seal(sealed)
	require.NoError(t, err)
	assert.Equal(t, sealed, again, "sealing twice must be a no-op")

	plain, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "SD123456", plain)

	var none *fieldCipher
	v, err := none.Seal("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", v)
	_, err = none.Open(sealed)
	assert.Error(t, err)
}
