package hr_fields

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used across leave requests.
const DateLayout = "2006-01-02"

// PeriodLayout identifies a payroll month.
const PeriodLayout = "2006-01"

// Employee is the portal's view of a staff member. ID is the opaque
// identifier carried in page URLs.
type Employee struct {
	ID         string    `json:"id" db:"id" binding:"required,max=64"`
	FullName   string    `json:"fullname" db:"full_name" binding:"required,max=128"`
	Email      string    `json:"email" db:"email" binding:"omitempty,email"`
	Position   string    `json:"position,omitempty" db:"position"`
	Department string    `json:"department,omitempty" db:"department"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type LeaveType string

const (
	LeaveAnnual   LeaveType = "annual"
	LeaveSick     LeaveType = "sick"
	LeaveUnpaid   LeaveType = "unpaid"
	LeaveParental LeaveType = "parental"
	LeaveOther    LeaveType = "other"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is a recorded absence request. Status is stored as given;
// the portal does not move requests between states.
type LeaveRequest struct {
	ID         int64       `json:"id" db:"id"`
	EmployeeID string      `json:"employee_id" db:"employee_id"`
	Type       LeaveType   `json:"type" db:"leave_type" binding:"required,oneof=annual sick unpaid parental other"`
	StartDate  string      `json:"start_date" db:"start_date" binding:"required,iso8601"`
	EndDate    string      `json:"end_date" db:"end_date" binding:"required,iso8601"`
	Status     LeaveStatus `json:"status" db:"status"`
	Reason     string      `json:"reason,omitempty" db:"reason" binding:"max=512"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// Days returns the inclusive number of calendar days the request spans, or 0
// when the dates cannot be parsed or are out of order.
func (l LeaveRequest) Days() int {
	start, err := time.Parse(DateLayout, l.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, l.EndDate)
	if err != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Payslip is one payroll period for an employee. Net is always Gross minus
// Deductions; see ComputeNet.
type Payslip struct {
	ID          int64           `json:"id" db:"id"`
	EmployeeID  string          `json:"employee_id" db:"employee_id"`
	Period      string          `json:"period" db:"period" binding:"required,period"`
	Gross       decimal.Decimal `json:"gross" db:"gross"`
	Deductions  decimal.Decimal `json:"deductions" db:"deductions"`
	Net         decimal.Decimal `json:"net" db:"net"`
	Currency    string          `json:"currency" db:"currency" binding:"omitempty,len=3"`
	BankAccount string          `json:"bank_account,omitempty" db:"bank_account"`
	IssuedAt    time.Time       `json:"issued_at" db:"issued_at"`
}

func (p *Payslip) ComputeNet() {
	p.Net = p.Gross.Sub(p.Deductions)
}

// MaskedAccount returns the bank account with everything but the last four
// characters hidden.
func (p Payslip) MaskedAccount() string {
	acct := []rune(strings.TrimSpace(p.BankAccount))
	if len(acct) <= 4 {
		return string(acct)
	}
	return strings.Repeat("*", len(acct)-4) + string(acct[len(acct)-4:])
}
