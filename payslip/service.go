// Package payslip renders an employee's payslips and serves the payslip API.
package payslip

import (
	"context"
	"strings"
	"time"

	gateway "github.com/adonese/hrportal/apigateway"
	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/adonese/hrportal/pages"
	"github.com/rohanthewiz/element"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/adonese/hrportal/payslip")

type Source interface {
	GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error)
	ListPayslips(ctx context.Context, employeeID string) ([]hr_fields.Payslip, error)
	GetPayslip(ctx context.Context, employeeID, period string) (*hr_fields.Payslip, error)
}

// Service builds the payslip components shown inside the payslip layout.
// Currency is used for payslips stored without one.
type Service struct {
	Source   Source
	Logger   *logrus.Logger
	Currency string
}

func (s *Service) List(ctx context.Context, employeeID string) element.Component {
	ctx, span := tracer.Start(ctx, "payslip.List",
		trace.WithAttributes(attribute.String("employee.id", employeeID)))
	defer span.End()

	if strings.TrimSpace(employeeID) == "" {
		return pages.Notice{Kind: pages.NoticeWarning, Message: "No employee selected."}
	}
	emp, err := s.Source.GetEmployee(ctx, employeeID)
	if err != nil {
		return s.failure(ctx, span, employeeID, err)
	}
	slips, err := s.Source.ListPayslips(ctx, employeeID)
	if err != nil {
		return s.failure(ctx, span, employeeID, err)
	}
	return List{Employee: *emp, Payslips: slips, Currency: s.Currency}
}

func (s *Service) Detail(ctx context.Context, employeeID, period string) element.Component {
	ctx, span := tracer.Start(ctx, "payslip.Detail", trace.WithAttributes(
		attribute.String("employee.id", employeeID),
		attribute.String("payslip.period", period),
	))
	defer span.End()

	if strings.TrimSpace(employeeID) == "" {
		return pages.Notice{Kind: pages.NoticeWarning, Message: "No employee selected."}
	}
	if _, err := time.Parse(hr_fields.PeriodLayout, period); err != nil {
		return pages.Notice{Kind: pages.NoticeWarning, Message: "Pay periods look like 2024-03."}
	}
	emp, err := s.Source.GetEmployee(ctx, employeeID)
	if err != nil {
		return s.failure(ctx, span, employeeID, err)
	}
	slip, err := s.Source.GetPayslip(ctx, employeeID, period)
	if err != nil {
		return s.failure(ctx, span, employeeID, err)
	}
	return Detail{Employee: *emp, Payslip: *slip, Currency: s.Currency}
}

func (s *Service) failure(ctx context.Context, span trace.Span, employeeID string, err error) element.Component {
	switch {
	case apperr.Is(err, apperr.ErrEmployeeNotFound):
		return pages.Notice{Kind: pages.NoticeInfo, Message: "No employee found with id " + employeeID + "."}
	case apperr.Is(err, apperr.ErrPayslipNotFound):
		return pages.Notice{Kind: pages.NoticeInfo, Message: "No payslip was issued for that period."}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"request_id":  gateway.RequestIDFromContext(ctx),
		"error":       err.Error(),
	}).Error("payslip lookup failed")
	return pages.Notice{Kind: pages.NoticeError, Message: "Payslips are unavailable right now."}
}
