// Package leave implements the employee leave-management view and its JSON
// API.
package leave

import (
	"context"
	"strings"

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

var tracer = otel.Tracer("github.com/adonese/hrportal/leave")

// Source is the read side the view needs. *store.Store satisfies it.
type Source interface {
	GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error)
	ListLeaveRequests(ctx context.Context, employeeID string) ([]hr_fields.LeaveRequest, error)
}

type Service struct {
	Source Source
	Logger *logrus.Logger
}

var _ pages.LeaveManagement = (*Service)(nil)

// EmployeeLeaveManagement loads the employee and their requests. It never
// fails: a blank id, an unknown employee and a broken source each render a
// notice instead.
func (s *Service) EmployeeLeaveManagement(ctx context.Context, id string) element.Component {
	ctx, span := tracer.Start(ctx, "leave.EmployeeLeaveManagement",
		trace.WithAttributes(attribute.String("employee.id", id)))
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return pages.Notice{Kind: pages.NoticeWarning, Message: "No employee selected."}
	}

	emp, err := s.Source.GetEmployee(ctx, id)
	if err != nil {
		return s.failure(ctx, span, id, err)
	}
	requests, err := s.Source.ListLeaveRequests(ctx, id)
	if err != nil {
		return s.failure(ctx, span, id, err)
	}
	span.SetAttributes(attribute.Int("leave.requests", len(requests)))
	return Management{Employee: *emp, Requests: requests}
}

func (s *Service) failure(ctx context.Context, span trace.Span, id string, err error) element.Component {
	if apperr.Is(err, apperr.ErrEmployeeNotFound) {
		return pages.Notice{Kind: pages.NoticeInfo, Message: "No employee found with id " + id + "."}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger().WithFields(logrus.Fields{
		"employee_id": id,
		"request_id":  gateway.RequestIDFromContext(ctx),
		"error":       err.Error(),
	}).Error("leave view lookup failed")
	return pages.Notice{Kind: pages.NoticeError, Message: "Leave records are unavailable right now."}
}

func (s *Service) logger() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}
