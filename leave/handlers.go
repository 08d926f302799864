package leave

import (
	"context"
	"net/http"
	"strings"

	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Store is what the JSON API reads and writes.
type Store interface {
	Source
	CreateLeaveRequest(ctx context.Context, req *hr_fields.LeaveRequest) error
}

type Handlers struct {
	Store  Store
	Logger *logrus.Logger
}

// Register mounts the leave endpoints on an employee-scoped router. Writes go
// through guard.
func (h *Handlers) Register(r fiber.Router, guard fiber.Handler) {
	r.Get("/:id/leave", h.List)
	r.Post("/:id/leave", guard, h.Create)
}

func (h *Handlers) List(c *fiber.Ctx) error {
	id := strings.Clone(c.Params("id"))
	ctx := c.UserContext()
	if _, err := h.Store.GetEmployee(ctx, id); err != nil {
		return err
	}
	requests, err := h.Store.ListLeaveRequests(ctx, id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"employee_id": id, "leave_requests": requests})
}

// Create records a pending request. Any status in the body is ignored.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req hr_fields.LeaveRequest
	if err := parseJSON(c, &req); err != nil {
		return err
	}
	if req.Days() == 0 {
		return apperr.ErrInvalidDateRange
	}
	req.ID = 0
	req.EmployeeID = strings.Clone(c.Params("id"))
	req.Status = hr_fields.LeavePending

	if err := h.Store.CreateLeaveRequest(c.UserContext(), &req); err != nil {
		return err
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"employee_id": req.EmployeeID,
			"leave_id":    req.ID,
			"type":        req.Type,
			"days":        req.Days(),
		}).Info("leave request recorded")
	}
	return c.Status(http.StatusCreated).JSON(req)
}
