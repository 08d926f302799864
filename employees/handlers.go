// Package employees serves the employee records API.
package employees

import (
	"context"
	"net/http"
	"strings"

	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/gofiber/fiber/v2"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

type Store interface {
	CreateEmployee(ctx context.Context, emp *hr_fields.Employee) error
	GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error)
}

// Cache is the optional read-through layer in front of Store.
type Cache interface {
	GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error)
	Forget(ctx context.Context, id string)
}

type Handlers struct {
	Store  Store
	Cache  Cache
	Logger *logrus.Logger
}

func (h *Handlers) Register(r fiber.Router, guard fiber.Handler) {
	r.Post("/", guard, h.Create)
	r.Get("/:id", h.Get)
}

func (h *Handlers) Create(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return apperr.ErrEmptyBody
	}
	var emp hr_fields.Employee
	if err := json.Unmarshal(c.Body(), &emp); err != nil {
		return apperr.Wrap(err, apperr.ErrBadRequest, err.Error())
	}
	emp.ID = strings.TrimSpace(emp.ID)
	emp.FullName = strings.TrimSpace(emp.FullName)
	if err := hr_fields.ValidateStruct(emp); err != nil {
		return apperr.WithFields(apperr.Wrap(err, apperr.ErrValidation, "invalid employee"), hr_fields.ValidationDetails(err))
	}
	ctx := c.UserContext()
	if err := h.Store.CreateEmployee(ctx, &emp); err != nil {
		return err
	}
	if h.Cache != nil {
		h.Cache.Forget(ctx, emp.ID)
	}
	if h.Logger != nil {
		h.Logger.WithField("employee_id", emp.ID).Info("employee created")
	}
	return c.Status(http.StatusCreated).JSON(emp)
}

func (h *Handlers) Get(c *fiber.Ctx) error {
	id := strings.Clone(c.Params("id"))
	var getter interface {
		GetEmployee(ctx context.Context, id string) (*hr_fields.Employee, error)
	} = h.Store
	if h.Cache != nil {
		getter = h.Cache
	}
	emp, err := getter.GetEmployee(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(emp)
}
