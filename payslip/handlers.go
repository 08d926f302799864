package payslip

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
	Source
	CreatePayslip(ctx context.Context, p *hr_fields.Payslip) error
}

type Handlers struct {
	Store    Store
	Logger   *logrus.Logger
	Currency string
}

func (h *Handlers) Register(r fiber.Router, guard fiber.Handler) {
	r.Get("/:id/payslips", h.List)
	r.Post("/:id/payslips", guard, h.Create)
}

// List returns payslips with bank accounts masked.
func (h *Handlers) List(c *fiber.Ctx) error {
	id := strings.Clone(c.Params("id"))
	ctx := c.UserContext()
	if _, err := h.Store.GetEmployee(ctx, id); err != nil {
		return err
	}
	slips, err := h.Store.ListPayslips(ctx, id)
	if err != nil {
		return err
	}
	for i := range slips {
		slips[i].BankAccount = slips[i].MaskedAccount()
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"employee_id": id, "payslips": slips})
}

func (h *Handlers) Create(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return apperr.ErrEmptyBody
	}
	var p hr_fields.Payslip
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return apperr.Wrap(err, apperr.ErrBadRequest, err.Error())
	}
	if err := hr_fields.ValidateStruct(p); err != nil {
		return apperr.WithFields(apperr.Wrap(err, apperr.ErrValidation, "invalid payslip"), hr_fields.ValidationDetails(err))
	}
	if p.Gross.IsNegative() || p.Deductions.IsNegative() || p.Deductions.GreaterThan(p.Gross) {
		return apperr.WithFields(apperr.ErrValidation, map[string]any{
			"deductions": "gross and deductions must be non-negative, deductions at most gross",
		})
	}
	p.ID = 0
	p.EmployeeID = strings.Clone(c.Params("id"))
	p.Currency = strings.ToUpper(p.Currency)
	if p.Currency == "" {
		p.Currency = h.Currency
	}
	p.Gross = p.Gross.Round(2)
	p.Deductions = p.Deductions.Round(2)

	if err := h.Store.CreatePayslip(c.UserContext(), &p); err != nil {
		return err
	}
	if h.Logger != nil {
		h.Logger.WithFields(logrus.Fields{
			"employee_id": p.EmployeeID,
			"period":      p.Period,
			"net":         p.Net.StringFixed(2),
		}).Info("payslip issued")
	}
	p.BankAccount = p.MaskedAccount()
	return c.Status(http.StatusCreated).JSON(p)
}
