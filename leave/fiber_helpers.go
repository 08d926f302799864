package leave

import (
	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/hr_fields"
	"github.com/gofiber/fiber/v2"
	"github.com/goccy/go-json"
)

func parseJSON(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return apperr.ErrEmptyBody
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return apperr.Wrap(err, apperr.ErrBadRequest, err.Error())
	}
	if err := hr_fields.ValidateStruct(dst); err != nil {
		return apperr.WithFields(apperr.Wrap(err, apperr.ErrValidation, "invalid leave request"), hr_fields.ValidationDetails(err))
	}
	return nil
}
