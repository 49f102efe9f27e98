package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jjenkins/fieldservice/internal/service"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"go.uber.org/zap"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type     string              `json:"type,omitempty"`
	Title    string              `json:"title,omitempty"`
	Status   int                 `json:"status,omitempty"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// WriteProblem sends p as application/problem+json.
func WriteProblem(c *fiber.Ctx, p Problem) error {
	if p.Title == "" {
		p.Title = utils.StatusMessage(p.Status)
	}
	c.Status(p.Status)
	if err := c.JSON(p); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return nil
}

// ErrorHandler maps service errors onto HTTP problems. Anything unrecognized
// is logged and reported as a 500 without detail.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		p := Problem{Instance: c.Path()}

		var verr *service.ValidationError
		var ierr *service.ImportValidationError
		var ferr *fiber.Error
		switch {
		case errors.As(err, &verr):
			p.Status = fiber.StatusBadRequest
			p.Title = "Validation failed"
			p.Errors = make(map[string][]string)
			for _, f := range verr.Fields {
				p.Errors[f.Field] = append(p.Errors[f.Field], f.Msg)
			}
		case errors.As(err, &ierr):
			p.Status = fiber.StatusBadRequest
			p.Title = "Invalid backup document"
			p.Detail = ierr.Detail
			p.Errors = make(map[string][]string)
			if len(ierr.Missing) > 0 {
				p.Errors["missing"] = ierr.Missing
			}
			if len(ierr.Invalid) > 0 {
				p.Errors["invalid"] = ierr.Invalid
			}
		case errors.Is(err, tracker.ErrInvalidStatus):
			p.Status = fiber.StatusBadRequest
			p.Title = "Invalid status"
			p.Detail = err.Error()
		case errors.Is(err, service.ErrNotFound):
			p.Status = fiber.StatusNotFound
			p.Detail = err.Error()
		case errors.Is(err, service.ErrScheduleFull):
			p.Status = fiber.StatusConflict
			p.Title = "Schedule full"
			p.Detail = err.Error()
		case errors.As(err, &ferr):
			p.Status = ferr.Code
			p.Detail = ferr.Message
		default:
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			p.Status = fiber.StatusInternalServerError
		}
		return WriteProblem(c, p)
	}
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
}
