package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/gstin"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// gstin: formato y carácter de control del GSTIN indio
	_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return gstin.Validate(fl.Field().String()) == nil
	})
	return v
}

// requestError entrada HTTP mal formada (400) con su código propio.
type requestError struct {
	Code    string
	Message string
}

func (e *requestError) Error() string { return e.Message }

// parseBody decodifica el JSON y valida los tags `validate`.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	return validateStruct(out)
}

// parseQuery como parseBody pero sobre la query string.
func parseQuery(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		return &requestError{Code: "VALIDATION", Message: "parámetros de consulta inválidos"}
	}
	return validateStruct(out)
}

func validateStruct(out interface{}) error {
	if err := validate.Struct(out); err != nil {
		return &requestError{Code: "VALIDATION", Message: formatValidationError(err)}
	}
	return nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
