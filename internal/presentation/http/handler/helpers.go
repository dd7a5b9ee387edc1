package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/invoicing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/invoicing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/invoicing-api/pkg/apperror"
)

var registerTagNames sync.Once

// RegisterValidatorTagNames makes binding errors report json field names
func RegisterValidatorTagNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindJSON binds the body and writes the error response itself on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.ValidationError(c, fieldErrors(verrs))
			return false
		}
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func fieldErrors(verrs validator.ValidationErrors) []apperror.FieldError {
	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		// drop the root struct name
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, apperror.FieldError{Field: field, Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s)", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// parseDate parses an optional YYYY-MM-DD value
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(request.DateLayout, value)
	if err != nil {
		return nil, apperror.NewInvalidInputError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", value))
	}
	return &t, nil
}
