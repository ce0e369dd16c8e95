package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"claims-management-api/apperror"
	"claims-management-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var dateLayouts = []string{time.DateOnly, time.RFC3339Nano}

// ParseDate accepts a calendar date (YYYY-MM-DD) or a full RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func isISODate(fl validator.FieldLevel) bool {
	_, ok := ParseDate(fl.Field().String())
	return ok
}

// RegisterValidators installs custom binding tags on Gin's validator and makes field
// errors report JSON names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return logger.New("handlers").Function("RegisterValidators").Error("unexpected binding validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v.RegisterValidation("isodate", isISODate)
}

// bind decodes the JSON body into req. A missing required field reports missing; any
// other failure is a validation error naming the field.
func bind(c *gin.Context, req any, missing error) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation("Invalid request body")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return missing
	case "isodate":
		return apperror.Validation(fmt.Sprintf("%s must be a date (YYYY-MM-DD)", fe.Field()))
	case "email":
		return apperror.Validation("Invalid email address")
	default:
		return apperror.Validation(fmt.Sprintf("Invalid %s", fe.Field()))
	}
}
