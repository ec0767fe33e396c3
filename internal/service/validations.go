package service

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	errorvalues "github.com/swaranjjalii/daily-execution-app/internal/error_values"
	"github.com/swaranjjalii/daily-execution-app/pkg/calendar"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// 24h HH:mm, zero padded so lexicographic order is chronological
		validate.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
			return calendar.IsClockTime(fl.Field().String())
		})
		validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
			return calendar.IsDate(fl.Field().String())
		})
	})
}

func validateRequest(req any) error {
	err := validate.Struct(req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errorvalues.ErrValidation
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}
