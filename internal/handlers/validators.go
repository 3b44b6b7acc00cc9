package handlers

import (
	"fmt"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the enum binding tags used by the request DTOs to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}

	rules := map[string]validator.Func{
		"document_kind": func(fl validator.FieldLevel) bool {
			return domain.DocumentKind(fl.Field().String()).IsValid()
		},
		"verification_status": func(fl validator.FieldLevel) bool {
			return domain.VerificationStatus(fl.Field().String()).IsValid()
		},
		"distribution_status": func(fl validator.FieldLevel) bool {
			return domain.DistributionStatus(fl.Field().String()).IsValid()
		},
		"distribution_role": func(fl validator.FieldLevel) bool {
			return domain.DistributionRole(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
