package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ourmemory/ourmemory-backend/internal/domain"
)

// RegisterValidators registers the custom binding tags
// (friend_status, sns_type, share_type) on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	rules := map[string]validator.Func{
		"friend_status": func(fl validator.FieldLevel) bool {
			return domain.FriendStatus(fl.Field().String()).IsValid()
		},
		"sns_type": func(fl validator.FieldLevel) bool {
			return domain.SnsType(fl.Field().String()).IsValid()
		},
		"share_type": func(fl validator.FieldLevel) bool {
			return domain.ShareType(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}
