package validation

import (
	"github.com/go-playground/validator/v10"

	"porter-system/internal/entities"
)

// registerRules wires the domain enums into validator tags so controllers can
// declare `validate:"request_status"` instead of repeating the member lists.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("request_status", func(fl validator.FieldLevel) bool {
		return entities.RequestStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("equipment_status", func(fl validator.FieldLevel) bool {
		return entities.EquipmentStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("equipment_type", func(fl validator.FieldLevel) bool {
		return entities.EquipmentType(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	registerNullTypes(v)
	return nil
}
