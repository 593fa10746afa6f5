// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone", isPhoneNumber); err != nil {
		return err
	}
	return nil
}

// Та же проверка, что и в карточке сотрудника: что-то до @, что-то после,
// точка в домене. Не RFC, но ровно то, что ждет база.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9\s\-\(\)]{5,20}$`)

func isPhoneNumber(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// ValidEmail — та же проверка для вызовов вне валидатора структур.
func ValidEmail(s string) bool { return emailRegex.MatchString(s) }
