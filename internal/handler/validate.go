package handler

import (
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

const passwordSymbols = "!@#$%^&*"

// newValidator builds the request validator with english translations and
// the password complexity rule: at least 8 characters, a digit and a symbol.
func newValidator() (*validator.Validate, ut.Translator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}

	if err := validate.RegisterValidation("password", validatePassword); err != nil {
		return nil, nil, err
	}

	err := validate.RegisterTranslation("password", trans,
		func(ut ut.Translator) error {
			return ut.Add("password", "{0} must be 8+ chars with a number & symbol", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("password", fe.Field())
			return t
		},
	)
	if err != nil {
		return nil, nil, err
	}

	return validate, trans, nil
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	return hasDigit && hasSymbol
}

// translateValidationErrors maps field errors to user-facing messages keyed
// by the struct field name.
func translateValidationErrors(err error, trans ut.Translator) map[string]string {
	messages := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		messages["request"] = "invalid request"
		return messages
	}

	for _, fieldError := range validationErrors {
		messages[fieldError.Field()] = fieldError.Translate(trans)
	}

	return messages
}
