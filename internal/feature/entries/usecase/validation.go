package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxTitleLength is counted in characters, not bytes.
const MaxTitleLength = 200

// entryInput is the validated subset of EntryForm.
type entryInput struct {
	Title   string `json:"title" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank"`
}

// ValidationResult maps field names to messages. Empty means valid.
type ValidationResult struct {
	FieldErrors map[string]string
}

// Valid reports whether there were no field errors.
func (r ValidationResult) Valid() bool {
	return len(r.FieldErrors) == 0
}

// EntryValidator wraps go-playground/validator with entry-specific messages.
type EntryValidator struct {
	v *validator.Validate
}

// NewEntryValidator creates a validator that reports JSON field names.
func NewEntryValidator() *EntryValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// 空白のみの入力も未入力として扱う
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank: %v", err))
	}

	return &EntryValidator{v: v}
}

var defaultValidator = NewEntryValidator()

// ValidateEntryInput checks the required fields and the title length.
func ValidateEntryInput(title, content string) ValidationResult {
	return defaultValidator.Validate(title, content)
}

// Validate checks title and content.
func (ev *EntryValidator) Validate(title, content string) ValidationResult {
	err := ev.v.Struct(entryInput{Title: title, Content: content})
	if err == nil {
		return ValidationResult{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationResult{FieldErrors: map[string]string{"": err.Error()}}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = friendlyMessage(fe)
	}
	return ValidationResult{FieldErrors: out}
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
