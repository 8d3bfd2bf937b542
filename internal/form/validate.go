// Package form implements the recipe form: input validation, the
// ingredients text transform and submission to the store. The same rules
// are applied by the backend before it persists a record.
package form

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 6
	// Column sizes of the recipes table.
	MaxNameLength     = 200
	MaxImageURLLength = 2048
)

var validate = newValidator()

var messages = map[string]string{
	"name":        "Name is required.",
	"category":    "Choose a category: entrée, plat, dessert or boisson.",
	"ingredients": "Add at least one ingredient.",
	"steps":       "Steps are required.",
	"image_url":   "The image URL must be an absolute http(s) URL.",
}

var tooLong = map[string]string{
	"name":      fmt.Sprintf("Name cannot exceed %d characters.", MaxNameLength),
	"image_url": fmt.Sprintf("The image URL cannot exceed %d characters.", MaxImageURLLength),
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return recipes.Category(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("ingredients", func(fl validator.FieldLevel) bool {
		return len(ParseIngredients(fl.Field().String())) > 0
	}))
	must(v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return IsWebURL(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// record mirrors recipes.Fields once the ingredients text has been parsed.
type record struct {
	Name        string           `json:"name" validate:"notblank,max=200"`
	Category    recipes.Category `json:"category" validate:"required,category"`
	Ingredients []string         `json:"ingredients" validate:"min=1,dive,notblank"`
	Steps       string           `json:"steps" validate:"notblank"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,weburl,max=2048"`
}

// CheckFields validates already parsed recipe fields. The backend runs it on
// every insert and update.
func CheckFields(f recipes.Fields) error {
	return translate(validate.Struct(record{
		Name:        f.Name,
		Category:    f.Category,
		Ingredients: f.Ingredients,
		Steps:       f.Steps,
		ImageURL:    f.ImageURL,
	}))
}

// IsWebURL reports whether raw is an absolute http or https URL.
func IsWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// ValidateCredentials checks sign-in / sign-up input before it reaches the
// identity gateway. It returns apperr.ErrInvalidEmail or
// apperr.ErrWeakPassword.
func ValidateCredentials(email, password string) error {
	err := validate.Struct(credentials{Email: strings.TrimSpace(email), Password: password})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Field() == "email" {
			return apperr.ErrInvalidEmail
		}
	}
	return apperr.ErrWeakPassword
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
			if _, seen := fields[name]; !seen {
				fields[name] = "Ingredients cannot contain blank entries."
			}
			continue
		}
		if _, seen := fields[name]; seen {
			continue
		}
		if msg, ok := tooLong[name]; ok && fe.Tag() == "max" {
			fields[name] = msg
			continue
		}
		fields[name] = messages[name]
	}
	return &apperr.ValidationError{Fields: fields}
}
