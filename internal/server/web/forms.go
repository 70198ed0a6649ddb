package web

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Field limits follow the column sizes of the schema.
type RegisterForm struct {
	Username  string `form:"username" validate:"required,notblank,max=20"`
	Password  string `form:"password" validate:"required,notblank"`
	Email     string `form:"email" validate:"required,notblank,max=50"`
	FirstName string `form:"first_name" validate:"required,notblank,max=30"`
	LastName  string `form:"last_name" validate:"required,notblank,max=30"`
}

func (f *RegisterForm) bind(v url.Values) {
	f.Username = v.Get("username")
	f.Password = v.Get("password")
	f.Email = v.Get("email")
	f.FirstName = v.Get("first_name")
	f.LastName = v.Get("last_name")
}

type LoginForm struct {
	Username string `form:"username" validate:"required,notblank,max=20"`
	Password string `form:"password" validate:"required,notblank"`
}

func (f *LoginForm) bind(v url.Values) {
	f.Username = v.Get("username")
	f.Password = v.Get("password")
}

type FeedbackForm struct {
	Title   string `form:"title" validate:"required,notblank,max=100"`
	Content string `form:"content" validate:"required,notblank"`
}

func (f *FeedbackForm) bind(v url.Values) {
	f.Title = v.Get("title")
	f.Content = v.Get("content")
}

// FormState is what a form template needs to redisplay a form: the submitted
// values (never the password), per-field errors and flash messages.
type FormState struct {
	Values  map[string]string
	Errors  map[string][]string
	Flashes []string
}

func NewFormState() *FormState {
	return &FormState{Values: map[string]string{}, Errors: map[string][]string{}}
}

// formStateFrom copies the submitted values except password fields.
func formStateFrom(v url.Values) *FormState {
	s := NewFormState()
	for k := range v {
		if k == "password" {
			continue
		}
		s.Values[k] = v.Get(k)
	}
	return s
}

func (s *FormState) Value(name string) string { return s.Values[name] }

func (s *FormState) FieldErrors(name string) []string { return s.Errors[name] }

func (s *FormState) AddError(field, msg string) {
	s.Errors[field] = append(s.Errors[field], msg)
}

func (s *FormState) Flash(msg string) {
	s.Flashes = append(s.Flashes, msg)
}

func (s *FormState) Valid() bool { return len(s.Errors) == 0 }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// whitespace-only input counts as missing
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks form and returns the messages keyed by form field name, or
// nil when the form is valid.
func Validate(form any) map[string][]string {
	state := NewFormState()
	if validateForm(form, state) {
		return nil
	}
	return state.Errors
}

// validateForm checks form and records failures on state.
func validateForm(form any, state *FormState) bool {
	err := validate.Struct(form)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		state.AddError("", err.Error())
		return false
	}
	for _, fe := range verrs {
		state.AddError(fe.Field(), fieldMessage(fe))
	}
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
