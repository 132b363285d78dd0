// Package forms holds the declarative field checks for post and comment input.
package forms

import (
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	MessageTextRequired  = "Нельзя ничего не написать"
	MessageRequired      = "Обязательное поле."
	MessageInvalidChoice = "Выберите корректный вариант. Вашего варианта нет среди допустимых значений."
	MessageInvalidImage  = "Загрузите правильное изображение. Файл, который вы загрузили, поврежден или не является изображением."
	MessageImageTooLarge = "Файл слишком большой."
	MessageImageDisabled = "Загрузка изображений сейчас недоступна."
)

// Errors maps a field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Valid() bool {
	return len(e) == 0
}

type PostForm struct {
	Text  string `json:"text" validate:"notblank"`
	Group string `json:"group" validate:"omitempty,uuid"`
}

type CommentForm struct {
	Text string `json:"text" validate:"notblank"`
}

// NewValidator returns a validator that reports json field names and knows
// the notblank rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func PostFormFromRequest(r *http.Request) PostForm {
	return PostForm{
		Text:  strings.TrimSpace(r.PostFormValue("text")),
		Group: strings.TrimSpace(r.PostFormValue("group")),
	}
}

// PostFormFromValues builds the form from already parsed fields, e.g. those
// read part by part from a multipart body.
func PostFormFromValues(values url.Values) PostForm {
	return PostForm{
		Text:  strings.TrimSpace(values.Get("text")),
		Group: strings.TrimSpace(values.Get("group")),
	}
}

func CommentFormFromRequest(r *http.Request) CommentForm {
	return CommentForm{
		Text: strings.TrimSpace(r.PostFormValue("text")),
	}
}

func (f PostForm) Validate(v *validator.Validate) Errors {
	return collect(v.Struct(f), map[string]string{
		"text.notblank": MessageTextRequired,
		"group.uuid":    MessageInvalidChoice,
	})
}

func (f CommentForm) Validate(v *validator.Validate) Errors {
	return collect(v.Struct(f), map[string]string{
		"text.notblank": MessageRequired,
	})
}

func collect(err error, messages map[string]string) Errors {
	errs := Errors{}
	if err == nil {
		return errs
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs.Add("__all__", err.Error())
		return errs
	}

	for _, fe := range validationErrors {
		message, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			message = MessageRequired
		}
		errs.Add(fe.Field(), message)
	}
	return errs
}
