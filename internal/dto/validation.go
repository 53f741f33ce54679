package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/quizzer/internal/model"
)

var registerOnce sync.Once

// RegisterValidations installs the custom rules on gin's validator. Safe to
// call more than once.
func RegisterValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		v.RegisterStructValidation(correctOptionCount, CreateQuestionRequest{})
	})
}

func correctOptionCount(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateQuestionRequest)
	qt := model.QuestionType(req.QuestionType)
	if qt == "" {
		qt = model.SingleChoice
	}
	correct := 0
	for _, o := range req.Options {
		if o.IsCorrect {
			correct++
		}
	}
	if qt.CheckCorrectCount(len(req.Options), correct) != nil {
		sl.ReportError(req.Options, "options", "Options", "correct_count", string(qt))
	}
}

// ValidationDetails renders binding errors as one message per field.
func ValidationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be a positive integer", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "correct_count":
		if fe.Param() == string(model.MultipleChoice) {
			return "Multiple choice questions must have at least one correct answer"
		}
		return "Single choice questions must have exactly one correct answer"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
