// Package validation maps raw student form input to a validated record or a
// field-keyed error set. It never returns a Go error for bad input: callers
// receive one message per invalid field, all fields evaluated in one pass.
package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"alunosapi/internal/model"
)

// StudentInput is the raw form payload. Age arrives as text because the
// client's number input submits text; parsing happens here so a non-numeric
// age surfaces as a range violation on the age field rather than as a
// decode failure with its own error kind.
type StudentInput struct {
	Name      string `json:"name"`
	Matricula string `json:"matricula"`
	Course    string `json:"course"`
	Age       string `json:"age"`
	BirthDate string `json:"birth_date"`
}

// FieldErrors maps a field name (its json name) to the first violated-rule
// message for that field. An empty map means the input is valid.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, ", ")
}

// studentRules carries the validation tags. Field order matches the form.
// min/max on strings are rune-length bounds in validator/v10.
type studentRules struct {
	Name      string `json:"name"       validate:"min=2,max=100"`
	Matricula string `json:"matricula"  validate:"min=3,max=50"`
	Course    string `json:"course"     validate:"min=2,max=100"`
	Age       int    `json:"age"        validate:"min=1,max=150"`
	BirthDate string `json:"birth_date" validate:"required"`
}

// messages holds one message per field and tag, mirroring the wording the
// original registry showed under each input.
var messages = map[string]map[string]string{
	"name": {
		"min": "O nome deve ter no mínimo 2 caracteres",
		"max": "O nome deve ter no máximo 100 caracteres",
	},
	"matricula": {
		"min": "A matrícula deve ter no mínimo 3 caracteres",
		"max": "A matrícula deve ter no máximo 50 caracteres",
	},
	"course": {
		"min": "O curso deve ter no mínimo 2 caracteres",
		"max": "O curso deve ter no máximo 100 caracteres",
	},
	"age": {
		"min": "A idade deve ser maior que 0",
		"max": "A idade deve ser no máximo 150",
	},
	"birth_date": {
		"required": "A data de nascimento é obrigatória",
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields under their json names so error keys match the form.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStudent checks every field rule independently (no short circuit)
// and returns either a record ready for persistence or one message per
// invalid field. ID, owner and creation time are left for the store to set.
func ValidateStudent(in StudentInput) (model.Student, FieldErrors) {
	age, err := strconv.Atoi(strings.TrimSpace(in.Age))
	if err != nil {
		// Unparseable age is reported as a range violation, not a
		// separate kind; the form shows one message per field anyway.
		age = 0
	}

	rules := studentRules{
		Name:      in.Name,
		Matricula: in.Matricula,
		Course:    in.Course,
		Age:       age,
		BirthDate: in.BirthDate,
	}

	if err := validate.Struct(rules); err != nil {
		fieldErrs := make(FieldErrors)
		for _, fe := range err.(validator.ValidationErrors) {
			field := fe.Field()
			if _, seen := fieldErrs[field]; seen {
				continue
			}
			if msg, ok := messages[field][fe.ActualTag()]; ok {
				fieldErrs[field] = msg
			} else {
				fieldErrs[field] = "Campo inválido"
			}
		}
		return model.Student{}, fieldErrs
	}

	return model.Student{
		Name:      in.Name,
		Matricula: in.Matricula,
		Course:    in.Course,
		Age:       age,
		BirthDate: in.BirthDate,
	}, nil
}
