package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// gradeLevels are the grade identifiers the client may submit.
var gradeLevels = map[string]bool{
	"grade-1": true, "grade-2": true, "grade-3": true, "grade-4": true,
	"grade-5": true, "grade-6": true, "grade-7": true, "grade-8": true,
	"grade-9": true, "grade-10": true, "grade-11": true, "grade-12": true,
}

// registerValidations installs custom binding validators on gin's shared
// validator engine. Safe to call more than once; re-registration overwrites.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("gradelevel", func(fl validator.FieldLevel) bool {
		return gradeLevels[fl.Field().String()]
	})
}
