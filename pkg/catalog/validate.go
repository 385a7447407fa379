package catalog

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/agentstation/confkit/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct checks the validate tags of v and reports the first
// failure as an errors.ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Namespace(), fe.Value(), "failed on the '"+fe.Tag()+"' rule")
	}
	return errors.NewValidationError("", nil, err.Error())
}
