package fixture

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

// CUE definition paths for the two fixture files.
const (
	scenarioDef    = "#Scenarios"
	expectationDef = "#Expectations"
)

var loadSchema = sync.OnceValues(func() (cue.Value, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile fixture schema: %w", err)
	}
	return schema, nil
})

// validateSchema checks raw JSON fixture bytes against the named schema
// definition. Returns one ValidationError per CUE error, carrying the
// offending path and line where CUE can attribute one.
func validateSchema(filename string, data []byte, defPath string) ValidationErrors {
	schema, err := loadSchema()
	if err != nil {
		// Embedded schema failing to compile is a programming error,
		// but surface it as a validation failure rather than panicking.
		return ValidationErrors{{File: filename, Message: err.Error()}}
	}

	def := schema.LookupPath(cue.ParsePath(defPath))
	if err := def.Err(); err != nil {
		return ValidationErrors{{File: filename, Message: fmt.Sprintf("schema definition %s: %v", defPath, err)}}
	}

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return cueToValidationErrors(filename, err)
	}

	value := schema.Context().BuildExpr(expr)
	if err := value.Err(); err != nil {
		return cueToValidationErrors(filename, err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueToValidationErrors(filename, err)
	}

	return nil
}

// cueToValidationErrors flattens a CUE error into per-position
// validation errors.
func cueToValidationErrors(filename string, err error) ValidationErrors {
	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		ve := ValidationError{File: filename}
		if pos := e.Position(); pos.IsValid() {
			ve.Line = pos.Line()
		}
		if path := e.Path(); len(path) > 0 {
			ve.Path = strings.Join(path, ".")
		}
		format, args := e.Msg()
		ve.Message = fmt.Sprintf(format, args...)
		errs = append(errs, ve)
	}
	if len(errs) == 0 {
		errs = append(errs, ValidationError{File: filename, Message: err.Error()})
	}
	return errs
}
