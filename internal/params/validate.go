package params

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// #region constants
const (
	MinPoints = 2
	MaxPoints = 100
)

// #endregion constants

// #region validator
// paramValidate checks the bounds that do not depend on NUMPOINTS.
// Field names are reported by their upper-cased JSON names (LENGTH1, Q_PTS, ...).
var paramValidate *validator.Validate

func init() {
	paramValidate = validator.New()
	paramValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		return strings.ToUpper(name)
	})
	_ = paramValidate.RegisterValidation("ltpi", func(fl validator.FieldLevel) bool {
		return fl.Field().Float() < math.Pi
	})
}

// #endregion validator

// #region validate
// Validate rejects parameters outside their bounds for a sequence of n points.
// NUMPOINTS is checked first, then the fixed bounds in field order, then the
// bounds relative to NUMPOINTS.
func Validate(p Parameters, n int) error {
	if n < MinPoints || n > MaxPoints {
		return &InvalidParameterError{
			Field: "NUMPOINTS",
			Bound: fmt.Sprintf("in [%d, %d]", MinPoints, MaxPoints),
			Value: n,
		}
	}

	if err := paramValidate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &InvalidParameterError{
				Field: fe.Field(),
				Bound: describeTag(fe.Tag(), fe.Param()),
				Value: fe.Value(),
			}
		}
		return fmt.Errorf("validate parameters: %w", err)
	}

	// Bounds relative to NUMPOINTS.
	relative := []struct {
		field string
		value int
		max   int
		bound string
	}{
		{"Q_PTS", p.QPts, n, "NUMPOINTS"},
		{"N_PTS", p.NPts, n, "NUMPOINTS"},
		{"K_PTS", p.KPts, n - 2, "NUMPOINTS-2"},
		{"A_PTS+B_PTS", p.APts + p.BPts, n - 3, "NUMPOINTS-3"},
		{"C_PTS+D_PTS", p.CPts + p.DPts, n - 3, "NUMPOINTS-3"},
		{"E_PTS+F_PTS", p.EPts + p.FPts, n - 3, "NUMPOINTS-3"},
		{"G_PTS", p.GPts, n - 2, "NUMPOINTS-2"},
	}
	for _, r := range relative {
		if r.value > r.max {
			return &InvalidParameterError{
				Field: r.field,
				Bound: fmt.Sprintf("<= %s (%d)", r.bound, r.max),
				Value: r.value,
			}
		}
	}
	return nil
}

// #endregion validate

// #region helpers
func describeTag(tag, param string) string {
	switch tag {
	case "gte":
		return ">= " + param
	case "lte":
		return "<= " + param
	case "gt":
		return "> " + param
	case "lt":
		return "< " + param
	case "ltpi":
		return "< pi"
	default:
		return tag + " " + param
	}
}

// #endregion helpers
