package params

import (
	"errors"
	"fmt"
)

// #region parameters
// Parameters holds the thresholds and point-offset counts shared read-only
// by every launch interceptor condition.
type Parameters struct {
	Length1 float64 `json:"length1" yaml:"length1" validate:"gte=0"`           // LICs 0, 7, 12
	Radius1 float64 `json:"radius1" yaml:"radius1" validate:"gte=0"`           // LICs 1, 8, 13
	Epsilon float64 `json:"epsilon" yaml:"epsilon" validate:"gte=0,ltpi"`      // LICs 2, 9
	Area1   float64 `json:"area1" yaml:"area1" validate:"gte=0"`               // LICs 3, 10, 14
	QPts    int     `json:"q_pts" yaml:"q_pts" validate:"gte=2"`               // LIC 4
	Quads   int     `json:"quads" yaml:"quads" validate:"gte=1,lte=3"`         // LIC 4
	Dist    float64 `json:"dist" yaml:"dist" validate:"gte=0"`                 // LIC 6
	NPts    int     `json:"n_pts" yaml:"n_pts" validate:"gte=3"`               // LIC 6
	KPts    int     `json:"k_pts" yaml:"k_pts" validate:"gte=1"`               // LICs 7, 12
	APts    int     `json:"a_pts" yaml:"a_pts" validate:"gte=1"`               // LICs 8, 13
	BPts    int     `json:"b_pts" yaml:"b_pts" validate:"gte=1"`               // LICs 8, 13
	CPts    int     `json:"c_pts" yaml:"c_pts" validate:"gte=1"`               // LIC 9
	DPts    int     `json:"d_pts" yaml:"d_pts" validate:"gte=1"`               // LIC 9
	EPts    int     `json:"e_pts" yaml:"e_pts" validate:"gte=1"`               // LICs 10, 14
	FPts    int     `json:"f_pts" yaml:"f_pts" validate:"gte=1"`               // LICs 10, 14
	GPts    int     `json:"g_pts" yaml:"g_pts" validate:"gte=1"`               // LIC 11
	Length2 float64 `json:"length2" yaml:"length2" validate:"gte=0"`           // LIC 12
	Radius2 float64 `json:"radius2" yaml:"radius2" validate:"gte=0"`           // LIC 13
	Area2   float64 `json:"area2" yaml:"area2" validate:"gte=0"`               // LIC 14
}

// Minimal returns the smallest parameter set accepted for any NUMPOINTS >= 5.
func Minimal() Parameters {
	return Parameters{
		Length1: 1, Radius1: 1, Epsilon: 1, Area1: 1,
		QPts: 2, Quads: 1, Dist: 1, NPts: 3, KPts: 1,
		APts: 1, BPts: 1, CPts: 1, DPts: 1, EPts: 1, FPts: 1, GPts: 1,
		Length2: 1, Radius2: 1, Area2: 1,
	}
}

// #endregion parameters

// #region errors
// ErrInvalidParameter matches every *InvalidParameterError via errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError identifies the offending field and the violated bound.
type InvalidParameterError struct {
	Field string // canonical name, e.g. "Q_PTS" or "A_PTS+B_PTS"
	Bound string // e.g. ">= 0", "<= NUMPOINTS-3 (2)"
	Value any
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: must be %s", e.Field, e.Value, e.Bound)
}

// Is reports whether target is ErrInvalidParameter.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// #endregion errors
