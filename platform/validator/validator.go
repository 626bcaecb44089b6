// Package validator wraps go-playground/validator with the custom tags used
// by request structs.
package validator

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("coordinate", coordinatePair)
	return &Validator{v: v}
}

func (val *Validator) Struct(s any) error { return val.v.Struct(s) }

func (val *Validator) Var(field any, tag string) error { return val.v.Var(field, tag) }

// coordinatePair backs the "coordinate" tag: "lat,lon" with both parts on
// the globe. NaN fails the range checks.
func coordinatePair(fl validator.FieldLevel) bool {
	latRaw, lonRaw, ok := strings.Cut(fl.Field().String(), ",")
	if !ok || strings.Contains(lonRaw, ",") {
		return false
	}
	return inRange(latRaw, 90) && inRange(lonRaw, 180)
}

func inRange(raw string, limit float64) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return err == nil && f >= -limit && f <= limit
}
