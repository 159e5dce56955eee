package station

import (
	"errors"
	"fmt"
	"math"

	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"
)

var ErrDistanceIsNotConstructed = errors.New("Distance must be created via NewDistance constructor")

// Distance is the precomputed rail distance between two stations.
type Distance struct { //nolint:recvcheck //using for validation
	fromCode string
	toCode   string
	km       float64

	guard guard.ConstructorGuard
}

func NewDistance(fromCode, toCode string, km float64) (Distance, error) {
	d := Distance{
		fromCode: NormalizeCode(fromCode),
		toCode:   NormalizeCode(toCode),
		guard:    guard.NewConstructorGuard(),
	}

	var problems []error
	if d.fromCode == "" {
		problems = append(problems, errs.NewValueIsRequiredError("from_code"))
	}
	if d.toCode == "" {
		problems = append(problems, errs.NewValueIsRequiredError("to_code"))
	}
	if d.fromCode != "" && d.fromCode == d.toCode {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"to_code", fmt.Errorf("%s cannot be a distance to itself", d.toCode)))
	}
	if math.IsNaN(km) || km <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"distance_km", fmt.Errorf("%v is not greater than 0", km)))
	}
	if err := errors.Join(problems...); err != nil {
		return Distance{}, err
	}

	d.km = km
	return d, nil
}

func (d Distance) Validate() error {
	return d.guard.Validate(ErrDistanceIsNotConstructed)
}

func (d Distance) FromCode() string {
	return d.fromCode
}

func (d Distance) ToCode() string {
	return d.toCode
}

func (d Distance) Km() float64 {
	return d.km
}
