package station

import (
	"errors"
	"strings"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"
)

const maxCodeLength = 8

var (
	ErrCodeIsRequired          = errs.NewValueIsRequiredError("code")
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrStationIsNotConstructed = errors.New("Station must be created via NewStation constructor")
)

// Station is a railway station. Code is the unique identifier and is always upper case.
type Station struct { //nolint:recvcheck //using for validation
	code     string
	name     string
	location kernel.GeoPoint
	state    string
	zone     string

	guard guard.ConstructorGuard
}

// NewStation validates and normalises a station record. State and zone are optional.
func NewStation(code, name string, location kernel.GeoPoint, state, zone string) (Station, error) {
	s := Station{
		state: strings.TrimSpace(state),
		zone:  strings.TrimSpace(zone),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setCode(code),
		s.setName(name),
		s.setLocation(location),
	); err != nil {
		return Station{}, err
	}

	return s, nil
}

func (s Station) Validate() error {
	return s.guard.Validate(ErrStationIsNotConstructed)
}

func (s Station) Code() string {
	return s.code
}

func (s Station) Name() string {
	return s.name
}

func (s Station) Location() kernel.GeoPoint {
	return s.location
}

func (s Station) State() string {
	return s.state
}

func (s Station) Zone() string {
	return s.zone
}

// NormalizeCode upper-cases and trims a station code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Station) setCode(code string) error {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return ErrCodeIsRequired
	}
	if len(normalized) > maxCodeLength || strings.ContainsAny(normalized, " \t") {
		return errs.NewValueIsInvalidError("code")
	}
	s.code = normalized
	return nil
}

func (s *Station) setName(name string) error {
	trimmed := strings.Join(strings.Fields(name), " ")
	if trimmed == "" {
		return ErrNameIsRequired
	}
	s.name = trimmed
	return nil
}

func (s *Station) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	s.location = location
	return nil
}
