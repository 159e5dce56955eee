package journey

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/station"
	"parcelbridge/internal/pkg/errs"
)

// ClockLayout is the layout of departure and arrival times.
const ClockLayout = "15:04"

var (
	ErrJourneyIsNotConstructed = errors.New("Journey must be created via NewJourney constructor")
	ErrNotOwnedByCarrier       = errors.New("journey does not belong to the carrier")

	pnrPattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Journey is a carrier's train trip. The zero value is invalid.
type Journey struct {
	id          kernel.UUID
	carrierID   kernel.UUID
	pnr         string
	trainNumber string

	sourceCode      string
	destinationCode string
	stations        []string

	journeyDate   time.Time
	departureTime string
	arrivalTime   string

	isActive      bool
	isConstructed bool
}

// Params groups the user-supplied journey attributes.
type Params struct {
	PNR             string
	TrainNumber     string
	SourceCode      string
	DestinationCode string
	Stations        []string
	JourneyDate     time.Time
	DepartureTime   string
	ArrivalTime     string
}

// NewJourney registers a new active journey.
func NewJourney(id, carrierID kernel.UUID, p Params) (*Journey, error) {
	j := &Journey{isActive: true, isConstructed: true}

	if err := errors.Join(
		j.setID(id),
		j.setCarrier(carrierID),
		j.setPNR(p.PNR),
		j.setRoute(p.SourceCode, p.DestinationCode, p.Stations),
		j.setSchedule(p.JourneyDate, p.DepartureTime, p.ArrivalTime),
	); err != nil {
		return nil, err
	}
	j.trainNumber = strings.TrimSpace(p.TrainNumber)

	return j, nil
}

// RestoreJourney rebuilds a persisted journey, including its active flag.
func RestoreJourney(id, carrierID kernel.UUID, p Params, isActive bool) (*Journey, error) {
	j, err := NewJourney(id, carrierID, p)
	if err != nil {
		return nil, err
	}
	j.isActive = isActive
	return j, nil
}

func (j *Journey) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJourneyIsNotConstructed
	}
	return nil
}

func (j *Journey) ID() kernel.UUID {
	return j.id
}

func (j *Journey) CarrierID() kernel.UUID {
	return j.carrierID
}

func (j *Journey) PNR() string {
	return j.pnr
}

func (j *Journey) TrainNumber() string {
	return j.trainNumber
}

func (j *Journey) SourceCode() string {
	return j.sourceCode
}

func (j *Journey) DestinationCode() string {
	return j.destinationCode
}

// Stations returns a copy of the intermediate station codes as registered.
func (j *Journey) Stations() []string {
	out := make([]string, len(j.stations))
	copy(out, j.stations)
	return out
}

func (j *Journey) JourneyDate() time.Time {
	return j.journeyDate
}

func (j *Journey) DepartureTime() string {
	return j.departureTime
}

func (j *Journey) ArrivalTime() string {
	return j.arrivalTime
}

func (j *Journey) IsActive() bool {
	return j.isActive
}

// IsOwnedBy reports whether carrierID registered this journey.
func (j *Journey) IsOwnedBy(carrierID kernel.UUID) bool {
	return j.carrierID.IsEqual(carrierID)
}

// OrderedStationCodes returns source, intermediate stations and destination,
// de-duplicated in first-seen order.
func (j *Journey) OrderedStationCodes() []string {
	all := make([]string, 0, len(j.stations)+2)
	all = append(all, j.sourceCode)
	all = append(all, j.stations...)
	all = append(all, j.destinationCode)

	seen := make(map[string]struct{}, len(all))
	ordered := make([]string, 0, len(all))
	for _, code := range all {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		ordered = append(ordered, code)
	}
	return ordered
}

// Deactivate removes the journey from matching. It is idempotent.
func (j *Journey) Deactivate() {
	j.isActive = false
}

// IsStale reports whether the journey date is before the calendar day of now.
// The day is read in now's location, so callers pass now in the operating zone.
func (j *Journey) IsStale(now time.Time) bool {
	y, m, d := now.Date()
	return calendarDay(j.journeyDate).Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// calendarDay drops the zone of a journey date. Journey dates are calendar
// days; the zone they were parsed in carries no meaning.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (j *Journey) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Journey) setCarrier(carrierID kernel.UUID) error {
	if err := carrierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("carrier_id", err)
	}
	j.carrierID = carrierID
	return nil
}

func (j *Journey) setPNR(pnr string) error {
	pnr = strings.TrimSpace(pnr)
	if pnr == "" {
		return errs.NewValueIsRequiredError("pnr")
	}
	if !pnrPattern.MatchString(pnr) {
		return errs.NewValueIsInvalidErrorWithCause("pnr", fmt.Errorf("%q is not a 10-digit PNR", pnr))
	}
	j.pnr = pnr
	return nil
}

func (j *Journey) setRoute(source, destination string, stations []string) error {
	src := station.NormalizeCode(source)
	dst := station.NormalizeCode(destination)

	var problems []error
	if src == "" {
		problems = append(problems, errs.NewValueIsRequiredError("source_station_code"))
	}
	if dst == "" {
		problems = append(problems, errs.NewValueIsRequiredError("destination_station_code"))
	}
	if src != "" && src == dst {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"destination_station_code", fmt.Errorf("%s is also the source", dst)))
	}

	codes := make([]string, 0, len(stations))
	for _, s := range stations {
		if code := station.NormalizeCode(s); code != "" {
			codes = append(codes, code)
		}
	}

	if err := errors.Join(problems...); err != nil {
		return err
	}

	j.sourceCode = src
	j.destinationCode = dst
	j.stations = codes
	return nil
}

func (j *Journey) setSchedule(date time.Time, departure, arrival string) error {
	var problems []error
	if date.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("journey_date"))
	}
	if _, err := time.Parse(ClockLayout, departure); err != nil {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("departure_time", err))
	}
	if _, err := time.Parse(ClockLayout, arrival); err != nil {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("arrival_time", err))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	j.journeyDate = calendarDay(date)
	j.departureTime = departure
	j.arrivalTime = arrival
	return nil
}
