package parcel

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/pkg/errs"
)

var ErrParcelIsNotConstructed = errors.New("ParcelRequest must be created via NewParcelRequest constructor")

// ParcelRequest is a sender's delivery ask. Pickup and drop stations are kept as
// the free text the sender entered; resolution to station codes happens during
// route verification.
type ParcelRequest struct {
	id       kernel.UUID
	senderID kernel.UUID

	pickupStation string
	dropStation   string
	weightKg      float64
	pickupTime    time.Time
	fee           int

	status    Status
	carrierID *kernel.UUID
	journeyID *kernel.UUID

	isConstructed bool
}

// Params groups the sender-supplied parcel attributes.
type Params struct {
	PickupStation string
	DropStation   string
	WeightKg      float64
	PickupTime    time.Time
	Fee           int
}

// NewParcelRequest creates a parcel in PENDING status.
func NewParcelRequest(id, senderID kernel.UUID, p Params) (*ParcelRequest, error) {
	pr := &ParcelRequest{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		pr.setID(id),
		pr.setSender(senderID),
		pr.setStations(p.PickupStation, p.DropStation),
		pr.setWeight(p.WeightKg),
		pr.setPickupTime(p.PickupTime),
		pr.setFee(p.Fee),
	); err != nil {
		return nil, err
	}

	return pr, nil
}

// RestoreParcelRequest rebuilds a persisted parcel, checking that the assignment
// is consistent with the status.
func RestoreParcelRequest(
	id, senderID kernel.UUID,
	p Params,
	status Status,
	carrierID, journeyID *kernel.UUID,
) (*ParcelRequest, error) {
	pr, err := NewParcelRequest(id, senderID, p)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if (carrierID == nil) != (journeyID == nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"assignment", errors.New("carrier and journey must be set together"))
	}
	if err = status.ValidateCanHaveCarrier(carrierID != nil); err != nil {
		return nil, err
	}

	pr.status = status
	pr.carrierID = carrierID
	pr.journeyID = journeyID
	return pr, nil
}

func (p *ParcelRequest) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}
	return nil
}

func (p *ParcelRequest) IsEqual(other *ParcelRequest) bool {
	return other != nil && p.id.IsEqual(other.id)
}

func (p *ParcelRequest) ID() kernel.UUID {
	return p.id
}

func (p *ParcelRequest) SenderID() kernel.UUID {
	return p.senderID
}

func (p *ParcelRequest) PickupStation() string {
	return p.pickupStation
}

func (p *ParcelRequest) DropStation() string {
	return p.dropStation
}

func (p *ParcelRequest) WeightKg() float64 {
	return p.weightKg
}

func (p *ParcelRequest) PickupTime() time.Time {
	return p.pickupTime
}

func (p *ParcelRequest) Fee() int {
	return p.fee
}

func (p *ParcelRequest) Status() Status {
	return p.status
}

func (p *ParcelRequest) CarrierID() *kernel.UUID {
	return p.carrierID
}

func (p *ParcelRequest) JourneyID() *kernel.UUID {
	return p.journeyID
}

// Accept assigns the parcel to a carrier travelling on journeyID.
func (p *ParcelRequest) Accept(carrierID, journeyID kernel.UUID) error {
	if err := errors.Join(carrierID.Validate(), journeyID.Validate()); err != nil {
		return err
	}

	next, err := p.status.Accept()
	if err != nil {
		return err
	}

	p.status = next
	p.carrierID = &carrierID
	p.journeyID = &journeyID
	return nil
}

// StartTransit records that the carrier picked the parcel up.
func (p *ParcelRequest) StartTransit() error {
	return p.apply(p.status.StartTransit)
}

func (p *ParcelRequest) Deliver() error {
	return p.apply(p.status.Deliver)
}

// Cancel withdraws the request and releases any carrier assignment.
func (p *ParcelRequest) Cancel() error {
	next, err := p.status.Cancel()
	if err != nil {
		return err
	}
	p.status = next
	p.carrierID = nil
	p.journeyID = nil
	return nil
}

func (p *ParcelRequest) FailByCarrier() error {
	return p.apply(p.status.FailByCarrier)
}

func (p *ParcelRequest) apply(transition func() (Status, error)) error {
	next, err := transition()
	if err != nil {
		return err
	}
	p.status = next
	return nil
}

func (p *ParcelRequest) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *ParcelRequest) setSender(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sender_id", err)
	}
	p.senderID = senderID
	return nil
}

func (p *ParcelRequest) setStations(pickup, drop string) error {
	pickup = strings.TrimSpace(pickup)
	drop = strings.TrimSpace(drop)

	var problems []error
	if pickup == "" {
		problems = append(problems, errs.NewValueIsRequiredError("pickup_station"))
	}
	if drop == "" {
		problems = append(problems, errs.NewValueIsRequiredError("drop_station"))
	}
	if pickup != "" && strings.EqualFold(pickup, drop) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"drop_station", fmt.Errorf("%q is also the pickup station", drop)))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	p.pickupStation = pickup
	p.dropStation = drop
	return nil
}

func (p *ParcelRequest) setWeight(weightKg float64) error {
	if math.IsNaN(weightKg) || weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight_kg", fmt.Errorf("%v is not greater than 0", weightKg))
	}
	p.weightKg = weightKg
	return nil
}

func (p *ParcelRequest) setPickupTime(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("pickup_time")
	}
	p.pickupTime = t
	return nil
}

func (p *ParcelRequest) setFee(fee int) error {
	if fee <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("fee", fmt.Errorf("%d is not greater than 0", fee))
	}
	p.fee = fee
	return nil
}
