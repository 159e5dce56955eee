package http

import (
	"net/http"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/application/usecases/queries"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

type NewParcel struct {
	SenderID      string    `json:"senderId"`
	PickupStation string    `json:"pickupStation"`
	DropStation   string    `json:"dropStation"`
	WeightKg      float64   `json:"weightKg"`
	PickupTime    time.Time `json:"pickupTime"`
}

type CreatedParcel struct {
	ID        string                `json:"id"`
	Status    string                `json:"status"`
	Fee       int                   `json:"fee"`
	Breakdown services.FeeBreakdown `json:"breakdown"`
}

type PendingParcel struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"senderId"`
	PickupStation string    `json:"pickupStation"`
	DropStation   string    `json:"dropStation"`
	WeightKg      float64   `json:"weightKg"`
	PickupTime    time.Time `json:"pickupTime"`
	Fee           int       `json:"fee"`
}

type AcceptParcel struct {
	CarrierID string `json:"carrierId"`
	JourneyID string `json:"journeyId"`
}

type AcceptedParcel struct {
	ID     string               `json:"id"`
	Status string               `json:"status"`
	Match  services.MatchResult `json:"match"`
}

type ParcelStatusUpdate struct {
	ActorID string `json:"actorId"`
	Action  string `json:"action"`
}

type ParcelStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateParcel handles POST /api/parcels. The fee is computed server side.
func (s *Server) CreateParcel(c echo.Context) error {
	var req NewParcel
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	senderID, err := kernel.UUIDFromString(req.SenderID)
	if err != nil {
		return s.fail(c, err)
	}

	parcelID := kernel.NewUUID()
	cmd, err := commands.NewCreateParcelRequestCommand(
		parcelID, senderID, req.PickupStation, req.DropStation, req.WeightKg, req.PickupTime,
	)
	if err != nil {
		return s.fail(c, err)
	}

	breakdown, err := s.h.CreateParcelRequest.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedParcel{
		ID:        parcelID.String(),
		Status:    parcel.Pending.String(),
		Fee:       breakdown.TotalFee,
		Breakdown: breakdown,
	})
}

// GetPendingParcels handles GET /api/parcels/pending?limit=.
func (s *Server) GetPendingParcels(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "limit must be an integer")
	}

	query, err := queries.NewGetPendingParcelsQuery(limit)
	if err != nil {
		return s.fail(c, err)
	}

	pending, err := s.h.PendingParcels.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]PendingParcel, len(pending))
	for i, p := range pending {
		response[i] = PendingParcel{
			ID:            p.ID.String(),
			SenderID:      p.SenderID.String(),
			PickupStation: p.PickupStation,
			DropStation:   p.DropStation,
			WeightKg:      p.WeightKg,
			PickupTime:    p.PickupTime,
			Fee:           p.Fee,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// VerifyMatch handles GET /api/parcels/:id/match?journey_id=. It only reports;
// nothing is assigned.
func (s *Server) VerifyMatch(c echo.Context) error {
	parcelID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	if c.QueryParam("journey_id") == "" {
		return badRequest(c, "journey_id is required")
	}
	journeyID, err := kernel.UUIDFromString(c.QueryParam("journey_id"))
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewVerifyMatchQuery(parcelID, journeyID)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.VerifyMatch.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	s.metrics.ObserveRouteVerification(string(result.MatchType), result.IsMatch)

	return c.JSON(http.StatusOK, result)
}

// AcceptParcel handles POST /api/parcels/:id/accept.
func (s *Server) AcceptParcel(c echo.Context) error {
	parcelID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var req AcceptParcel
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	carrierID, err := kernel.UUIDFromString(req.CarrierID)
	if err != nil {
		return s.fail(c, err)
	}
	journeyID, err := kernel.UUIDFromString(req.JourneyID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAcceptParcelCommand(parcelID, carrierID, journeyID)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.AcceptParcel.Handle(c.Request().Context(), cmd)
	if result.MatchType != "" {
		s.metrics.ObserveRouteVerification(string(result.MatchType), result.IsMatch)
	}
	if err != nil {
		return s.fail(c, err)
	}
	s.metrics.ParcelAccepted()

	return c.JSON(http.StatusOK, AcceptedParcel{
		ID:     parcelID.String(),
		Status: parcel.Accepted.String(),
		Match:  result,
	})
}

// UpdateParcelStatus handles POST /api/parcels/:id/status with one of the
// actions pickup, deliver, cancel or fail.
func (s *Server) UpdateParcelStatus(c echo.Context) error {
	parcelID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var req ParcelStatusUpdate
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateParcelStatusCommand(parcelID, actorID, req.Action)
	if err != nil {
		return s.fail(c, err)
	}

	status, err := s.h.UpdateParcelStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, ParcelStatus{ID: parcelID.String(), Status: status.String()})
}
