package http

import (
	"net/http"
	"strings"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/application/usecases/queries"
	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

type NewJourney struct {
	CarrierID          string   `json:"carrierId"`
	PNR                string   `json:"pnr"`
	TrainNumber        string   `json:"trainNumber"`
	SourceStation      string   `json:"sourceStation"`
	DestinationStation string   `json:"destinationStation"`
	Stations           []string `json:"stations"`
	JourneyDate        string   `json:"journeyDate"`
	DepartureTime      string   `json:"departureTime"`
	ArrivalTime        string   `json:"arrivalTime"`
}

type Created struct {
	ID string `json:"id"`
}

type AadhaarStatusUpdate struct {
	Status string `json:"status"`
}

// CreateJourney handles POST /api/journeys.
func (s *Server) CreateJourney(c echo.Context) error {
	var req NewJourney
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	carrierID, err := kernel.UUIDFromString(req.CarrierID)
	if err != nil {
		return s.fail(c, err)
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.JourneyDate))
	if err != nil {
		return badRequest(c, "journeyDate must be YYYY-MM-DD")
	}

	journeyID := kernel.NewUUID()
	cmd, err := commands.NewCreateJourneyCommand(journeyID, carrierID, journey.Params{
		PNR:             req.PNR,
		TrainNumber:     req.TrainNumber,
		SourceCode:      req.SourceStation,
		DestinationCode: req.DestinationStation,
		Stations:        req.Stations,
		JourneyDate:     date,
		DepartureTime:   req.DepartureTime,
		ArrivalTime:     req.ArrivalTime,
	})
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.CreateJourney.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, Created{ID: journeyID.String()})
}

// CheckCarrierVerification handles GET /api/carriers/:id/verification?parcel_id=.
func (s *Server) CheckCarrierVerification(c echo.Context) error {
	carrierID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var parcelID *kernel.UUID
	if raw := c.QueryParam("parcel_id"); raw != "" {
		id, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return s.fail(c, parseErr)
		}
		parcelID = &id
	}

	query, err := queries.NewCheckCarrierVerificationQuery(carrierID, parcelID)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.CheckCarrierVerification.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// RecordAadhaarStatus handles PUT /api/carriers/:id/aadhaar.
func (s *Server) RecordAadhaarStatus(c echo.Context) error {
	carrierID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}

	var req AadhaarStatusUpdate
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd, err := commands.NewRecordAadhaarStatusCommand(carrierID, req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.RecordAadhaarStatus.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
