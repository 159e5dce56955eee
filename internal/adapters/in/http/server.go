package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/application/usecases/queries"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/model/payment"
	"parcelbridge/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// Use case contracts the server depends on. The application layer's handlers
// satisfy them.
type (
	EstimateFeeHandler interface {
		Handle(ctx context.Context, query queries.EstimateFeeQuery) (services.FeeEstimate, error)
	}
	SearchStationsHandler interface {
		Handle(ctx context.Context, query queries.SearchStationsQuery) ([]queries.SearchStationsQueryResponse, error)
	}
	NearbyStationsHandler interface {
		Handle(ctx context.Context, query queries.NearbyStationsQuery) ([]queries.NearbyStationsQueryResponse, error)
	}
	PendingParcelsHandler interface {
		Handle(ctx context.Context, query queries.GetPendingParcelsQuery) ([]queries.GetPendingParcelsQueryResponse, error)
	}
	VerifyMatchHandler interface {
		Handle(ctx context.Context, query queries.VerifyMatchQuery) (services.MatchResult, error)
	}
	CheckCarrierVerificationHandler interface {
		Handle(ctx context.Context, query queries.CheckCarrierVerificationQuery) (services.CarrierVerification, error)
	}

	CreateJourneyHandler interface {
		Handle(ctx context.Context, cmd commands.CreateJourneyCommand) error
	}
	RecordAadhaarStatusHandler interface {
		Handle(ctx context.Context, cmd commands.RecordAadhaarStatusCommand) error
	}
	CreateParcelRequestHandler interface {
		Handle(ctx context.Context, cmd commands.CreateParcelRequestCommand) (services.FeeBreakdown, error)
	}
	AcceptParcelHandler interface {
		Handle(ctx context.Context, cmd commands.AcceptParcelCommand) (services.MatchResult, error)
	}
	UpdateParcelStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateParcelStatusCommand) (parcel.Status, error)
	}
	StartSessionHandler interface {
		Handle(ctx context.Context, cmd commands.StartSessionCommand) (time.Time, error)
	}
	TouchSessionHandler interface {
		Handle(ctx context.Context, cmd commands.TouchSessionCommand) (time.Time, error)
	}
	EndSessionHandler interface {
		Handle(ctx context.Context, cmd commands.EndSessionCommand) error
	}
	ProcessPaymentEventHandler interface {
		Handle(ctx context.Context, cmd commands.ProcessPaymentEventCommand) (payment.Status, error)
	}
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	// Query handlers
	EstimateFee              EstimateFeeHandler
	SearchStations           SearchStationsHandler
	NearbyStations           NearbyStationsHandler
	PendingParcels           PendingParcelsHandler
	VerifyMatch              VerifyMatchHandler
	CheckCarrierVerification CheckCarrierVerificationHandler

	// Command handlers
	CreateJourney       CreateJourneyHandler
	RecordAadhaarStatus RecordAadhaarStatusHandler
	CreateParcelRequest CreateParcelRequestHandler
	AcceptParcel        AcceptParcelHandler
	UpdateParcelStatus  UpdateParcelStatusHandler
	StartSession        StartSessionHandler
	TouchSession        TouchSessionHandler
	EndSession          EndSessionHandler
	ProcessPaymentEvent ProcessPaymentEventHandler
}

// Metrics receives request and business counters. *metrics.Collector implements it.
type Metrics interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	FeeEstimate(outcome string)
	ObserveRouteVerification(matchType string, matched bool)
	ParcelAccepted()
	WebhookEvent(event, outcome string)
}

type Options struct {
	// WebhookSecret signs Razorpay webhook bodies.
	WebhookSecret string
	// CheckoutSecret is the Razorpay key secret used for checkout signatures.
	CheckoutSecret string

	Metrics        Metrics
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server maps HTTP requests onto application use cases.
type Server struct {
	h Handlers

	webhookSecret  []byte
	checkoutSecret []byte

	metrics        Metrics
	metricsHandler http.Handler
	logger         *slog.Logger
}

func NewServer(h Handlers, opts Options) (*Server, error) {
	if opts.WebhookSecret == "" {
		return nil, errors.New("webhook secret is required")
	}

	m := opts.Metrics
	if m == nil {
		m = noopMetrics{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		h:              h,
		webhookSecret:  []byte(opts.WebhookSecret),
		checkoutSecret: []byte(opts.CheckoutSecret),
		metrics:        m,
		metricsHandler: opts.MetricsHandler,
		logger:         logger.With("component", "http"),
	}, nil
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.Use(s.observe)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	if s.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}

	api := e.Group("/api")

	api.GET("/fees/estimate", s.EstimateFee)

	api.GET("/stations/search", s.SearchStations)
	api.GET("/stations/nearby", s.NearbyStations)

	api.POST("/journeys", s.CreateJourney)

	api.GET("/carriers/:id/verification", s.CheckCarrierVerification)
	api.PUT("/carriers/:id/aadhaar", s.RecordAadhaarStatus)

	api.POST("/parcels", s.CreateParcel)
	api.GET("/parcels/pending", s.GetPendingParcels)
	api.GET("/parcels/:id/match", s.VerifyMatch)
	api.POST("/parcels/:id/accept", s.AcceptParcel)
	api.POST("/parcels/:id/status", s.UpdateParcelStatus)

	api.POST("/sessions", s.StartSession)
	api.POST("/sessions/:id/heartbeat", s.Heartbeat)
	api.DELETE("/sessions/:id", s.EndSession)

	api.POST("/webhooks/razorpay", s.RazorpayWebhook)
	api.POST("/payments/verify", s.VerifyCheckout)
}

func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.metrics.ObserveHTTP(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
		return nil
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveHTTP(string, string, int, time.Duration) {}
func (noopMetrics) FeeEstimate(string)                             {}
func (noopMetrics) ObserveRouteVerification(string, bool)          {}
func (noopMetrics) ParcelAccepted()                                {}
func (noopMetrics) WebhookEvent(string, string)                    {}
