package cmd

import (
	"log/slog"
	"time"

	httpin "parcelbridge/internal/adapters/in/http"
	"parcelbridge/internal/adapters/out/postgres"
	"parcelbridge/internal/adapters/out/postgres/stationrepo"
	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/application/usecases/queries"
	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/core/ports"
	"parcelbridge/internal/jobs"
	"parcelbridge/internal/pkg/metrics"

	"gorm.io/gorm"
)

// CompositionRoot builds every use case from one database pool, one event
// publisher and one metrics collector.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	publisher  ports.EventPublisher
	metrics    *metrics.Collector
	logger     *slog.Logger
	location   *time.Location

	feeEstimator        *services.FeeEstimator
	routeVerifier       *services.RouteVerifier
	verificationChecker *services.VerificationChecker
}

func NewCompositionRoot(
	cfg Config,
	tuning Tuning,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	collector *metrics.Collector,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB, stationrepo.NewCache())
	stations := uowFactory.Stations()

	feeEstimator, err := services.NewFeeEstimator(stations, tuning.Tiers(), logger)
	if err != nil {
		return nil, err
	}

	routeCfg, err := tuning.RouteConfig()
	if err != nil {
		return nil, err
	}
	routeCfg.Location = cfg.Location()
	routeVerifier, err := services.NewRouteVerifier(stations, stations, routeCfg, logger)
	if err != nil {
		return nil, err
	}

	checker, err := services.NewVerificationChecker(uowFactory.Identity(), uowFactory.Journeys(), routeVerifier, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		cfg:                 cfg,
		gormDB:              gormDB,
		uowFactory:          uowFactory,
		publisher:           publisher,
		metrics:             collector,
		logger:              logger,
		location:            cfg.Location(),
		feeEstimator:        feeEstimator,
		routeVerifier:       routeVerifier,
		verificationChecker: checker,
	}, nil
}

// HTTPHandlers wires every use case the HTTP server exposes.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		EstimateFee:              c.CreateEstimateFeeQueryHandler(),
		SearchStations:           c.CreateSearchStationsQueryHandler(),
		NearbyStations:           c.CreateNearbyStationsQueryHandler(),
		PendingParcels:           c.CreateGetPendingParcelsQueryHandler(),
		VerifyMatch:              c.CreateVerifyMatchQueryHandler(),
		CheckCarrierVerification: c.CreateCheckCarrierVerificationQueryHandler(),

		CreateJourney:       c.CreateCreateJourneyCommandHandler(),
		RecordAadhaarStatus: c.CreateRecordAadhaarStatusCommandHandler(),
		CreateParcelRequest: c.CreateCreateParcelRequestCommandHandler(),
		AcceptParcel:        c.CreateAcceptParcelCommandHandler(),
		UpdateParcelStatus:  c.CreateUpdateParcelStatusCommandHandler(),
		StartSession:        c.CreateStartSessionCommandHandler(),
		TouchSession:        c.CreateTouchSessionCommandHandler(),
		EndSession:          c.CreateEndSessionCommandHandler(),
		ProcessPaymentEvent: c.CreateProcessPaymentEventCommandHandler(),
	}
}

func (c *CompositionRoot) NewHTTPServer() (*httpin.Server, error) {
	return httpin.NewServer(c.HTTPHandlers(), httpin.Options{
		WebhookSecret:  c.cfg.RazorpayWebhookSecret,
		CheckoutSecret: c.cfg.RazorpayKeySecret,
		Metrics:        c.metrics,
		MetricsHandler: c.metrics.Handler(),
		Logger:         c.logger,
	})
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireSessionsCommandHandler(),
		c.CreateDeactivateStaleJourneysCommandHandler(),
		jobs.DefaultSessionBatchSize,
		c.metrics,
		c.logger,
	)
}

// Commands

func (c *CompositionRoot) CreateImportStationsCommandHandler() commands.ImportStationsCommandHandler {
	var f commands.StationUoWFactory = FuncStationUoWFactory(func() commands.StationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewImportStationsCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateJourneyCommandHandler() commands.CreateJourneyCommandHandler {
	return commands.NewCreateJourneyCommandHandler(c.journeyUoWFactory())
}

func (c *CompositionRoot) CreateDeactivateStaleJourneysCommandHandler() commands.DeactivateStaleJourneysCommandHandler {
	return commands.NewDeactivateStaleJourneysCommandHandler(c.journeyUoWFactory(), nil, c.location)
}

func (c *CompositionRoot) CreateCreateParcelRequestCommandHandler() commands.CreateParcelRequestCommandHandler {
	return commands.NewCreateParcelRequestCommandHandler(c.parcelUoWFactory(), c.feeEstimator)
}

func (c *CompositionRoot) CreateAcceptParcelCommandHandler() commands.AcceptParcelCommandHandler {
	return commands.NewAcceptParcelCommandHandler(c.parcelUoWFactory(), c.routeVerifier, c.publisher, nil, c.logger)
}

func (c *CompositionRoot) CreateUpdateParcelStatusCommandHandler() commands.UpdateParcelStatusCommandHandler {
	return commands.NewUpdateParcelStatusCommandHandler(c.parcelUoWFactory(), c.publisher, nil, c.logger)
}

func (c *CompositionRoot) CreateProcessPaymentEventCommandHandler() commands.ProcessPaymentEventCommandHandler {
	var f commands.PaymentUoWFactory = FuncPaymentUoWFactory(func() commands.PaymentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessPaymentEventCommandHandler(f, c.publisher, nil, c.logger)
}

func (c *CompositionRoot) CreateRecordAadhaarStatusCommandHandler() commands.RecordAadhaarStatusCommandHandler {
	var f commands.IdentityUoWFactory = FuncIdentityUoWFactory(func() commands.IdentityUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordAadhaarStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateStartSessionCommandHandler() commands.StartSessionCommandHandler {
	return commands.NewStartSessionCommandHandler(c.sessionUoWFactory(), c.cfg.SessionIdleTimeout, nil)
}

func (c *CompositionRoot) CreateTouchSessionCommandHandler() commands.TouchSessionCommandHandler {
	return commands.NewTouchSessionCommandHandler(c.sessionUoWFactory(), c.cfg.SessionIdleTimeout, nil)
}

func (c *CompositionRoot) CreateEndSessionCommandHandler() commands.EndSessionCommandHandler {
	return commands.NewEndSessionCommandHandler(c.sessionUoWFactory(), nil)
}

func (c *CompositionRoot) CreateExpireSessionsCommandHandler() commands.ExpireSessionsCommandHandler {
	return commands.NewExpireSessionsCommandHandler(c.sessionUoWFactory(), nil)
}

// Queries

func (c *CompositionRoot) CreateEstimateFeeQueryHandler() queries.EstimateFeeQueryHandler {
	return queries.NewEstimateFeeQueryHandler(c.feeEstimator)
}

func (c *CompositionRoot) CreateSearchStationsQueryHandler() queries.SearchStationsQueryHandler {
	return queries.NewSearchStationsQueryHandler(c.uowFactory.Stations())
}

func (c *CompositionRoot) CreateNearbyStationsQueryHandler() queries.NearbyStationsQueryHandler {
	return queries.NewNearbyStationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingParcelsQueryHandler() queries.GetPendingParcelsQueryHandler {
	return queries.NewGetPendingParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateVerifyMatchQueryHandler() queries.VerifyMatchQueryHandler {
	return queries.NewVerifyMatchQueryHandler(c.uowFactory.Parcels(), c.uowFactory.Journeys(), c.routeVerifier)
}

func (c *CompositionRoot) CreateCheckCarrierVerificationQueryHandler() queries.CheckCarrierVerificationQueryHandler {
	return queries.NewCheckCarrierVerificationQueryHandler(c.uowFactory.Parcels(), c.verificationChecker)
}

func (c *CompositionRoot) journeyUoWFactory() commands.JourneyUoWFactory {
	return FuncJourneyUoWFactory(func() commands.JourneyUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) parcelUoWFactory() commands.ParcelUoWFactory {
	return FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) sessionUoWFactory() commands.SessionUoWFactory {
	return FuncSessionUoWFactory(func() commands.SessionUoW {
		return c.uowFactory.Create()
	})
}

type FuncStationUoWFactory func() commands.StationUoW

func (f FuncStationUoWFactory) Create() commands.StationUoW {
	return f()
}

type FuncJourneyUoWFactory func() commands.JourneyUoW

func (f FuncJourneyUoWFactory) Create() commands.JourneyUoW {
	return f()
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncPaymentUoWFactory func() commands.PaymentUoW

func (f FuncPaymentUoWFactory) Create() commands.PaymentUoW {
	return f()
}

type FuncSessionUoWFactory func() commands.SessionUoW

func (f FuncSessionUoWFactory) Create() commands.SessionUoW {
	return f()
}

type FuncIdentityUoWFactory func() commands.IdentityUoW

func (f FuncIdentityUoWFactory) Create() commands.IdentityUoW {
	return f()
}
