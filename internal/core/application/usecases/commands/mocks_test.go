package commands_test

import (
	"context"
	"time"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/domain/model/journey"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/parcel"
	"parcelbridge/internal/core/domain/model/payment"
	"parcelbridge/internal/core/domain/model/session"
	"parcelbridge/internal/core/domain/model/station"
	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// MockUoW implements every UoW interface the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) StationRepository() ports.StationRepository {
	args := m.Called()
	return args.Get(0).(ports.StationRepository)
}

func (m *MockUoW) JourneyRepository() ports.JourneyRepository {
	args := m.Called()
	return args.Get(0).(ports.JourneyRepository)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

func (m *MockUoW) WalletTransactionRepository() ports.WalletTransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.WalletTransactionRepository)
}

func (m *MockUoW) SessionRepository() ports.SessionRepository {
	args := m.Called()
	return args.Get(0).(ports.SessionRepository)
}

func (m *MockUoW) IdentityVerificationRepository() ports.IdentityVerificationRepository {
	args := m.Called()
	return args.Get(0).(ports.IdentityVerificationRepository)
}

// MockUoWFactory hands out the same MockUoW under every factory interface.
type MockUoWFactory struct {
	mock.Mock
}

func (m *MockUoWFactory) create() *MockUoW {
	args := m.MethodCalled("Create")
	return args.Get(0).(*MockUoW)
}

type stationFactory struct{ *MockUoWFactory }

func (f stationFactory) Create() commands.StationUoW { return f.create() }

type journeyFactory struct{ *MockUoWFactory }

func (f journeyFactory) Create() commands.JourneyUoW { return f.create() }

type parcelFactory struct{ *MockUoWFactory }

func (f parcelFactory) Create() commands.ParcelUoW { return f.create() }

type paymentFactory struct{ *MockUoWFactory }

func (f paymentFactory) Create() commands.PaymentUoW { return f.create() }

type sessionFactory struct{ *MockUoWFactory }

func (f sessionFactory) Create() commands.SessionUoW { return f.create() }

type identityFactory struct{ *MockUoWFactory }

func (f identityFactory) Create() commands.IdentityUoW { return f.create() }

type MockStationRepository struct{ mock.Mock }

func (m *MockStationRepository) UpsertStations(ctx context.Context, s []station.Station) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStationRepository) UpsertDistances(ctx context.Context, d []station.Distance) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockStationRepository) GetByCode(ctx context.Context, code string) (station.Station, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(station.Station), args.Error(1)
}

type MockJourneyRepository struct{ mock.Mock }

func (m *MockJourneyRepository) Add(ctx context.Context, j *journey.Journey) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJourneyRepository) Update(ctx context.Context, j *journey.Journey) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJourneyRepository) Get(ctx context.Context, id kernel.UUID) (*journey.Journey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journey.Journey), args.Error(1)
}

func (m *MockJourneyRepository) GetActiveByCarrier(ctx context.Context, carrierID kernel.UUID) ([]*journey.Journey, error) {
	args := m.Called(ctx, carrierID)
	return args.Get(0).([]*journey.Journey), args.Error(1)
}

func (m *MockJourneyRepository) GetActiveBefore(ctx context.Context, date time.Time) ([]*journey.Journey, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]*journey.Journey), args.Error(1)
}

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.ParcelRequest) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.ParcelRequest) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.ParcelRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.ParcelRequest), args.Error(1)
}

func (m *MockParcelRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*parcel.ParcelRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.ParcelRequest), args.Error(1)
}

type MockWalletTransactionRepository struct{ mock.Mock }

func (m *MockWalletTransactionRepository) GetByOrderIDForUpdate(ctx context.Context, orderID string) (*payment.WalletTransaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WalletTransaction), args.Error(1)
}

func (m *MockWalletTransactionRepository) Save(ctx context.Context, tx *payment.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) Add(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id kernel.UUID) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepository) GetExpired(ctx context.Context, now time.Time, limit int) ([]*session.Session, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]*session.Session), args.Error(1)
}

type MockIdentityRepository struct{ mock.Mock }

func (m *MockIdentityRepository) AadhaarStatus(ctx context.Context, carrierID kernel.UUID) (ports.AadhaarStatus, error) {
	args := m.Called(ctx, carrierID)
	return args.Get(0).(ports.AadhaarStatus), args.Error(1)
}

func (m *MockIdentityRepository) SetAadhaarStatus(ctx context.Context, carrierID kernel.UUID, status ports.AadhaarStatus) error {
	args := m.Called(ctx, carrierID, status)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, payload any) error {
	args := m.Called(ctx, subject, payload)
	return args.Error(0)
}

type MockRouteVerifier struct{ mock.Mock }

func (m *MockRouteVerifier) Verify(ctx context.Context, j *journey.Journey, p *parcel.ParcelRequest) services.MatchResult {
	args := m.Called(ctx, j, p)
	return args.Get(0).(services.MatchResult)
}

type MockFeeEstimator struct{ mock.Mock }

func (m *MockFeeEstimator) Estimate(ctx context.Context, weightKg float64, from, to string) services.FeeEstimate {
	args := m.Called(ctx, weightKg, from, to)
	return args.Get(0).(services.FeeEstimate)
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
