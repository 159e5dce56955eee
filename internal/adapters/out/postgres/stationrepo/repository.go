package stationrepo

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"parcelbridge/internal/core/domain/model/station"
	"parcelbridge/internal/pkg/errs"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// SearchLimit caps how many candidates a search hands to the matcher.
	SearchLimit = 200

	upsertBatchSize = 500

	cacheTTL             = 12 * time.Hour
	cacheCleanupInterval = 24 * time.Hour
)

// NewCache builds the cache shared by every repository created from one
// connection. Imports flush it.
func NewCache() *cache.Cache {
	return cache.New(cacheTTL, cacheCleanupInterval)
}

// GormStationRepository implements ports.StationRepository, ports.StationSearcher
// and ports.DistanceLookup.
type GormStationRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewGormStationRepository creates the repository. A nil cache disables caching.
func NewGormStationRepository(db *gorm.DB, c *cache.Cache) *GormStationRepository {
	return &GormStationRepository{db: db, cache: c}
}

func (r *GormStationRepository) UpsertStations(ctx context.Context, stations []station.Station) error {
	if len(stations) == 0 {
		return nil
	}

	dtos := make([]StationDTO, 0, len(stations))
	for _, s := range stations {
		if err := s.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(s))
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "lat", "lng", "state", "zone"}),
		}).
		CreateInBatches(&dtos, upsertBatchSize).Error
	if err != nil {
		return err
	}

	r.flush()
	return nil
}

func (r *GormStationRepository) UpsertDistances(ctx context.Context, distances []station.Distance) error {
	if len(distances) == 0 {
		return nil
	}

	dtos := make([]DistanceDTO, 0, len(distances))
	for _, d := range distances {
		if err := d.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, distanceFromDomain(d))
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_code"}, {Name: "to_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"km"}),
		}).
		CreateInBatches(&dtos, upsertBatchSize).Error
	if err != nil {
		return err
	}

	r.flush()
	return nil
}

func (r *GormStationRepository) GetByCode(ctx context.Context, code string) (station.Station, error) {
	code = station.NormalizeCode(code)
	if code == "" {
		return station.Station{}, errs.NewValueIsRequiredError("code")
	}

	var dto StationDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return station.Station{}, errs.NewObjectNotFoundError("station", code)
		}
		return station.Station{}, err
	}

	return toDomain(dto)
}

// Search returns stations whose code or name contains the term's letters in
// order. It is deliberately loose; the matcher scores and filters. Rows are
// ordered by the same tiers the matcher uses, so an exact or prefix hit is
// never cut off by SearchLimit.
func (r *GormStationRepository) Search(ctx context.Context, term string) ([]station.Station, error) {
	pattern := subsequencePattern(term)
	if pattern == "" {
		return []station.Station{}, nil
	}
	norm := strings.Join(strings.Fields(strings.ToUpper(term)), " ")

	key := "search:" + norm
	if cached, ok := r.cacheGet(key); ok {
		return cached.([]station.Station), nil
	}

	literal := escapeLike(norm)
	var dtos []StationDTO
	err := r.db.WithContext(ctx).
		Where("UPPER(code) LIKE ? OR UPPER(name) LIKE ?", pattern, pattern).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL: `CASE
				WHEN UPPER(code) = ? THEN 0
				WHEN UPPER(name) = ? THEN 1
				WHEN UPPER(name) LIKE ? THEN 2
				WHEN UPPER(code) LIKE ? THEN 3
				WHEN UPPER(name) LIKE ? THEN 4
				ELSE 5 END, LENGTH(name), code`,
			Vars: []any{norm, norm, literal + "%", literal + "%", "%" + literal + "%"},
		}}).
		Limit(SearchLimit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	stations := make([]station.Station, 0, len(dtos))
	for _, dto := range dtos {
		s, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		stations = append(stations, s)
	}

	r.cacheSet(key, stations)
	return stations, nil
}

// DistanceKm resolves each side by code, then by exact name, and reads the pair
// in either direction.
func (r *GormStationRepository) DistanceKm(ctx context.Context, from, to string) (float64, bool, error) {
	key := "distance:" + strings.ToUpper(strings.TrimSpace(from)) + ":" + strings.ToUpper(strings.TrimSpace(to))
	if cached, ok := r.cacheGet(key); ok {
		km := cached.(float64)
		return km, km >= 0, nil
	}

	fromCode, err := r.resolveCode(ctx, from)
	if err != nil {
		return 0, false, err
	}
	toCode, err := r.resolveCode(ctx, to)
	if err != nil {
		return 0, false, err
	}
	if fromCode == "" || toCode == "" {
		r.cacheSet(key, float64(-1))
		return 0, false, nil
	}
	if fromCode == toCode {
		r.cacheSet(key, float64(0))
		return 0, true, nil
	}

	var dto DistanceDTO
	err = r.db.WithContext(ctx).
		Where("(from_code = ? AND to_code = ?) OR (from_code = ? AND to_code = ?)", fromCode, toCode, toCode, fromCode).
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.cacheSet(key, float64(-1))
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	r.cacheSet(key, dto.Km)
	return dto.Km, true, nil
}

func (r *GormStationRepository) resolveCode(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	var codes []string
	err := r.db.WithContext(ctx).
		Model(&StationDTO{}).
		Where("code = ? OR LOWER(name) = LOWER(?)", station.NormalizeCode(ref), ref).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN code = ? THEN 0 ELSE 1 END, code",
			Vars: []any{station.NormalizeCode(ref)},
		}}).
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil {
		return "", err
	}
	if len(codes) == 0 {
		return "", nil
	}
	return codes[0], nil
}

func (r *GormStationRepository) cacheGet(key string) (any, bool) {
	if r.cache == nil {
		return nil, false
	}
	return r.cache.Get(key)
}

func (r *GormStationRepository) cacheSet(key string, value any) {
	if r.cache != nil {
		r.cache.Set(key, value, cache.DefaultExpiration)
	}
}

func (r *GormStationRepository) flush() {
	if r.cache != nil {
		r.cache.Flush()
	}
}

// escapeLike quotes LIKE metacharacters with the default backslash escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

// subsequencePattern turns "pune" into "%P%U%N%E%". LIKE metacharacters and
// punctuation are dropped.
func subsequencePattern(term string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(term) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteByte('%')
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	b.WriteByte('%')
	return b.String()
}
