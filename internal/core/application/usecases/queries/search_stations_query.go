package queries

import (
	"context"
	"errors"
	"strings"

	"parcelbridge/internal/core/domain/model/station"
	"parcelbridge/internal/core/domain/services"
	"parcelbridge/internal/pkg/errs"
	"parcelbridge/internal/pkg/guard"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

var ErrSearchStationsQueryIsNotConstructed = errors.New(
	"SearchStationsQuery must be created via NewSearchStationsQuery constructor",
)

// SearchStationsQuery backs station autocomplete.
type SearchStationsQuery struct {
	term  string
	limit int

	guard guard.ConstructorGuard
}

// NewSearchStationsQuery requires a non-blank term. A limit of zero means
// DefaultSearchLimit.
func NewSearchStationsQuery(term string, limit int) (SearchStationsQuery, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return SearchStationsQuery{}, errs.NewValueIsRequiredError("q")
	}
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	if limit < 1 || limit > MaxSearchLimit {
		return SearchStationsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxSearchLimit)
	}
	return SearchStationsQuery{term: term, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q SearchStationsQuery) Validate() error {
	return q.guard.Validate(ErrSearchStationsQueryIsNotConstructed)
}

type SearchStationsQueryResponse struct {
	Code  string
	Name  string
	State string
	Zone  string
	Score int
}

type stationSearcher interface {
	Search(ctx context.Context, term string) ([]station.Station, error)
}

type SearchStationsQueryHandler struct {
	searcher stationSearcher
	matcher  services.StationMatcher
}

func NewSearchStationsQueryHandler(searcher stationSearcher) SearchStationsQueryHandler {
	return SearchStationsQueryHandler{searcher: searcher, matcher: services.NewStationMatcher()}
}

// Handle returns matches best first. Weak fuzzy matches are included; the
// caller decides what to show.
func (h SearchStationsQueryHandler) Handle(ctx context.Context, query SearchStationsQuery) ([]SearchStationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	candidates, err := h.searcher.Search(ctx, query.term)
	if err != nil {
		return nil, err
	}

	ranked := h.matcher.Rank(query.term, candidates)
	if len(ranked) > query.limit {
		ranked = ranked[:query.limit]
	}

	result := make([]SearchStationsQueryResponse, 0, len(ranked))
	for _, r := range ranked {
		result = append(result, SearchStationsQueryResponse{
			Code:  r.Station.Code(),
			Name:  r.Station.Name(),
			State: r.Station.State(),
			Zone:  r.Station.Zone(),
			Score: r.Score,
		})
	}
	return result, nil
}
