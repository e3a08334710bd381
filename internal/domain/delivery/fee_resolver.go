package delivery

import (
	"sort"

	"github.com/comanda/backend/internal/domain/shared"
	"github.com/comanda/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ErrNotCovered is returned when no configured tier reaches the
// delivery distance.
var ErrNotCovered = shared.NewDomainError("NOT_COVERED", "No delivery tier covers this distance")

// Quote is the outcome of resolving a delivery fee
type Quote struct {
	Fee          valueobject.Money
	MinimumOrder valueobject.Money
}

// ResolveFee picks the quote for a delivery distance from the tenant's
// tiers. Tiers are scanned in ascending max-distance order and the
// first one that covers the distance wins; tiers with the same radius
// are ordered by fee so the cheaper one is chosen.
func ResolveFee(tiers []FeeTier, distanceKm decimal.Decimal) (Quote, error) {
	if distanceKm.IsNegative() {
		return Quote{}, shared.NewDomainError("INVALID_DISTANCE", "Distance cannot be negative")
	}
	if len(tiers) == 0 {
		return Quote{}, ErrNotCovered
	}

	sorted := make([]FeeTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].MaxDistanceKm.Equal(sorted[j].MaxDistanceKm) {
			return sorted[i].MaxDistanceKm.LessThan(sorted[j].MaxDistanceKm)
		}
		return sorted[i].Fee.LessThan(sorted[j].Fee)
	})

	for i := range sorted {
		if sorted[i].Covers(distanceKm) {
			return Quote{
				Fee:          sorted[i].FeeMoney(),
				MinimumOrder: sorted[i].MinimumOrderMoney(),
			}, nil
		}
	}

	return Quote{}, ErrNotCovered
}
