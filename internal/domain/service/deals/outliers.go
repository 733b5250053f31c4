package deals

import (
	"math"
	"sort"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
)

const (
	iqrMultiplier = 1.5
	madMultiplier = 5.0
)

// filterOutliers removes realms whose price is an implausible outlier, in two
// passes. The quartile pass cuts everything above Q3 + 1.5*IQR; there is no
// lower bound because unusually cheap prices are the signal being hunted for.
// The MAD pass then keeps only prices within 5 MAD of the surviving median,
// which anchors rejection to the bulk of the distribution when an inflated
// cluster drags Q3 itself upward. Returns nil when fewer than MinRealmCount
// entries go in or come out.
func (p *Pipeline) filterOutliers(set []entity.RealmPrice) []entity.RealmPrice {
	if len(set) < p.thresholds.MinRealmCount {
		return nil
	}

	prices := make([]float64, len(set))
	for i, rp := range set {
		prices[i] = float64(rp.Price)
	}
	sort.Float64s(prices)

	q1 := quantile(prices, 0.25)
	q3 := quantile(prices, 0.75)
	upperBound := q3 + iqrMultiplier*(q3-q1)

	kept := make([]entity.RealmPrice, 0, len(set))
	for _, rp := range set {
		if float64(rp.Price) <= upperBound {
			kept = append(kept, rp)
		}
	}

	// Q3 bounds the data from above, so at least ~3/4 of the set survives;
	// still, guard the MAD pass against an empty input.
	if len(kept) == 0 {
		return nil
	}

	keptPrices := make([]float64, len(kept))
	for i, rp := range kept {
		keptPrices[i] = float64(rp.Price)
	}
	sort.Float64s(keptPrices)

	m := median(keptPrices)

	deviations := make([]float64, len(kept))
	for i, rp := range kept {
		deviations[i] = math.Abs(float64(rp.Price) - m)
	}
	sort.Float64s(deviations)

	mad := median(deviations)
	if mad == 0 {
		// Many realms tied at the same price collapse the MAD to zero;
		// substitute 1 copper to keep the band non-degenerate.
		mad = 1
	}

	madBound := madMultiplier * mad

	final := kept[:0]
	for _, rp := range kept {
		if math.Abs(float64(rp.Price)-m) <= madBound {
			final = append(final, rp)
		}
	}

	if len(final) < p.thresholds.MinRealmCount {
		return nil
	}

	return final
}

// quantile estimates the p-th quantile of sorted values with the standard
// linear-interpolation method: rank = (n-1)*p, interpolated between the two
// bracketing order statistics.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := float64(n-1) * p
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))

	if lower == upper {
		return sorted[lower]
	}

	frac := rank - float64(lower)

	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func median(sorted []float64) float64 {
	return quantile(sorted, 0.5)
}
