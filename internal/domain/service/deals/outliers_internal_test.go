package deals

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
)

func TestQuantile(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{name: "Single value", sorted: []float64{42}, p: 0.25, want: 42},
		{name: "Exact order statistic", sorted: []float64{10, 20, 30, 40, 50}, p: 0.25, want: 20},
		{name: "Median odd", sorted: []float64{10, 20, 30}, p: 0.5, want: 20},
		{name: "Median even interpolates", sorted: []float64{10, 20, 30, 40}, p: 0.5, want: 25},
		{name: "Q1 interpolates", sorted: []float64{98, 100, 102, 105, 110, 100000}, p: 0.25, want: 100.5},
		{name: "Q3 interpolates", sorted: []float64{98, 100, 102, 105, 110, 100000}, p: 0.75, want: 108.75},
		{name: "Minimum", sorted: []float64{10, 20, 30}, p: 0, want: 10},
		{name: "Maximum", sorted: []float64{10, 20, 30}, p: 1, want: 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq.InDelta(tc.want, quantile(tc.sorted, tc.p), 1e-9)
		})
	}
}

func TestFilterOutliers(t *testing.T) {
	rq := require.New(t)

	pipeline := NewPipeline(Thresholds{MinRealmCount: 5})

	t.Run("rejects a set below the realm count", func(t *testing.T) {
		set := realmSet(100, 105, 110, 98)

		rq.Nil(pipeline.filterOutliers(set))
	})

	t.Run("quartile pass cuts the extreme high outlier", func(t *testing.T) {
		// Six realms, one absurd listing: the quartile pass must cut
		// exactly the 100000 and keep the plausible cluster.
		set := realmSet(100, 105, 110, 98, 102, 100000)

		filtered := pipeline.filterOutliers(set)

		rq.Len(filtered, 5)
		for _, rp := range filtered {
			rq.LessOrEqual(rp.Price, int64(110))
		}
	})

	t.Run("no lower bound rejection", func(t *testing.T) {
		// 100 sits below Q1 (200) but cheap prices are the signal being
		// hunted: the quartile pass only cuts from above, and the
		// spread here keeps the 5*MAD band wide enough for pass 2.
		set := realmSet(100, 200, 300, 400, 500)

		filtered := pipeline.filterOutliers(set)

		rq.Len(filtered, 5)
	})

	t.Run("identical prices survive both passes in full", func(t *testing.T) {
		// IQR = 0 keeps everything in pass 1; MAD = 0 is substituted
		// with 1 so exact-median matches (everything) survive pass 2.
		set := realmSet(500, 500, 500, 500, 500, 500)

		filtered := pipeline.filterOutliers(set)

		rq.Len(filtered, 6)
	})

	t.Run("insufficient survivors reject the item", func(t *testing.T) {
		// Five realms pre-filter, four after: below the minimum even
		// though a cheap/expensive pair existed before filtering.
		set := realmSet(1000000, 1020000, 980000, 3000000, 995000)

		rq.Nil(pipeline.filterOutliers(set))
	})

	t.Run("MAD pass tightens what the quartile pass admits", func(t *testing.T) {
		// A cluster of inflated prices drags Q3 up to 500, so the
		// quartile bound admits everything; the MAD band, anchored to
		// the median of 100 with a zero MAD substituted by 1, does not.
		set := realmSet(100, 100, 100, 100, 100, 500, 500, 500)

		filtered := pipeline.filterOutliers(set)

		rq.Len(filtered, 5)
		for _, rp := range filtered {
			rq.Equal(int64(100), rp.Price)
		}
	})

	t.Run("input set is never mutated", func(t *testing.T) {
		set := realmSet(100, 105, 110, 98, 102, 100000)
		original := append([]entity.RealmPrice(nil), set...)

		pipeline.filterOutliers(set)

		rq.Equal(original, set)
	})
}

func realmSet(prices ...int64) []entity.RealmPrice {
	set := make([]entity.RealmPrice, len(prices))
	for i, p := range prices {
		set[i] = entity.RealmPrice{RealmID: int64(i + 1), Price: p}
	}
	return set
}
