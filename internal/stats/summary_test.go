package stats

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/glycemia-go/internal/bloodsugar"
	"github.com/jwulff/glycemia-go/internal/domain"
)

func readingsOf(values ...int) []domain.GlucoseReading {
	out := make([]domain.GlucoseReading, len(values))
	for i, v := range values {
		out[i] = domain.GlucoseReading{ID: int64(i + 1), Value: v, Date: "2026-04-01", Time: "08:00"}
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	assert.Equal(t, Summary{}, s)
	assert.True(t, s.Empty())

	assert.Equal(t, Summary{}, Compute([]domain.GlucoseReading{}))
}

func TestComputeScenario(t *testing.T) {
	s := Compute(readingsOf(65, 90, 200, 300))

	assert.Equal(t, 4, s.Total)
	assert.InDelta(t, 163.75, s.Mean, 1e-9)
	assert.Equal(t, 163.8, s.RoundedMean())
	assert.Equal(t, 65, s.Min)
	assert.Equal(t, 300, s.Max)
	assert.Equal(t, 1, s.Low)
	assert.Equal(t, 1, s.Normal)
	assert.Equal(t, 2, s.High)
	assert.Equal(t, 25.0, s.LowPercent)
	assert.Equal(t, 25.0, s.NormalPercent)
	assert.Equal(t, 50.0, s.HighPercent)
	assert.Equal(t, bloodsugar.ControlNeedsImprovement, s.Control())
}

func TestComputeBoundaries(t *testing.T) {
	s := Compute(readingsOf(69, 70, 180, 181))

	assert.Equal(t, 1, s.Low)
	assert.Equal(t, 2, s.Normal)
	assert.Equal(t, 1, s.High)
}

func TestComputeAgreesWithClassify(t *testing.T) {
	for v := 20; v <= 600; v++ {
		s := Compute(readingsOf(v))
		switch bloodsugar.Classify(v) {
		case bloodsugar.BandLow:
			assert.Equal(t, 1, s.Low, "value %d", v)
		case bloodsugar.BandNormal:
			assert.Equal(t, 1, s.Normal, "value %d", v)
		case bloodsugar.BandHigh, bloodsugar.BandVeryHigh:
			assert.Equal(t, 1, s.High, "value %d", v)
		}
	}
}

func TestComputeMeanIsNotRounded(t *testing.T) {
	s := Compute(readingsOf(100, 101, 101))
	assert.InDelta(t, 100.6666666, s.Mean, 1e-6)
	assert.Equal(t, 100.7, s.RoundedMean())
}

func TestPercentagesAreRoundedIndependently(t *testing.T) {
	// Three equal thirds round down to 99.9 in total.
	s := Compute(readingsOf(60, 100, 200))
	assert.Equal(t, 33.3, s.LowPercent)
	assert.Equal(t, 33.3, s.NormalPercent)
	assert.Equal(t, 33.3, s.HighPercent)
	assert.InDelta(t, 99.9, s.LowPercent+s.NormalPercent+s.HighPercent, 1e-9)

	// One sixth twice and four sixths round up to 100.1.
	s = Compute(readingsOf(60, 100, 110, 120, 130, 200))
	assert.Equal(t, 16.7, s.LowPercent)
	assert.Equal(t, 66.7, s.NormalPercent)
	assert.Equal(t, 16.7, s.HighPercent)
	assert.InDelta(t, 100.1, s.LowPercent+s.NormalPercent+s.HighPercent, 1e-9)
}

func TestComputePartitionLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := rng.Intn(40) + 1
		values := make([]int, n)
		for i := range values {
			values[i] = 20 + rng.Intn(581)
		}
		s := Compute(readingsOf(values...))
		require.Equal(t, s.Total, s.Low+s.Normal+s.High, "values %v", values)
	}
}

func TestComputeOrderInvariant(t *testing.T) {
	readings := readingsOf(65, 90, 200, 300, 140, 55, 251)
	want := Compute(readings)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.GlucoseReading(nil), readings...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if diff := cmp.Diff(want, Compute(shuffled)); diff != "" {
			t.Fatalf("summary changed under reordering (-want +got):\n%s", diff)
		}
	}
}

func TestFilterPeriod(t *testing.T) {
	readings := []domain.GlucoseReading{
		{ID: 1, Value: 100, Date: "2026-04-01"},
		{ID: 2, Value: 110, Date: "2026-04-02"},
		{ID: 3, Value: 120, Date: "2026-04-02"},
		{ID: 4, Value: 130, Date: "2026-04-03"},
	}

	got := FilterPeriod(readings, "2026-04-02", "2026-04-02")
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	got = FilterPeriod(readings, "2026-04-01", "2026-04-03")
	assert.Len(t, got, 4)

	got = FilterPeriod(readings, "2026-05-01", "2026-05-31")
	assert.Empty(t, got)
}

func TestFilterPeriodComparesStrings(t *testing.T) {
	// A reading dated at the boundary stays in regardless of its clock time.
	readings := []domain.GlucoseReading{
		{ID: 1, Date: "2026-04-30", Time: "23:59"},
		{ID: 2, Date: "2026-05-01", Time: "00:00"},
	}
	got := FilterPeriod(readings, "2026-04-01", "2026-04-30")
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFilterFoodsAndGoals(t *testing.T) {
	foods := []domain.FoodEntry{
		{ID: 1, Name: "rice", Date: "2026-04-01"},
		{ID: 2, Name: "apple", Date: "2026-04-10"},
	}
	assert.Len(t, FilterFoods(foods, "2026-04-05", "2026-04-30"), 1)

	created := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC).UnixMilli()
	goals := []domain.Goal{
		{ID: created, Description: "walk"},
		{ID: created + 10*24*60*60*1000, Description: "swim"},
	}
	got := FilterGoalsCreated(goals, "2026-04-01", "2026-04-05")
	require.Len(t, got, 1)
	assert.Equal(t, "walk", got[0].Description)
}

func TestLastDays(t *testing.T) {
	now := time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)
	readings := []domain.GlucoseReading{
		{ID: 1, Date: "2026-04-02"},
		{ID: 2, Date: "2026-04-03"},
		{ID: 3, Date: "2026-04-10"},
	}

	got := LastDays(readings, 7, now)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestIndexRecommendations(t *testing.T) {
	assert.Empty(t, IndexRecommendations(Summary{}))

	recs := IndexRecommendations(Compute(readingsOf(55, 90, 200, 300)))
	assert.Equal(t, []string{RecReduceHighs, RecWatchHypos, RecSeekAdvice, RecPrepareHypos}, recs)

	recs = IndexRecommendations(Compute(readingsOf(100, 110, 120, 130)))
	assert.Equal(t, []string{RecKeepGoing}, recs)
}

func TestReportRecommendations(t *testing.T) {
	assert.Empty(t, ReportRecommendations(Summary{}))

	recs := ReportRecommendations(Compute(readingsOf(100, 110, 120, 130)))
	assert.Equal(t, []string{RecKeepGoingDetail}, recs)

	// Good percentages but a mean of 150 earns no praise in the report.
	recs = ReportRecommendations(Compute(readingsOf(150, 150, 150, 150)))
	assert.Empty(t, recs)

	recs = ReportRecommendations(Compute(readingsOf(50, 260)))
	assert.Equal(t, []string{RecReduceHighs, RecWatchHypos, RecSeekAdviceDetail, RecPrepareDetail}, recs)
}
