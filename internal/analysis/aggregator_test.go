package analysis_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countRule struct {
	fragment string
	n        int64
}

// fakeStore answers by matching a fragment of the query text.
type fakeStore struct {
	mu      sync.Mutex
	counts  []countRule
	points  map[string][]models.SeriesPoint
	avg     decimal.Decimal
	failOn  string
	queries []string
	args    [][]any
}

func (f *fakeStore) record(query string, args []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	if f.failOn != "" && strings.Contains(query, f.failOn) {
		return errors.New("query failed")
	}
	return nil
}

func (f *fakeStore) Count(_ context.Context, query string, args []any) (int64, error) {
	if err := f.record(query, args); err != nil {
		return 0, err
	}
	for _, rule := range f.counts {
		if strings.Contains(query, rule.fragment) {
			return rule.n, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) Decimal(_ context.Context, query string, args []any) (decimal.Decimal, error) {
	return f.avg, f.record(query, args)
}

func (f *fakeStore) Points(_ context.Context, query string, args []any) ([]models.SeriesPoint, error) {
	if err := f.record(query, args); err != nil {
		return nil, err
	}
	for fragment, p := range f.points {
		if strings.Contains(query, fragment) {
			return p, nil
		}
	}
	return []models.SeriesPoint{}, nil
}

func (f *fakeStore) Complaints(_ context.Context, query string, args []any) ([]models.ComplaintView, error) {
	return []models.ComplaintView{}, f.record(query, args)
}

var today = time.Date(2024, 5, 30, 15, 0, 0, 0, time.UTC)

func newAggregator(store analysis.MetricStore) *analysis.Aggregator {
	agg := analysis.NewAggregator(store)
	agg.Now = func() time.Time { return today }
	return agg
}

func TestDashboard(t *testing.T) {
	store := &fakeStore{
		counts: []countRule{
			{"<> 'Resolved'", 3},
			{"'In-Progress'", 2},
			{"seen = false", 1},
			{"DATE_TRUNC", 4},
			{"FROM complaints", 9},
		},
		points: map[string][]models.SeriesPoint{
			"'Unspecified'":  {{Key: "Resolved", Value: 6}, {Key: "In-Progress", Value: 3}},
			"'Deleted Type'": {{Key: "Plumbing", Value: 9}},
			"TO_CHAR":        {{Key: "2024-05-01", Value: 2}, {Key: "2024-05-30", Value: 1}},
		},
		avg: decimal.RequireFromString("2.46"),
	}

	d, err := newAggregator(store).Dashboard(context.Background(), analysis.Filter{Building: "Building 1"})

	require.NoError(t, err)
	assert.Equal(t, models.DashboardCounts{Total: 9, Open: 3, InProgress: 2, Unseen: 1, ResolvedThisMonth: 4}, d.Counts)
	assert.Equal(t, 2.5, d.AvgResolutionDays)
	assert.Len(t, d.Series.ByStatus, 2)
	assert.Equal(t, "Plumbing", d.Series.ByType[0].Key)

	require.Len(t, d.Series.ByDate, 30)
	assert.Equal(t, "2024-05-01", d.Series.ByDate[0].Key)
	assert.Equal(t, int64(2), d.Series.ByDate[0].Value)
	assert.Equal(t, "2024-05-30", d.Series.ByDate[29].Key)
	assert.Equal(t, int64(1), d.Series.ByDate[29].Value)
	assert.Equal(t, int64(0), d.Series.ByDate[15].Value)

	require.Len(t, store.queries, 9)
	for i, q := range store.queries {
		assert.Contains(t, q, "c.building = $1")
		assert.Equal(t, "Building 1", store.args[i][0], "every metric binds the shared filter first")
	}
}

func TestDashboard_AnyFailureFailsAll(t *testing.T) {
	store := &fakeStore{failOn: "'Deleted Type'"}

	_, err := newAggregator(store).Dashboard(context.Background(), analysis.Filter{})

	assert.Error(t, err)
}

func TestDashboard_InvalidFilter(t *testing.T) {
	store := &fakeStore{}

	_, err := newAggregator(store).Dashboard(context.Background(), analysis.Filter{FromDate: "yesterday"})

	require.Error(t, err)
	assert.Empty(t, store.queries)
}

func TestDashboard_OverSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	countRows := func(n int) *sqlmock.Rows { return sqlmock.NewRows([]string{"count"}).AddRow(n) }

	for _, n := range []int{5, 0, 0, 2, 1} {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM complaints c WHERE c.status = \$1 AND c.date >= \$2 AND c.date <= \$3`).
			WithArgs("Resolved", from, to).
			WillReturnRows(countRows(n))
	}
	mock.ExpectQuery(`SELECT COALESCE\(ROUND\(AVG`).
		WithArgs("Resolved", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"days"}).AddRow("1.5"))
	mock.ExpectQuery(`'Unspecified'`).
		WithArgs("Resolved", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("Resolved", 5))
	mock.ExpectQuery(`'Deleted Type'`).
		WithArgs("Resolved", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("Plumbing", 5))
	mock.ExpectQuery(`TO_CHAR`).
		WithArgs("Resolved", from, to, analysis.WindowStart(today, 30)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	d, err := newAggregator(storage.NewReportRepository(db)).Dashboard(context.Background(), analysis.Filter{
		Status: "Resolved", FromDate: "2024-01-01", ToDate: "2024-01-31",
	})

	require.NoError(t, err)
	assert.Equal(t, 1.5, d.AvgResolutionDays)
	assert.Len(t, d.Series.ByDate, 30)
	assert.Equal(t, []models.SeriesPoint{{Key: "Resolved", Value: 5}}, d.Series.ByStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReport(t *testing.T) {
	store := &fakeStore{}

	_, err := newAggregator(store).Report(context.Background(), analysis.Filter{Floor: "Ground Floor"})

	require.NoError(t, err)
	require.Len(t, store.queries, 1)
	assert.Contains(t, store.queries[0], "LEFT JOIN areas a")
	assert.Contains(t, store.queries[0], "WHERE c.floor = $1 ORDER BY c.date DESC")
}

func TestFillDailySeries(t *testing.T) {
	start := analysis.WindowStart(time.Date(2024, 3, 2, 23, 0, 0, 0, time.UTC), 30)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), start)

	series := analysis.FillDailySeries([]models.SeriesPoint{
		{Key: "2024-02-29", Value: 4},
		{Key: "2023-12-31", Value: 7},
	}, start, 30)

	require.Len(t, series, 30)
	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i-1].Key, series[i].Key)
	}
	assert.Equal(t, "2024-03-02", series[29].Key)
	var total int64
	for _, p := range series {
		total += p.Value
	}
	assert.Equal(t, int64(4), total, "points outside the window are dropped")
}
