package analysis

import (
	"context"
	"time"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// MetricStore executes reporting SQL.
type MetricStore interface {
	Count(ctx context.Context, query string, args []any) (int64, error)
	Decimal(ctx context.Context, query string, args []any) (decimal.Decimal, error)
	Points(ctx context.Context, query string, args []any) ([]models.SeriesPoint, error)
	Complaints(ctx context.Context, query string, args []any) ([]models.ComplaintView, error)
}

// Aggregator computes dashboards and reports.
type Aggregator struct {
	Store MetricStore
	Now   func() time.Time
}

func NewAggregator(store MetricStore) *Aggregator {
	return &Aggregator{Store: store, Now: time.Now}
}

const fromComplaints = "SELECT COUNT(*) FROM complaints c "

// Dashboard runs every metric concurrently against the same filter clause and
// fails as a whole if any of them fails.
func (a *Aggregator) Dashboard(ctx context.Context, f Filter) (*models.Dashboard, error) {
	clause, err := BuildFilteredQuery(f)
	if err != nil {
		return nil, err
	}
	args := clause.Args
	windowStart := WindowStart(a.Now(), config.DashboardWindowDays)

	var (
		d       models.Dashboard
		avg     decimal.Decimal
		byDate  []models.SeriesPoint
		g, gctx = errgroup.WithContext(ctx)
	)

	count := func(dst *int64, query string) {
		g.Go(func() error {
			n, err := a.Store.Count(gctx, query, args)
			*dst = n
			return err
		})
	}
	count(&d.Counts.Total, fromComplaints+clause.String())
	count(&d.Counts.Open, fromComplaints+clause.And("COALESCE(c.status, '') <> 'Resolved'"))
	count(&d.Counts.InProgress, fromComplaints+clause.And("c.status = 'In-Progress'"))
	count(&d.Counts.Unseen, fromComplaints+clause.And("c.seen = false"))
	count(&d.Counts.ResolvedThisMonth, fromComplaints+clause.And(
		"c.status = 'Resolved'",
		"DATE_TRUNC('month', c.resolution_date) = DATE_TRUNC('month', CURRENT_DATE)",
	))

	g.Go(func() error {
		var err error
		avg, err = a.Store.Decimal(gctx,
			"SELECT COALESCE(ROUND(AVG(EXTRACT(EPOCH FROM (c.resolution_date - c.date)) / 86400)::numeric, 1), 0) FROM complaints c "+
				clause.And("c.status = 'Resolved'", "c.resolution_date IS NOT NULL"),
			args)
		return err
	})
	g.Go(func() error {
		var err error
		d.Series.ByStatus, err = a.Store.Points(gctx,
			"SELECT COALESCE(c.status, 'Unspecified') AS key, COUNT(*) AS value FROM complaints c "+
				clause.String()+" GROUP BY 1 ORDER BY value DESC, key",
			args)
		return err
	})
	g.Go(func() error {
		var err error
		d.Series.ByType, err = a.Store.Points(gctx,
			"SELECT COALESCE(ct.type_name, 'Deleted Type') AS key, COUNT(*) AS value FROM complaints c "+
				"LEFT JOIN complaint_types ct ON ct.id = c.complaint_type_id "+
				clause.String()+" GROUP BY 1 ORDER BY value DESC, key",
			args)
		return err
	})
	g.Go(func() error {
		// the window start is bound after the shared filter arguments
		windowArgs := append(append([]any{}, args...), windowStart)
		var err error
		byDate, err = a.Store.Points(gctx,
			"SELECT TO_CHAR(DATE_TRUNC('day', c.date), 'YYYY-MM-DD') AS key, COUNT(*) AS value FROM complaints c "+
				clause.And("c.date >= "+clause.Next(1))+" GROUP BY 1 ORDER BY 1",
			windowArgs)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.AvgResolutionDays = avg.Round(1).InexactFloat64()
	d.Series.ByDate = FillDailySeries(byDate, windowStart, config.DashboardWindowDays)
	return &d, nil
}

// Report lists the joined complaints matching f, newest first.
func (a *Aggregator) Report(ctx context.Context, f Filter) ([]models.ComplaintView, error) {
	clause, err := BuildFilteredQuery(f)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + storage.ReportColumns + " FROM complaints c " +
		"LEFT JOIN areas a ON a.id = c.area_id " +
		"LEFT JOIN complaint_types ct ON ct.id = c.complaint_type_id " +
		clause.String() + " ORDER BY c.date DESC, c.id DESC"
	return a.Store.Complaints(ctx, query, clause.Args)
}

// WindowStart is midnight UTC of the first day of a trailing window of days
// ending today.
func WindowStart(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

// FillDailySeries returns exactly days points starting at start, ascending,
// taking counts from points and zero for days without a point.
func FillDailySeries(points []models.SeriesPoint, start time.Time, days int) []models.SeriesPoint {
	byDay := make(map[string]int64, len(points))
	for _, p := range points {
		byDay[p.Key] += p.Value
	}
	out := make([]models.SeriesPoint, days)
	for i := range out {
		key := start.AddDate(0, 0, i).Format(config.DateLayout)
		out[i] = models.SeriesPoint{Key: key, Value: byDay[key]}
	}
	return out
}
