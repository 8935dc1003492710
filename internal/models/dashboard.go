package models

// SeriesPoint is one bucket of a dashboard breakdown.
type SeriesPoint struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

type DashboardCounts struct {
	Total             int64 `json:"total"`
	Open              int64 `json:"open"`
	InProgress        int64 `json:"inProgress"`
	Unseen            int64 `json:"unseen"`
	ResolvedThisMonth int64 `json:"resolvedThisMonth"`
}

type DashboardSeries struct {
	ByStatus []SeriesPoint `json:"byStatus"`
	ByType   []SeriesPoint `json:"byType"`
	ByDate   []SeriesPoint `json:"byDate"`
}

// Dashboard is the aggregated view computed for one filter set.
type Dashboard struct {
	Counts            DashboardCounts `json:"counts"`
	AvgResolutionDays float64         `json:"avgResolutionDays"`
	Series            DashboardSeries `json:"series"`
}
