package storage

import (
	"context"
	"database/sql"
	"fmt"

	"complaintdesk/backend/internal/models"

	"github.com/shopspring/decimal"
)

// ReportRepository runs the hand-written reporting SQL that uses positional
// placeholders. It works on the pool behind gorm.
type ReportRepository struct {
	DB *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

// Count runs a single-row COUNT query.
func (r *ReportRepository) Count(ctx context.Context, query string, args []any) (int64, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}
	return n, nil
}

// Decimal runs a single-row query returning one numeric column.
func (r *ReportRepository) Decimal(ctx context.Context, query string, args []any) (decimal.Decimal, error) {
	var d decimal.NullDecimal
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&d); err != nil {
		return decimal.Zero, fmt.Errorf("numeric query: %w", err)
	}
	if !d.Valid {
		return decimal.Zero, nil
	}
	return d.Decimal, nil
}

// Points runs a grouped query returning (key, value) rows.
func (r *ReportRepository) Points(ctx context.Context, query string, args []any) ([]models.SeriesPoint, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("series query: %w", err)
	}
	defer rows.Close()

	points := make([]models.SeriesPoint, 0)
	for rows.Next() {
		var p models.SeriesPoint
		if err := rows.Scan(&p.Key, &p.Value); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Complaints runs a joined listing query. The select list must match
// ReportColumns.
func (r *ReportRepository) Complaints(ctx context.Context, query string, args []any) ([]models.ComplaintView, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report query: %w", err)
	}
	defer rows.Close()

	views := make([]models.ComplaintView, 0)
	for rows.Next() {
		var (
			v         models.ComplaintView
			areaID    sql.NullInt64
			typeID    sql.NullInt64
			action    sql.NullString
			resolved  sql.NullTime
			seenDate  sql.NullTime
			queue     sql.NullString
			statusRaw string
		)
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.Building, &v.Floor, &areaID, &typeID, &v.Details,
			&statusRaw, &v.Date, &action, &resolved, &v.Seen, &seenDate,
			&v.AreaName, &v.ComplaintTypeName, &queue,
		); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		v.Status = models.Status(statusRaw)
		if areaID.Valid {
			id := uint(areaID.Int64)
			v.AreaID = &id
		}
		if typeID.Valid {
			id := uint(typeID.Int64)
			v.ComplaintTypeID = &id
		}
		if action.Valid {
			v.Action = &action.String
		}
		if resolved.Valid {
			v.ResolutionDate = &resolved.Time
		}
		if seenDate.Valid {
			v.SeenDate = &seenDate.Time
		}
		if queue.Valid {
			v.Queue = &queue.String
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// ReportColumns is the select list Complaints expects, over complaints c,
// areas a and complaint_types ct.
const ReportColumns = `c.id, c.user_id, c.building, c.floor, c.area_id, c.complaint_type_id, c.details,
	c.status, c.date, c.action, c.resolution_date, c.seen, c.seen_date,
	CASE WHEN c.status = 'No Complaint' THEN 'No Complaint' ELSE COALESCE(a.area_name, 'Deleted Area') END AS area_name,
	CASE WHEN c.status = 'No Complaint' THEN 'No Complaint' ELSE COALESCE(ct.type_name, 'Deleted Type') END AS complaint_type_name,
	ct.queue`
