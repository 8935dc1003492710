// Package analysis computes the dashboard and report views. Every metric is
// built from one shared WHERE clause so all numbers describe the same rows.
package analysis

import (
	"strconv"
	"strings"
	"time"

	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
)

// Filter holds the optional dashboard filters as received on the query string.
type Filter struct {
	Building        string `form:"building"`
	Floor           string `form:"floor"`
	AreaID          string `form:"area_id"`
	ComplaintTypeID string `form:"complaint_type_id"`
	Status          string `form:"status"`
	FromDate        string `form:"from_date"`
	ToDate          string `form:"to_date"`
}

// Clause is a WHERE clause over complaints aliased c, with positional
// ($1, $2, ...) placeholders bound to Args in order.
type Clause struct {
	Conditions []string
	Args       []any
}

// String renders the clause, or "" when nothing is filtered.
func (c Clause) String() string {
	if len(c.Conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.Conditions, " AND ")
}

// And renders the clause with extra literal conditions appended. The extra
// conditions must not carry user input.
func (c Clause) And(extra ...string) string {
	all := append(append([]string{}, c.Conditions...), extra...)
	if len(all) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(all, " AND ")
}

// Next returns the placeholder for a parameter appended after Args.
func (c Clause) Next(offset int) string {
	return "$" + strconv.Itoa(len(c.Args)+offset)
}

func (c *Clause) add(column string, value any) {
	c.Args = append(c.Args, value)
	c.Conditions = append(c.Conditions, column+" $"+strconv.Itoa(len(c.Args)))
}

// BuildFilteredQuery turns f into a parameterized clause. Empty fields are
// ignored; malformed ids, dates or statuses are validation errors. ToDate is
// inclusive through the end of that day.
func BuildFilteredQuery(f Filter) (Clause, error) {
	var c Clause

	if v := strings.TrimSpace(f.Building); v != "" {
		c.add("c.building =", v)
	}
	if v := strings.TrimSpace(f.Floor); v != "" {
		c.add("c.floor =", v)
	}
	if v := strings.TrimSpace(f.AreaID); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Clause{}, apperr.Validation("area_id must be a number")
		}
		c.add("c.area_id =", id)
	}
	if v := strings.TrimSpace(f.ComplaintTypeID); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Clause{}, apperr.Validation("complaint_type_id must be a number")
		}
		c.add("c.complaint_type_id =", id)
	}
	if v := strings.TrimSpace(f.Status); v != "" {
		if !models.Status(v).Valid() {
			return Clause{}, apperr.Validation("unknown status " + strconv.Quote(v))
		}
		c.add("c.status =", v)
	}
	if v := strings.TrimSpace(f.FromDate); v != "" {
		from, err := time.Parse(config.DateLayout, v)
		if err != nil {
			return Clause{}, apperr.Validation("from_date must be YYYY-MM-DD")
		}
		c.add("c.date >=", from)
	}
	if v := strings.TrimSpace(f.ToDate); v != "" {
		to, err := time.Parse(config.DateLayout, v)
		if err != nil {
			return Clause{}, apperr.Validation("to_date must be YYYY-MM-DD")
		}
		c.add("c.date <=", to.Add(24*time.Hour-time.Second))
	}
	return c, nil
}
