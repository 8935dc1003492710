package analysis_test

import (
	"testing"
	"time"

	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilteredQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    analysis.Filter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filters",
			filter:    analysis.Filter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "building and floor",
			filter:    analysis.Filter{Building: "Building 1", Floor: "Ground Floor"},
			wantWhere: "WHERE c.building = $1 AND c.floor = $2",
			wantArgs:  []any{"Building 1", "Ground Floor"},
		},
		{
			name: "all filters keep positional order",
			filter: analysis.Filter{
				Building: "Building 2", Floor: "1st Floor", AreaID: "3", ComplaintTypeID: "2",
				Status: "Resolved", FromDate: "2024-01-01", ToDate: "2024-01-31",
			},
			wantWhere: "WHERE c.building = $1 AND c.floor = $2 AND c.area_id = $3 AND c.complaint_type_id = $4" +
				" AND c.status = $5 AND c.date >= $6 AND c.date <= $7",
			wantArgs: []any{
				"Building 2", "1st Floor", uint64(3), uint64(2), "Resolved",
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
			},
		},
		{
			name:      "blank values ignored",
			filter:    analysis.Filter{Building: "  ", Status: "In-Progress"},
			wantWhere: "WHERE c.status = $1",
			wantArgs:  []any{"In-Progress"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, err := analysis.BuildFilteredQuery(tt.filter)

			require.NoError(t, err)
			assert.Equal(t, tt.wantWhere, clause.String())
			assert.Equal(t, tt.wantArgs, clause.Args)
		})
	}
}

func TestBuildFilteredQuery_UserInputNeverInSQL(t *testing.T) {
	hostile := "x'; DROP TABLE complaints; --"

	clause, err := analysis.BuildFilteredQuery(analysis.Filter{Building: hostile})

	require.NoError(t, err)
	assert.NotContains(t, clause.String(), "DROP")
	assert.Equal(t, []any{hostile}, clause.Args)
}

func TestBuildFilteredQuery_Invalid(t *testing.T) {
	for name, f := range map[string]analysis.Filter{
		"area id":   {AreaID: "three"},
		"type id":   {ComplaintTypeID: "-1"},
		"status":    {Status: "Pending"},
		"from date": {FromDate: "01/02/2024"},
		"to date":   {ToDate: "2024-13-01"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := analysis.BuildFilteredQuery(f)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestClause_And(t *testing.T) {
	empty := analysis.Clause{}
	assert.Equal(t, "WHERE c.seen = false", empty.And("c.seen = false"))

	clause, err := analysis.BuildFilteredQuery(analysis.Filter{Building: "Building 1"})
	require.NoError(t, err)
	assert.Equal(t, "WHERE c.building = $1 AND c.seen = false", clause.And("c.seen = false"))
	assert.Equal(t, "$2", clause.Next(1))
	assert.Len(t, clause.Conditions, 1, "And does not modify the clause")
}
