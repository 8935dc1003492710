package export_test

import (
	"bytes"
	"testing"
	"time"

	"complaintdesk/backend/internal/export"
	"complaintdesk/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestComplaintsXLSX(t *testing.T) {
	action := "Plumber dispatched"
	resolved := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	views := []models.ComplaintView{
		{
			Complaint: models.Complaint{
				ID: 1, Building: "Building 1", Floor: "Ground Floor", Details: "Leaking pipe",
				Status: models.StatusResolved, Date: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
				Action: &action, ResolutionDate: &resolved, Seen: true,
			},
			AreaName: "Washroom", ComplaintTypeName: "Plumbing",
		},
		{
			Complaint: models.Complaint{
				ID: 2, Building: "Building 2", Floor: "1st Floor", Details: "Broken chair",
				Status: models.StatusInProgress, Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			},
			AreaName: "Deleted Area", ComplaintTypeName: "Furniture",
		},
	}

	data, err := export.ComplaintsXLSX(views)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Complaints")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Complaint Type", rows[0][5])
	assert.Equal(t, []string{"1", "2024-04-30", "Building 1", "Ground Floor", "Washroom", "Plumbing", "Leaking pipe", "Resolved", "Yes", "Plumber dispatched", "2024-05-01"}, rows[1])
	assert.Equal(t, "No", rows[2][8])
	assert.Equal(t, "Deleted Area", rows[2][4])
}

func TestComplaintsXLSX_Empty(t *testing.T) {
	data, err := export.ComplaintsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Complaints")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, []string{"Complaints"}, f.GetSheetList())
}
