package storage

import (
	"context"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"

	"gorm.io/gorm"
)

// DefaultAreas and DefaultComplaintTypes are inserted by Seed.
var (
	DefaultAreas = []string{"Classroom", "Corridor", "Laboratory", "Staff Room", "Washroom"}

	DefaultComplaintTypes = []models.ComplaintType{
		{Name: "Cleaning", Queue: config.QueueFacilities},
		{Name: "Electrical", Queue: config.QueueFacilities},
		{Name: "Furniture", Queue: config.QueueFacilities},
		{Name: "Plumbing", Queue: config.QueueFacilities},
		{Name: "IT Issues", Queue: config.QueueIT},
	}
)

// Seed inserts the default reference data that is missing, matching by name,
// and reports how many rows it created.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range DefaultAreas {
			ok, err := missing(tx, &models.Area{}, "area_name", name)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := tx.Create(&models.Area{Name: name}).Error; err != nil {
				return err
			}
			created++
		}
		for _, ct := range DefaultComplaintTypes {
			ok, err := missing(tx, &models.ComplaintType{}, "type_name", ct.Name)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			row := ct
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}

func missing(tx *gorm.DB, model any, column, name string) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(column+" = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}
