package storage

import (
	"context"

	"complaintdesk/backend/internal/models"
)

func (s *Service) ListAreas(ctx context.Context) ([]models.Area, error) {
	areas := make([]models.Area, 0)
	err := s.DB.WithContext(ctx).Order("area_name ASC").Find(&areas).Error
	return areas, err
}

func (s *Service) CreateArea(ctx context.Context, a *models.Area) error {
	return s.DB.WithContext(ctx).Create(a).Error
}

func (s *Service) RenameArea(ctx context.Context, id uint, name string) (*models.Area, error) {
	res := s.DB.WithContext(ctx).Model(&models.Area{}).Where("id = ?", id).Update("area_name", name)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var area models.Area
	if err := s.DB.WithContext(ctx).First(&area, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &area, nil
}

// DeleteArea removes the area row only; complaints keep the dangling id and
// display the deleted-area placeholder.
func (s *Service) DeleteArea(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Area{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListComplaintTypes(ctx context.Context) ([]models.ComplaintType, error) {
	types := make([]models.ComplaintType, 0)
	err := s.DB.WithContext(ctx).Order("type_name ASC").Find(&types).Error
	return types, err
}

func (s *Service) CreateComplaintType(ctx context.Context, t *models.ComplaintType) error {
	return s.DB.WithContext(ctx).Create(t).Error
}

// UpdateComplaintType applies values (type_name and/or queue) and returns the row.
func (s *Service) UpdateComplaintType(ctx context.Context, id uint, values map[string]any) (*models.ComplaintType, error) {
	res := s.DB.WithContext(ctx).Model(&models.ComplaintType{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var t models.ComplaintType
	if err := s.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Service) DeleteComplaintType(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.ComplaintType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
