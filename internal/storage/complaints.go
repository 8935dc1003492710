package storage

import (
	"context"
	"time"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// complaintViews selects complaints joined with their reference names. Rows
// whose area or type was deleted fall back to the display placeholders, and
// attestations show the attestation text instead of the sentinel references.
func (s *Service) complaintViews(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("complaints AS c").
		Select(`c.*,
			CASE WHEN c.status = ? THEN ? ELSE COALESCE(a.area_name, ?) END AS area_name,
			CASE WHEN c.status = ? THEN ? ELSE COALESCE(ct.type_name, ?) END AS complaint_type_name,
			ct.queue AS queue`,
			models.StatusNoComplaint, config.NoComplaintText, config.DeletedAreaName,
			models.StatusNoComplaint, config.NoComplaintText, config.DeletedTypeName,
		).
		Joins("LEFT JOIN areas AS a ON a.id = c.area_id").
		Joins("LEFT JOIN complaint_types AS ct ON ct.id = c.complaint_type_id")
}

func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	return s.DB.WithContext(ctx).Create(c).Error
}

func (s *Service) GetComplaintView(ctx context.Context, id uint) (*models.ComplaintView, error) {
	var views []models.ComplaintView
	if err := s.complaintViews(ctx).Where("c.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// ListComplaintViews returns the complaints matching q, newest issue date first.
func (s *Service) ListComplaintViews(ctx context.Context, q ComplaintQuery) ([]models.ComplaintView, error) {
	tx := s.complaintViews(ctx)
	if q.UserID != nil {
		tx = tx.Where("c.user_id = ?", *q.UserID)
	}
	if q.Status != nil {
		tx = tx.Where("c.status = ?", *q.Status)
	}
	if q.Queue != nil {
		if q.Queue.Negate {
			tx = tx.Where("(ct.queue IS NULL OR ct.queue <> ?)", q.Queue.Queue)
		} else {
			tx = tx.Where("ct.queue = ?", q.Queue.Queue)
		}
	}

	views := make([]models.ComplaintView, 0)
	err := tx.Order("c.date DESC").Order("c.id DESC").Scan(&views).Error
	return views, err
}

// UpdateComplaintIfStatus applies values only while the complaint is still in
// status from. It reports false when no row matched, which covers both a
// missing complaint and one that already moved on.
func (s *Service) UpdateComplaintIfStatus(ctx context.Context, id uint, from models.Status, values map[string]any) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteComplaint removes a complaint together with its acknowledgments.
func (s *Service) DeleteComplaint(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.ComplaintSeen{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Complaint{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// MarkSeen records userID's acknowledgment and flips the complaint's seen flag
// in one transaction. A repeated acknowledgment returns the existing record.
func (s *Service) MarkSeen(ctx context.Context, complaintID, userID uint, at time.Time) (*models.ComplaintSeen, error) {
	ack := &models.ComplaintSeen{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Complaint{}).
			Where("id = ?", complaintID).
			Updates(map[string]any{
				"seen":      true,
				"seen_date": gorm.Expr("COALESCE(seen_date, ?)", at),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		lookup := tx.Where("user_id = ? AND complaint_id = ?", userID, complaintID).Limit(1).Find(ack)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected > 0 {
			return nil
		}

		*ack = models.ComplaintSeen{UserID: userID, ComplaintID: complaintID, CreatedAt: at}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ack).Error; err != nil {
			return err
		}
		if ack.ID == 0 {
			// lost a race with a concurrent acknowledgment
			return tx.Where("user_id = ? AND complaint_id = ?", userID, complaintID).First(ack).Error
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	return ack, nil
}

func (s *Service) GetSeen(ctx context.Context, id uint) (*models.ComplaintSeen, error) {
	var ack models.ComplaintSeen
	if err := s.DB.WithContext(ctx).First(&ack, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ack, nil
}

// DeleteSeen removes an acknowledgment. The complaint's seen flag is cleared
// once its last acknowledgment is gone.
func (s *Service) DeleteSeen(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ack models.ComplaintSeen
		if err := tx.First(&ack, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&ack).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&models.ComplaintSeen{}).Where("complaint_id = ?", ack.ComplaintID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		// attestations are created seen and stay that way
		return tx.Model(&models.Complaint{}).
			Where("id = ? AND status <> ?", ack.ComplaintID, models.StatusNoComplaint).
			Updates(map[string]any{"seen": false, "seen_date": nil}).Error
	})
}
