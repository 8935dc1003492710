package storage

import (
	"context"
	"errors"
	"time"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("storage: record not found")

// ComplaintQuery narrows a complaint listing. Zero values do not filter.
type ComplaintQuery struct {
	UserID *uint
	Status *models.Status
	Queue  *policy.QueueFilter
}

// ComplaintStore persists complaints and their acknowledgments.
type ComplaintStore interface {
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	GetComplaintView(ctx context.Context, id uint) (*models.ComplaintView, error)
	ListComplaintViews(ctx context.Context, q ComplaintQuery) ([]models.ComplaintView, error)
	UpdateComplaintIfStatus(ctx context.Context, id uint, from models.Status, values map[string]any) (bool, error)
	DeleteComplaint(ctx context.Context, id uint) error
	MarkSeen(ctx context.Context, complaintID, userID uint, at time.Time) (*models.ComplaintSeen, error)
	GetSeen(ctx context.Context, id uint) (*models.ComplaintSeen, error)
	DeleteSeen(ctx context.Context, id uint) error
}

// ReferenceStore persists areas and complaint types.
type ReferenceStore interface {
	ListAreas(ctx context.Context) ([]models.Area, error)
	CreateArea(ctx context.Context, a *models.Area) error
	RenameArea(ctx context.Context, id uint, name string) (*models.Area, error)
	DeleteArea(ctx context.Context, id uint) error

	ListComplaintTypes(ctx context.Context) ([]models.ComplaintType, error)
	CreateComplaintType(ctx context.Context, t *models.ComplaintType) error
	UpdateComplaintType(ctx context.Context, id uint, values map[string]any) (*models.ComplaintType, error)
	DeleteComplaintType(ctx context.Context, id uint) error
}

// UserStore persists user accounts.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id uint, values map[string]any) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

// Storage is everything the relational store offers.
type Storage interface {
	ComplaintStore
	ReferenceStore
	UserStore
}

// Service implements Storage on gorm and keeps the optional redis client used
// by suggestions and event publishing.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
