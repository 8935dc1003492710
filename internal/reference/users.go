package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"
	"complaintdesk/backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages accounts. Every operation except Authenticate is
// admin-only.
type UserService struct {
	Storage storage.UserStore
	Log     logrus.FieldLogger
	Cost    int

	validate *validator.Validate
}

func NewUserService(s storage.UserStore, log logrus.FieldLogger) *UserService {
	return &UserService{
		Storage:  s,
		Log:      log,
		Cost:     bcrypt.DefaultCost,
		validate: validator.New(),
	}
}

type CreateUserInput struct {
	Name     string      `validate:"required"`
	Email    string      `validate:"required,email"`
	Password string      `validate:"required,min=6"`
	Role     models.Role `validate:"required"`
}

// UpdateUserInput changes only the fields that are set.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

// Bootstrap is the actor used by the admin CLI.
var Bootstrap = policy.Actor{Role: models.RoleAdmin}

func (s *UserService) List(ctx context.Context, actor policy.Actor) ([]models.User, error) {
	if err := policy.Check(actor.Role, policy.ResourceUser, policy.ActionRead); err != nil {
		return nil, err
	}
	users, err := s.Storage.ListUsers(ctx)
	if err != nil {
		return nil, s.internal(err, "list users", 0)
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, actor policy.Actor, in CreateUserInput) (*models.User, error) {
	if err := policy.Check(actor.Role, policy.ResourceUser, policy.ActionCreate); err != nil {
		return nil, err
	}
	in.Name, in.Email = strings.TrimSpace(in.Name), strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			switch verrs[0].Field() {
			case "Email":
				if verrs[0].Tag() == "email" {
					return nil, apperr.Validation("Invalid email")
				}
			case "Password":
				if verrs[0].Tag() == "min" {
					return nil, apperr.Validation("Password must be at least 6 characters")
				}
			}
		}
		return nil, apperr.Validation("All fields are required")
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("Invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.Cost)
	if err != nil {
		return nil, s.internal(err, "hash password", 0)
	}
	user := &models.User{Name: in.Name, Email: in.Email, Password: string(hash), Role: in.Role}
	if err := s.Storage.CreateUser(ctx, user); err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email already exists")
		}
		return nil, s.internal(err, "create user", 0)
	}
	return user, nil
}

// Update edits an account. Changing a role is the only way roles move.
func (s *UserService) Update(ctx context.Context, actor policy.Actor, id uint, in UpdateUserInput) (*models.User, error) {
	if err := policy.Check(actor.Role, policy.ResourceUser, policy.ActionUpdate); err != nil {
		return nil, err
	}
	values := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Validation("Name cannot be empty")
		}
		values["name"] = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := s.validate.Var(email, "required,email"); err != nil {
			return nil, apperr.Validation("Invalid email")
		}
		values["email"] = email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.Validation("Invalid role")
		}
		values["role"] = *in.Role
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, apperr.Validation("Password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.Cost)
		if err != nil {
			return nil, s.internal(err, "hash password", id)
		}
		values["password"] = string(hash)
	}
	if len(values) == 0 {
		return nil, apperr.Validation("Nothing to update")
	}

	user, err := s.Storage.UpdateUser(ctx, id, values)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email already exists")
		}
		return nil, s.internal(err, "update user", id)
	}
	return user, nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Check(actor.Role, policy.ResourceUser, policy.ActionDelete); err != nil {
		return err
	}
	if actor.UserID != 0 && actor.UserID == id {
		return apperr.Validation("You cannot delete your own account")
	}
	err := s.Storage.DeleteUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("User not found")
	}
	if err != nil {
		return s.internal(err, "delete user", id)
	}
	return nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := apperr.Unauthenticated("Invalid email or password")
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid
	}
	user, err := s.Storage.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, s.internal(err, "load user", 0)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	return user, nil
}

func (s *UserService) internal(err error, op string, id uint) error {
	entry := s.Log.WithError(err)
	if id != 0 {
		entry = entry.WithField("user_id", id)
	}
	entry.Error(op + " failed")
	return fmt.Errorf("%s: %w", op, err)
}
