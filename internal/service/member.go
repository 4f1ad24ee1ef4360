package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/membergate/member-portal/internal/logging"
	"github.com/membergate/member-portal/internal/models"
	"github.com/membergate/member-portal/internal/repository"
	"gorm.io/gorm"
)

// MemberService covers member administration: listing members and
// moving them between approval states.
type MemberService interface {
	// UpdateStatus sets the target user's status. Only a SUPER_ADMIN
	// session may call it. Setting the status a user already has is a
	// no-op success.
	UpdateStatus(ctx context.Context, requester *Claims, userID string, status string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type memberService struct {
	users repository.UserRepository
	log   logging.Logger
}

// NewMemberService creates a new MemberService instance.
func NewMemberService(users repository.UserRepository, log logging.Logger) MemberService {
	return &memberService{users: users, log: log}
}

func (s *memberService) UpdateStatus(ctx context.Context, requester *Claims, userID string, status string) (*models.User, error) {
	if requester == nil || requester.Role != models.RoleSuperAdmin {
		return nil, ErrUnauthorized
	}

	if userID == "" {
		return nil, &ValidationError{Field: "userId", Message: "User ID is required"}
	}
	newStatus := models.Status(status)
	if !newStatus.Valid() {
		return nil, &ValidationError{Field: "status", Message: "Invalid status value"}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("member lookup: %w", err)
	}

	if err := s.users.UpdateStatus(ctx, user.ID, newStatus); err != nil {
		return nil, fmt.Errorf("status update: %w", err)
	}

	s.log.Info(ctx, "member status updated",
		"user_id", user.ID, "from", user.Status, "to", newStatus, "by", requester.UserID)

	user.Status = newStatus
	return user, nil
}

func (s *memberService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
