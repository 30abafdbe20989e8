package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/repository"
)

// MembershipService reconciles durable group membership with the
// caller's session-local joined-set. The session set is strictly a
// cache: whenever it says "not joined", the durable table decides.
type MembershipService interface {
	// Join grants entry to the group, durably recording membership on
	// first join. inSession marks that the caller's session already
	// joined this group, which skips the durable insert.
	Join(groupID, userID uint, accessCode string, inSession bool) ([]entity.Member, error)

	// Leave removes the durable membership row; absent rows are not an
	// error.
	Leave(groupID, userID uint) error

	// CheckAccess decides whether the user may view the group's room.
	CheckAccess(groupID, userID uint, inSession bool) (bool, error)

	Members(groupID uint) ([]entity.Member, error)
}

type membershipService struct {
	groups      repository.GroupRepository
	memberships repository.MembershipRepository
	logger      logging.Logger
}

func NewMembershipService(groups repository.GroupRepository, memberships repository.MembershipRepository, logger logging.Logger) MembershipService {
	return &membershipService{groups: groups, memberships: memberships, logger: logger}
}

func (m *membershipService) Join(groupID, userID uint, accessCode string, inSession bool) ([]entity.Member, error) {
	group, err := m.groups.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup group: %w", err)
	}

	// Private groups require the exact stored code, case-sensitive.
	if group.IsPrivate {
		if accessCode == "" || group.AccessCode == nil || accessCode != *group.AccessCode {
			return nil, ErrAccessDenied
		}
	}

	if !inSession {
		// Duplicate-tolerant: a user re-joining from a fresh session
		// already has a row, and that must not fail.
		membership := &entity.GroupMembership{GroupID: groupID, UserID: userID}
		if err := m.memberships.Create(membership); err != nil {
			return nil, fmt.Errorf("record membership: %w", err)
		}
		m.logger.Logf("user %d joined group %d", userID, groupID)
	}

	return m.Members(groupID)
}

func (m *membershipService) Leave(groupID, userID uint) error {
	if err := m.memberships.Delete(groupID, userID); err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	m.logger.Logf("user %d left group %d", userID, groupID)
	return nil
}

func (m *membershipService) CheckAccess(groupID, userID uint, inSession bool) (bool, error) {
	group, err := m.groups.GetByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("lookup group: %w", err)
	}
	if !group.IsPrivate {
		return true, nil
	}
	if inSession {
		return true, nil
	}
	// The session set only short-circuits the happy path. A session
	// that has lost (or never had) the entry is checked against the
	// durable table, so membership survives re-login.
	return m.memberships.Exists(groupID, userID)
}

func (m *membershipService) Members(groupID uint) ([]entity.Member, error) {
	members, err := m.memberships.ListMembers(groupID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}
