package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/entity"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/logging"
	"github.com/Kyaw-Min-lwin/Real-time-chat/internal/repository"
)

var ErrAccessCodeRequired = fmt.Errorf("%w: access code is required for private groups", ErrValidation)

type GroupService interface {
	Create(title, description string, private bool, accessCode, imageURL string) (*entity.ChatGroup, error)

	Get(id uint) (*entity.ChatGroup, error)
	List() ([]entity.ChatGroup, error)
	Search(q string) ([]entity.GroupSummary, error)
}

type groupService struct {
	groups repository.GroupRepository
	logger logging.Logger
}

func NewGroupService(groups repository.GroupRepository, logger logging.Logger) GroupService {
	return &groupService{groups: groups, logger: logger}
}

func (g *groupService) Create(title, description string, private bool, accessCode, imageURL string) (*entity.ChatGroup, error) {
	if title == "" || description == "" {
		return nil, ErrValidation
	}
	if private && accessCode == "" {
		return nil, ErrAccessCodeRequired
	}

	group := &entity.ChatGroup{
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		IsPrivate:   private,
	}
	// The code is stored only for private groups, so the column stays
	// NULL exactly when the group is public.
	if private {
		group.AccessCode = &accessCode
	}

	if err := g.groups.Create(group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	g.logger.Logf("created group %d (%q, private=%t)", group.ID, group.Title, group.IsPrivate)
	return group, nil
}

func (g *groupService) Get(id uint) (*entity.ChatGroup, error) {
	group, err := g.groups.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup group: %w", err)
	}
	return group, nil
}

func (g *groupService) List() ([]entity.ChatGroup, error) {
	return g.groups.List()
}

func (g *groupService) Search(q string) ([]entity.GroupSummary, error) {
	return g.groups.SearchByTitle(q)
}
