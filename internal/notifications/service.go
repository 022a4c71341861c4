package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vitrine-projetos/vitrine-backend/internal/projects/domain"
)

const (
	TypePhaseStatusChanged = "phase_status_changed"

	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Store is the persistence used by Service. *Repo implements it.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// PhaseStatusChanged stores a notification for the project owner.
func (s *Service) PhaseStatusChanged(ctx context.Context, change domain.PhaseStatusChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	n := &Notification{
		UserID:  change.OwnerID,
		Type:    TypePhaseStatusChanged,
		Payload: payload,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.store.ListForUser(ctx, userID, unreadOnly, limit)
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.MarkRead(ctx, userID, id)
}
