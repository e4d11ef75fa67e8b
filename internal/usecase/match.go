package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

var (
	// ErrMatchNotFound indicates no match exists for the identifier.
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchExists indicates a match between the pair already exists.
	ErrMatchExists = errors.New("match already exists")
	// ErrSelfMatch indicates an attempt to match an account with itself.
	ErrSelfMatch = errors.New("cannot match an account with itself")
	// ErrInvalidTransition indicates the match is not in a state that allows
	// the requested transition.
	ErrInvalidTransition = errors.New("invalid match transition")
)

// MatchService coordinates match creation, lifecycle transitions, and
// mutual-match discovery.
type MatchService struct {
	matches       port.MatchRepository
	accounts      port.AccountRepository
	notifications *NotificationService
	events        port.EventPublisher
	logger        *zap.Logger
}

// NewMatchService constructs a MatchService instance.
func NewMatchService(
	matches port.MatchRepository,
	accounts port.AccountRepository,
	notifications *NotificationService,
	events port.EventPublisher,
	log *zap.Logger,
) *MatchService {
	return &MatchService{
		matches:       matches,
		accounts:      accounts,
		notifications: notifications,
		events:        events,
		logger:        log,
	}
}

// Create matches the actor with another account. The pair is normalized
// before storage so the same two accounts can never match twice. Both
// participants are notified.
func (s *MatchService) Create(ctx context.Context, actor domain.Account, otherID string) (domain.Match, error) {
	if otherID == actor.ID {
		return domain.Match{}, ErrSelfMatch
	}

	other, err := s.accounts.GetByID(ctx, otherID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Match{}, ErrAccountNotFound
		}
		return domain.Match{}, fmt.Errorf("lookup account: %w", err)
	}

	userA, userB := domain.NormalizePair(actor.ID, otherID)
	now := time.Now().UTC()
	match := domain.Match{
		ID:               uuid.NewString(),
		UserA:            userA,
		UserB:            userB,
		Status:           domain.MatchStatusPending,
		MatchedInterests: sharedInterests(actor.Interests, other.Interests),
		LastInteraction:  now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.matches.Create(ctx, match); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.Match{}, ErrMatchExists
		}
		return domain.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.notifyParticipant(ctx, other.ID, actor.ID, fmt.Sprintf("%s wants to match with you!", actor.Username), match.ID)
	s.notifyParticipant(ctx, actor.ID, other.ID, fmt.Sprintf("You sent a match request to %s", other.Username), match.ID)

	if s.events != nil {
		event := domain.MatchCreatedEvent{
			MatchID:   match.ID,
			UserA:     userA,
			UserB:     userB,
			CreatedAt: now,
		}
		if err := s.events.PublishMatchCreated(ctx, event); err != nil {
			s.logger.Warn("publish match created event failed", zap.Error(err))
		}
	}

	if err := s.attachRefs(ctx, &match); err != nil {
		s.logger.Warn("attach match refs failed", zap.Error(err))
	}

	return match, nil
}

// Get retrieves a match the actor participates in.
func (s *MatchService) Get(ctx context.Context, actor domain.Account, matchID string) (domain.Match, error) {
	match, err := s.getParticipating(ctx, actor, matchID)
	if err != nil {
		return domain.Match{}, err
	}

	if err := s.attachRefs(ctx, &match); err != nil {
		s.logger.Warn("attach match refs failed", zap.Error(err))
	}

	return match, nil
}

// ListByUser retrieves every match of the account, most recently touched
// first, with participant projections attached.
func (s *MatchService) ListByUser(ctx context.Context, actor domain.Account, accountID string) ([]domain.Match, error) {
	if actor.ID != accountID && !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	matches, err := s.matches.ListByUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if matches == nil {
		matches = []domain.Match{}
	}

	for i := range matches {
		if err := s.attachRefs(ctx, &matches[i]); err != nil {
			s.logger.Warn("attach match refs failed", zap.Error(err))
		}
	}

	return matches, nil
}

// Accept transitions a pending match to accepted. Only participants may act.
func (s *MatchService) Accept(ctx context.Context, actor domain.Account, matchID string) (domain.Match, error) {
	return s.transition(ctx, actor, matchID, domain.MatchStatusAccepted)
}

// Reject transitions a pending match to rejected. Only participants may act.
func (s *MatchService) Reject(ctx context.Context, actor domain.Account, matchID string) (domain.Match, error) {
	return s.transition(ctx, actor, matchID, domain.MatchStatusRejected)
}

func (s *MatchService) transition(ctx context.Context, actor domain.Account, matchID string, status domain.MatchStatus) (domain.Match, error) {
	match, err := s.getParticipating(ctx, actor, matchID)
	if err != nil {
		return domain.Match{}, err
	}

	if match.Status != domain.MatchStatusPending {
		return domain.Match{}, ErrInvalidTransition
	}

	if err := s.matches.UpdateStatus(ctx, matchID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Match{}, ErrMatchNotFound
		}
		return domain.Match{}, fmt.Errorf("update match status: %w", err)
	}

	match.Status = status
	match.LastInteraction = time.Now().UTC()

	if status == domain.MatchStatusAccepted {
		counterpart := match.Counterpart(actor.ID)
		s.notifyParticipant(ctx, counterpart, actor.ID, fmt.Sprintf("%s accepted your match!", actor.Username), match.ID)
	}

	if err := s.attachRefs(ctx, &match); err != nil {
		s.logger.Warn("attach match refs failed", zap.Error(err))
	}

	return match, nil
}

// Delete removes a match. Only participants and admins may delete.
func (s *MatchService) Delete(ctx context.Context, actor domain.Account, matchID string) error {
	if _, err := s.getParticipating(ctx, actor, matchID); err != nil {
		return err
	}

	if err := s.matches.Delete(ctx, matchID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("delete match: %w", err)
	}

	return nil
}

// Mutual returns accounts that hold an accepted match with both the actor and
// the other account.
func (s *MatchService) Mutual(ctx context.Context, actor domain.Account, otherID string) ([]domain.AccountRef, error) {
	mine, err := s.matches.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	theirs, err := s.matches.ListByUser(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	counterparts := make(map[string]struct{})
	for _, match := range mine {
		if match.Status == domain.MatchStatusAccepted {
			counterparts[match.Counterpart(actor.ID)] = struct{}{}
		}
	}

	var mutualIDs []string
	for _, match := range theirs {
		if match.Status != domain.MatchStatusAccepted {
			continue
		}
		id := match.Counterpart(otherID)
		if id == actor.ID {
			continue
		}
		if _, ok := counterparts[id]; ok {
			mutualIDs = append(mutualIDs, id)
		}
	}

	if len(mutualIDs) == 0 {
		return []domain.AccountRef{}, nil
	}

	refs, err := s.accounts.GetRefs(ctx, mutualIDs)
	if err != nil {
		return nil, fmt.Errorf("lookup account refs: %w", err)
	}

	return refs, nil
}

func (s *MatchService) getParticipating(ctx context.Context, actor domain.Account, matchID string) (domain.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Match{}, ErrMatchNotFound
		}
		return domain.Match{}, fmt.Errorf("lookup match: %w", err)
	}

	if !match.Involves(actor.ID) && !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return domain.Match{}, ErrForbidden
	}

	return *match, nil
}

func (s *MatchService) attachRefs(ctx context.Context, match *domain.Match) error {
	refs, err := s.accounts.GetRefs(ctx, []string{match.UserA, match.UserB})
	if err != nil {
		return err
	}
	match.Users = refs
	return nil
}

func (s *MatchService) notifyParticipant(ctx context.Context, recipientID, relatedID, content, matchID string) {
	if s.notifications == nil {
		return
	}

	related := relatedID
	_, err := s.notifications.Create(ctx, CreateNotificationInput{
		RecipientID:   recipientID,
		Type:          domain.NotificationTypeMatch,
		Content:       content,
		RelatedUserID: &related,
		Link:          "/match/" + matchID,
	})
	if err != nil {
		s.logger.Warn("create match notification failed",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
	}
}

func sharedInterests(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return []string{}
	}

	set := make(map[string]struct{}, len(a))
	for _, interest := range a {
		set[interest] = struct{}{}
	}

	shared := []string{}
	for _, interest := range b {
		if _, ok := set[interest]; ok {
			shared = append(shared, interest)
		}
	}

	return shared
}
