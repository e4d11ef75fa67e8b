package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

type mockAccountRepository struct {
	byID    map[string]domain.Account
	byEmail map[string]domain.Account

	createErr      error
	createCalls    int
	createdAccount domain.Account

	updateProfileErr   error
	updateProfileCalls int
	updatedAccount     domain.Account

	updatePasswordErr   error
	updatePasswordCalls int
	updatedPasswordHash string

	updateLastLoginErr   error
	updateLastLoginCalls int

	listErr       error
	updateRoleErr error
	deleteErr     error
	deleteCalls   int
}

func newMockAccountRepository(accounts ...domain.Account) *mockAccountRepository {
	m := &mockAccountRepository{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]domain.Account),
	}
	for _, account := range accounts {
		m.byID[account.ID] = account
		m.byEmail[account.Email] = account
	}
	return m
}

func (m *mockAccountRepository) Create(_ context.Context, account domain.Account) error {
	m.createCalls++
	m.createdAccount = account
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[account.Email]; ok {
		return repository.ErrConflict
	}
	m.byID[account.ID] = account
	m.byEmail[account.Email] = account
	return nil
}

func (m *mockAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if account, ok := m.byID[id]; ok {
		sanitized := account.Sanitized()
		return &sanitized, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	if account, ok := m.byEmail[email]; ok {
		sanitized := account.Sanitized()
		return &sanitized, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) GetByEmailWithPassword(_ context.Context, email string) (*domain.Account, error) {
	if account, ok := m.byEmail[email]; ok {
		copy := account
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) GetByIDWithPassword(_ context.Context, id string) (*domain.Account, error) {
	if account, ok := m.byID[id]; ok {
		copy := account
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) UpdateProfile(_ context.Context, account domain.Account) error {
	m.updateProfileCalls++
	m.updatedAccount = account
	if m.updateProfileErr != nil {
		return m.updateProfileErr
	}
	if _, ok := m.byID[account.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := m.byID[account.ID]
	stored.Username = account.Username
	stored.AvatarURL = account.AvatarURL
	stored.Bio = account.Bio
	stored.Interests = account.Interests
	stored.UpdatedAt = account.UpdatedAt
	m.byID[account.ID] = stored
	m.byEmail[stored.Email] = stored
	return nil
}

func (m *mockAccountRepository) UpdatePassword(_ context.Context, id, passwordHash string, _ time.Time) error {
	m.updatePasswordCalls++
	m.updatedPasswordHash = passwordHash
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	account, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.PasswordHash = passwordHash
	m.byID[id] = account
	m.byEmail[account.Email] = account
	return nil
}

func (m *mockAccountRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	m.updateLastLoginCalls++
	if m.updateLastLoginErr != nil {
		return m.updateLastLoginErr
	}
	account, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.LastLogin = &at
	m.byID[id] = account
	return nil
}

func (m *mockAccountRepository) List(_ context.Context) ([]domain.Account, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	accounts := make([]domain.Account, 0, len(m.byID))
	for _, account := range m.byID {
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (m *mockAccountRepository) UpdateRole(_ context.Context, id string, role domain.Role, changedAt time.Time) error {
	if m.updateRoleErr != nil {
		return m.updateRoleErr
	}
	account, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.Role = role
	account.UpdatedAt = changedAt
	m.byID[id] = account
	m.byEmail[account.Email] = account
	return nil
}

func (m *mockAccountRepository) Delete(_ context.Context, id string) error {
	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	account, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byEmail, account.Email)
	return nil
}

func (m *mockAccountRepository) GetRefs(_ context.Context, ids []string) ([]domain.AccountRef, error) {
	refs := make([]domain.AccountRef, 0, len(ids))
	for _, id := range ids {
		if account, ok := m.byID[id]; ok {
			refs = append(refs, domain.AccountRef{ID: account.ID, Username: account.Username, AvatarURL: account.AvatarURL})
		}
	}
	return refs, nil
}

var _ port.AccountRepository = (*mockAccountRepository)(nil)

type mockMemeRepository struct {
	memes    map[string]domain.Meme
	likes    map[string]map[string]struct{}
	comments map[string][]domain.Comment

	createErr error
	likeErr   error
}

func newMockMemeRepository(memes ...domain.Meme) *mockMemeRepository {
	m := &mockMemeRepository{
		memes:    make(map[string]domain.Meme),
		likes:    make(map[string]map[string]struct{}),
		comments: make(map[string][]domain.Comment),
	}
	for _, meme := range memes {
		m.memes[meme.ID] = meme
		likes := make(map[string]struct{})
		for _, id := range meme.Likes {
			likes[id] = struct{}{}
		}
		m.likes[meme.ID] = likes
		m.comments[meme.ID] = append([]domain.Comment{}, meme.Comments...)
	}
	return m
}

func (m *mockMemeRepository) Create(_ context.Context, meme domain.Meme) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.memes[meme.ID] = meme
	m.likes[meme.ID] = make(map[string]struct{})
	return nil
}

func (m *mockMemeRepository) GetByID(_ context.Context, id string) (*domain.Meme, error) {
	meme, ok := m.memes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	meme.Likes = []string{}
	for accountID := range m.likes[id] {
		meme.Likes = append(meme.Likes, accountID)
	}
	meme.Comments = append([]domain.Comment{}, m.comments[id]...)
	return &meme, nil
}

func (m *mockMemeRepository) List(_ context.Context, filter port.MemeFilter) ([]domain.Meme, error) {
	var out []domain.Meme
	for id := range m.memes {
		meme, _ := m.GetByID(context.Background(), id)
		if filter.CreatorID != "" && meme.CreatorID != filter.CreatorID {
			continue
		}
		out = append(out, *meme)
	}
	return out, nil
}

func (m *mockMemeRepository) Update(_ context.Context, meme domain.Meme) error {
	if _, ok := m.memes[meme.ID]; !ok {
		return repository.ErrNotFound
	}
	m.memes[meme.ID] = meme
	return nil
}

func (m *mockMemeRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.memes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.memes, id)
	delete(m.likes, id)
	delete(m.comments, id)
	return nil
}

func (m *mockMemeRepository) AddLike(_ context.Context, memeID, accountID string) error {
	if m.likeErr != nil {
		return m.likeErr
	}
	likes, ok := m.likes[memeID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, dup := likes[accountID]; dup {
		return repository.ErrConflict
	}
	likes[accountID] = struct{}{}
	return nil
}

func (m *mockMemeRepository) RemoveLike(_ context.Context, memeID, accountID string) error {
	likes, ok := m.likes[memeID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, present := likes[accountID]; !present {
		return repository.ErrNotFound
	}
	delete(likes, accountID)
	return nil
}

func (m *mockMemeRepository) AddComment(_ context.Context, comment domain.Comment) error {
	if _, ok := m.memes[comment.MemeID]; !ok {
		return repository.ErrNotFound
	}
	m.comments[comment.MemeID] = append(m.comments[comment.MemeID], comment)
	return nil
}

func (m *mockMemeRepository) GetComment(_ context.Context, memeID, commentID string) (*domain.Comment, error) {
	for _, comment := range m.comments[memeID] {
		if comment.ID == commentID {
			copy := comment
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockMemeRepository) DeleteComment(_ context.Context, memeID, commentID string) error {
	comments := m.comments[memeID]
	for i, comment := range comments {
		if comment.ID == commentID {
			m.comments[memeID] = append(comments[:i], comments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

var _ port.MemeRepository = (*mockMemeRepository)(nil)

type mockMatchRepository struct {
	matches map[string]domain.Match

	createErr error
}

func newMockMatchRepository(matches ...domain.Match) *mockMatchRepository {
	m := &mockMatchRepository{matches: make(map[string]domain.Match)}
	for _, match := range matches {
		m.matches[match.ID] = match
	}
	return m
}

func (m *mockMatchRepository) Create(_ context.Context, match domain.Match) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.matches {
		if existing.UserA == match.UserA && existing.UserB == match.UserB {
			return repository.ErrConflict
		}
	}
	m.matches[match.ID] = match
	return nil
}

func (m *mockMatchRepository) GetByID(_ context.Context, id string) (*domain.Match, error) {
	if match, ok := m.matches[id]; ok {
		copy := match
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockMatchRepository) GetByPair(_ context.Context, userA, userB string) (*domain.Match, error) {
	a, b := domain.NormalizePair(userA, userB)
	for _, match := range m.matches {
		if match.UserA == a && match.UserB == b {
			copy := match
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockMatchRepository) ListByUser(_ context.Context, accountID string) ([]domain.Match, error) {
	var out []domain.Match
	for _, match := range m.matches {
		if match.Involves(accountID) {
			out = append(out, match)
		}
	}
	return out, nil
}

func (m *mockMatchRepository) UpdateStatus(_ context.Context, id string, status domain.MatchStatus) error {
	match, ok := m.matches[id]
	if !ok {
		return repository.ErrNotFound
	}
	match.Status = status
	m.matches[id] = match
	return nil
}

func (m *mockMatchRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.matches[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.matches, id)
	return nil
}

var _ port.MatchRepository = (*mockMatchRepository)(nil)

type mockNotificationRepository struct {
	notifications map[string]domain.Notification

	createErr   error
	createCalls int
}

func newMockNotificationRepository(notifications ...domain.Notification) *mockNotificationRepository {
	m := &mockNotificationRepository{notifications: make(map[string]domain.Notification)}
	for _, notification := range notifications {
		m.notifications[notification.ID] = notification
	}
	return m
}

func (m *mockNotificationRepository) Create(_ context.Context, notification domain.Notification) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.notifications[notification.ID] = notification
	return nil
}

func (m *mockNotificationRepository) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	if notification, ok := m.notifications[id]; ok {
		copy := notification
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockNotificationRepository) ListByRecipient(_ context.Context, recipientID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, notification := range m.notifications {
		if notification.RecipientID == recipientID {
			out = append(out, notification)
		}
	}
	return out, nil
}

func (m *mockNotificationRepository) MarkRead(_ context.Context, id string) error {
	notification, ok := m.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	notification.Read = true
	m.notifications[id] = notification
	return nil
}

func (m *mockNotificationRepository) MarkAllRead(_ context.Context, recipientID string) (int, error) {
	count := 0
	for id, notification := range m.notifications {
		if notification.RecipientID == recipientID && !notification.Read {
			notification.Read = true
			m.notifications[id] = notification
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.notifications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.notifications, id)
	return nil
}

func (m *mockNotificationRepository) DeleteByRecipient(_ context.Context, recipientID string) (int, error) {
	count := 0
	for id, notification := range m.notifications {
		if notification.RecipientID == recipientID {
			delete(m.notifications, id)
			count++
		}
	}
	return count, nil
}

var _ port.NotificationRepository = (*mockNotificationRepository)(nil)

type sentMail struct {
	to      string
	subject string
	body    string
}

type mockMailSender struct {
	sent    []sentMail
	sendErr error
}

func (m *mockMailSender) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

var _ port.MailSender = (*mockMailSender)(nil)

type mockEventPublisher struct {
	registered    []domain.AccountRegisteredEvent
	activated     []domain.AccountActivatedEvent
	matchCreated  []domain.MatchCreatedEvent
	memeLiked     []domain.MemeLikedEvent
	notifications []domain.NotificationCreatedEvent

	publishErr error
}

func (m *mockEventPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.registered = append(m.registered, event)
	return nil
}

func (m *mockEventPublisher) PublishAccountActivated(_ context.Context, event domain.AccountActivatedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.activated = append(m.activated, event)
	return nil
}

func (m *mockEventPublisher) PublishMatchCreated(_ context.Context, event domain.MatchCreatedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.matchCreated = append(m.matchCreated, event)
	return nil
}

func (m *mockEventPublisher) PublishMemeLiked(_ context.Context, event domain.MemeLikedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.memeLiked = append(m.memeLiked, event)
	return nil
}

func (m *mockEventPublisher) PublishNotificationCreated(_ context.Context, event domain.NotificationCreatedEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.notifications = append(m.notifications, event)
	return nil
}

var (
	_ port.EventPublisher = (*mockEventPublisher)(nil)

	errBoom = errors.New("boom")
)
