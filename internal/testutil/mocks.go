package testutil

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tivecs/finance/finance-backend/internal/domain"
	"github.com/tivecs/finance/finance-backend/internal/event"
	"github.com/tivecs/finance/finance-backend/internal/util"
)

// MockExpenseRepository is an in-memory implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[string]*domain.Expense
	mu       sync.Mutex

	// Optional overrides for error injection
	CountFn         func(filters *domain.ExpenseFilters) (int64, error)
	ListFn          func(filters *domain.ExpenseFilters) ([]*domain.Expense, error)
	GetActiveByIDFn func(id string) (*domain.Expense, error)
	UpdateFn        func(id string, data *domain.UpdateExpenseData) (*domain.Expense, error)
	SoftDeleteFn    func(id string, deletedAt time.Time) (*domain.Expense, error)
	CreateErr       error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[string]*domain.Expense),
	}
}

// Create stores a copy of the expense
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *expense
	m.Expenses[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetActiveByID returns an active expense by id
func (m *MockExpenseRepository) GetActiveByID(ctx context.Context, id string) (*domain.Expense, error) {
	if m.GetActiveByIDFn != nil {
		return m.GetActiveByIDFn(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Expenses[id]
	if !ok || !e.IsActive() {
		return nil, domain.ErrExpenseNotFound
	}
	out := *e
	return &out, nil
}

// Count counts the expenses matching filters
func (m *MockExpenseRepository) Count(ctx context.Context, filters *domain.ExpenseFilters) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(filters)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.matching(filters))), nil
}

// List returns the page of expenses matching filters
func (m *MockExpenseRepository) List(ctx context.Context, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	if m.ListFn != nil {
		return m.ListFn(filters)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.matching(filters)

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less, equal bool
		switch filters.SortBy {
		case domain.ExpenseSortByAmount:
			less, equal = a.Amount < b.Amount, a.Amount == b.Amount
		default:
			less, equal = a.OccurredAt.Before(b.OccurredAt), a.OccurredAt.Equal(b.OccurredAt)
		}
		if equal {
			return a.ID < b.ID
		}
		if filters.SortDir == domain.SortDesc {
			return !less
		}
		return less
	})

	offset := util.Offset(filters.Page, filters.PageSize)
	if offset >= int64(len(matched)) {
		return []*domain.Expense{}, nil
	}
	start := int(offset)
	end := start + int(filters.PageSize)
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]*domain.Expense, 0, end-start)
	for _, e := range matched[start:end] {
		out := *e
		page = append(page, &out)
	}
	return page, nil
}

// Update overwrites the mutable fields of an active expense
func (m *MockExpenseRepository) Update(ctx context.Context, id string, data *domain.UpdateExpenseData) (*domain.Expense, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(id, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Expenses[id]
	if !ok || !e.IsActive() {
		return nil, domain.ErrExpenseNotFound
	}
	e.Note = data.Note
	e.Category = data.Category
	e.Amount = data.Amount
	e.OccurredAt = data.OccurredAt
	updatedAt := data.UpdatedAt
	e.UpdatedAt = &updatedAt

	out := *e
	return &out, nil
}

// SoftDelete sets deletedAt on an active expense
func (m *MockExpenseRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) (*domain.Expense, error) {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(id, deletedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Expenses[id]
	if !ok || !e.IsActive() {
		return nil, domain.ErrExpenseNotFound
	}
	e.DeletedAt = &deletedAt

	out := *e
	return &out, nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expenses[expense.ID] = expense
}

// Get returns the stored expense regardless of its state (helper for tests)
func (m *MockExpenseRepository) Get(id string) (*domain.Expense, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Expenses[id]
	return e, ok
}

func (m *MockExpenseRepository) matching(filters *domain.ExpenseFilters) []*domain.Expense {
	var out []*domain.Expense
	for _, e := range m.Expenses {
		if e.OwnerID != filters.OwnerID || !e.IsActive() {
			continue
		}
		if filters.Category != nil && e.Category != *filters.Category {
			continue
		}
		if filters.MinAmount != nil && e.Amount < *filters.MinAmount {
			continue
		}
		if filters.MaxAmount != nil && e.Amount > *filters.MaxAmount {
			continue
		}
		if filters.StartDate != nil && e.OccurredAt.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && e.OccurredAt.After(*filters.EndDate) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// MockSessionProvider resolves sessions from the Authorization header.
// "Bearer <key>" looks up Sessions[key].
type MockSessionProvider struct {
	Sessions map[string]*domain.Session
	Err      error
	Calls    int
	mu       sync.Mutex
}

// NewMockSessionProvider creates a new MockSessionProvider
func NewMockSessionProvider() *MockSessionProvider {
	return &MockSessionProvider{Sessions: make(map[string]*domain.Session)}
}

// GetSession implements auth.SessionProvider
func (m *MockSessionProvider) GetSession(ctx context.Context, headers http.Header) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.Err != nil {
		return nil, m.Err
	}
	authHeader := headers.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) {
		return nil, nil
	}
	return m.Sessions[authHeader[len(prefix):]], nil
}

// AddUser registers a session for a new user under token and returns the session
func (m *MockSessionProvider) AddUser(token string) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := NewSession(uuid.New())
	m.Sessions[token] = session
	return session
}

// NewSession builds a session for userID that expires in an hour
func NewSession(userID uuid.UUID) *domain.Session {
	return &domain.Session{
		User: domain.User{
			ID:    userID,
			Email: userID.String()[:8] + "@example.com",
			Name:  "Test User",
		},
		Session: domain.SessionInfo{
			ID:        uuid.NewString(),
			ExpiresAt: time.Now().Add(time.Hour).UTC(),
		},
	}
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	Owners []uuid.UUID
	Events []event.Event
	mu     sync.Mutex
}

// Publish implements event.Publisher
func (p *RecordingPublisher) Publish(ownerID uuid.UUID, ev event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Owners = append(p.Owners, ownerID)
	p.Events = append(p.Events, ev)
}

// Types returns the type of every recorded event in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, ev := range p.Events {
		types[i] = ev.Type
	}
	return types
}

// MockUserRepository is an in-memory implementation of domain.UserRepository
type MockUserRepository struct {
	Users     map[uuid.UUID]*domain.User
	UpsertErr error
	mu        sync.Mutex
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[uuid.UUID]*domain.User)}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

// Upsert inserts or replaces a user
func (m *MockUserRepository) Upsert(ctx context.Context, user *domain.User) (bool, error) {
	if m.UpsertErr != nil {
		return false, m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.Users[user.ID]
	stored := *user
	m.Users[user.ID] = &stored
	return !exists, nil
}
