package handlers_test

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"time"

	"atelier/db"
	"atelier/internal/auth"
	"atelier/internal/handlers"
	"atelier/models"
)

// MockStorage implements StorageInterface over in-memory maps, mimicking
// the SQL semantics the handlers rely on (sql.ErrNoRows, sort orders,
// pair matching in either direction).
type MockStorage struct {
	accounts  map[int]models.Account
	requests  map[int]models.Request
	proposals map[int]models.Proposal
	events    []models.TimelineEvent
	messages  []models.Message
	nextID    int
	now       time.Time
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		accounts:  make(map[int]models.Account),
		requests:  make(map[int]models.Request),
		proposals: make(map[int]models.Proposal),
		now:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MockStorage) id() int {
	m.nextID++
	return m.nextID
}

// tick returns strictly increasing server timestamps.
func (m *MockStorage) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *MockStorage) CreateAccount(ctx context.Context, a *models.Account) error {
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return db.ErrEmailInUse
		}
	}
	a.ID = m.id()
	a.CreatedAt = m.tick()
	m.accounts[a.ID] = *a
	return nil
}

func (m *MockStorage) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (m *MockStorage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MockStorage) GetAccounts(ctx context.Context, role string, limit, offset int) ([]models.Account, error) {
	accounts := []models.Account{}
	for _, a := range m.accounts {
		if role == "" || a.Role == role {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return paginate(accounts, limit, offset), nil
}

func (m *MockStorage) CreateRequest(ctx context.Context, r *models.Request) error {
	r.ID = m.id()
	r.CreatedAt = m.tick()
	m.requests[r.ID] = *r
	return nil
}

func (m *MockStorage) GetRequest(ctx context.Context, id int) (*models.Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &r, nil
}

func (m *MockStorage) GetRequests(ctx context.Context, f db.RequestFilter, limit, offset int) ([]models.Request, error) {
	requests := []models.Request{}
	for _, r := range m.requests {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Material != "" && r.Material != f.Material {
			continue
		}
		if f.CustomerID > 0 && r.CustomerID != f.CustomerID {
			continue
		}
		if f.MinBudget != nil && (r.Budget == nil || *r.Budget < *f.MinBudget) {
			continue
		}
		if f.MaxBudget != nil && (r.Budget == nil || *r.Budget > *f.MaxBudget) {
			continue
		}
		requests = append(requests, r)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return paginate(requests, limit, offset), nil
}

func (m *MockStorage) GetCustomerRequests(ctx context.Context, customerID int, limit, offset int) ([]models.Request, error) {
	return m.GetRequests(ctx, db.RequestFilter{CustomerID: customerID}, limit, offset)
}

func (m *MockStorage) AssignRequest(ctx context.Context, requestID, proposalID, designerID int, price float64) error {
	r, ok := m.requests[requestID]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = models.RequestAssigned
	r.AcceptedProposalID = &proposalID
	r.AcceptedPrice = &price
	r.DesignerID = &designerID
	m.requests[requestID] = r
	return nil
}

func (m *MockStorage) CompleteRequest(ctx context.Context, requestID int) error {
	r, ok := m.requests[requestID]
	if !ok {
		return sql.ErrNoRows
	}
	r.Status = models.RequestCompleted
	m.requests[requestID] = r
	return nil
}

func (m *MockStorage) CreateProposal(ctx context.Context, p *models.Proposal) error {
	p.ID = m.id()
	p.CreatedAt = m.tick()
	m.proposals[p.ID] = *p
	return nil
}

func (m *MockStorage) GetProposal(ctx context.Context, id int) (*models.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m *MockStorage) GetProposals(ctx context.Context, requestID, designerID int, limit, offset int) ([]models.Proposal, error) {
	proposals := []models.Proposal{}
	for _, p := range m.proposals {
		if requestID > 0 && p.RequestID != requestID {
			continue
		}
		if designerID > 0 && p.DesignerID != designerID {
			continue
		}
		proposals = append(proposals, p)
	}
	sort.Slice(proposals, func(i, j int) bool { return proposals[i].CreatedAt.After(proposals[j].CreatedAt) })
	return paginate(proposals, limit, offset), nil
}

func (m *MockStorage) UpdateProposalStatus(ctx context.Context, id int, status string) error {
	p, ok := m.proposals[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Status = status
	m.proposals[id] = p
	return nil
}

func (m *MockStorage) CreateTimelineEvent(ctx context.Context, e *models.TimelineEvent) error {
	e.ID = m.id()
	e.Timestamp = m.tick()
	m.events = append(m.events, *e)
	return nil
}

func (m *MockStorage) GetTimelineEvents(ctx context.Context, requestID int) ([]models.TimelineEvent, error) {
	events := []models.TimelineEvent{}
	for _, e := range m.events {
		if e.RequestID == requestID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].ID < events[j].ID
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

func (m *MockStorage) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = m.id()
	msg.Timestamp = m.tick()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *MockStorage) GetConversation(ctx context.Context, accountA, accountB int) ([]models.Message, error) {
	messages := []models.Message{}
	for _, msg := range m.messages {
		if (msg.SenderID == accountA && msg.ReceiverID == accountB) ||
			(msg.SenderID == accountB && msg.ReceiverID == accountA) {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (m *MockStorage) MarkConversationRead(ctx context.Context, receiverID, senderID int) (int64, error) {
	var updated int64
	for i, msg := range m.messages {
		if msg.ReceiverID == receiverID && msg.SenderID == senderID && !msg.Read {
			m.messages[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Test helpers shared across the handler test files.

func newTestHandler() (*handlers.Handler, *MockStorage) {
	store := NewMockStorage()
	tokens := auth.NewTokens("test-secret", time.Hour)
	return handlers.NewHandler(store, tokens), store
}

// authed puts the account id into the request context, the same way the
// JWT middleware does after verifying a token.
func authed(req *http.Request, accountID int) *http.Request {
	return req.WithContext(auth.WithAccountID(req.Context(), accountID))
}

func seedAccount(m *MockStorage, name, email, role string) *models.Account {
	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
	}
	m.CreateAccount(context.Background(), account)
	return account
}

func seedRequest(m *MockStorage, customerID int) *models.Request {
	request := &models.Request{
		CustomerID:  customerID,
		Title:       "Evening dress",
		Description: "Silk, floor length",
		Material:    "silk",
		Status:      models.RequestOpen,
	}
	m.CreateRequest(context.Background(), request)
	return request
}

func seedProposal(m *MockStorage, requestID, designerID int) *models.Proposal {
	proposal := &models.Proposal{
		RequestID:     requestID,
		DesignerID:    designerID,
		Price:         350,
		EstimatedTime: "3 weeks",
		Message:       "I can make this",
		Status:        models.ProposalPending,
	}
	m.CreateProposal(context.Background(), proposal)
	return proposal
}
