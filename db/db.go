package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atelier/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrEmailInUse is returned by CreateAccount when the email column's
// unique constraint fires.
var ErrEmailInUse = errors.New("email already in use")

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// Accounts

func (s *Storage) CreateAccount(ctx context.Context, a *models.Account) error {
	query := `
        INSERT INTO account (name, email, password_hash, role, profile_image)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query,
		a.Name, a.Email, a.PasswordHash, a.Role, a.ProfileImage).
		Scan(&a.ID, &a.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrEmailInUse
	}
	return err
}

func (s *Storage) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	a := &models.Account{}
	query := `SELECT * FROM account WHERE id=$1`
	err := s.db.GetContext(ctx, a, query, id)
	return a, err
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	a := &models.Account{}
	query := `SELECT * FROM account WHERE email=$1`
	err := s.db.GetContext(ctx, a, query, email)
	return a, err
}

func (s *Storage) GetAccounts(ctx context.Context, role string, limit, offset int) ([]models.Account, error) {
	accounts := []models.Account{}
	if role != "" {
		query := `SELECT * FROM account WHERE role=$1 ORDER BY name ASC LIMIT $2 OFFSET $3`
		err := s.db.SelectContext(ctx, &accounts, query, role, limit, offset)
		return accounts, err
	}
	query := `SELECT * FROM account ORDER BY name ASC LIMIT $1 OFFSET $2`
	err := s.db.SelectContext(ctx, &accounts, query, limit, offset)
	return accounts, err
}

// Requests

func (s *Storage) CreateRequest(ctx context.Context, r *models.Request) error {
	query := `
        INSERT INTO request
            (customer_id, title, description, material, budget, timeframe, size, additional_details, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		r.CustomerID, r.Title, r.Description, r.Material,
		r.Budget, r.Timeframe, r.Size, r.AdditionalDetails, r.Status).
		Scan(&r.ID, &r.CreatedAt)
}

func (s *Storage) GetRequest(ctx context.Context, id int) (*models.Request, error) {
	r := &models.Request{}
	query := `SELECT * FROM request WHERE id=$1`
	err := s.db.GetContext(ctx, r, query, id)
	return r, err
}

// RequestFilter narrows the marketplace listing. Zero values mean
// "no filter" for that field.
type RequestFilter struct {
	Status     string
	Material   string
	CustomerID int
	MinBudget  *float64
	MaxBudget  *float64
}

func (s *Storage) GetRequests(ctx context.Context, f RequestFilter, limit, offset int) ([]models.Request, error) {
	baseQuery := `SELECT * FROM request`
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Material != "" {
		add("material = $%d", f.Material)
	}
	if f.CustomerID > 0 {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.MinBudget != nil {
		add("budget >= $%d", *f.MinBudget)
	}
	if f.MaxBudget != nil {
		add("budget <= $%d", *f.MaxBudget)
	}

	query := baseQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	requests := []models.Request{}
	err := s.db.SelectContext(ctx, &requests, query, args...)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Storage) GetCustomerRequests(ctx context.Context, customerID int, limit, offset int) ([]models.Request, error) {
	query := `
        SELECT * FROM request
        WHERE customer_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	requests := []models.Request{}
	err := s.db.SelectContext(ctx, &requests, query, customerID, limit, offset)
	return requests, err
}

// AssignRequest records the accepted proposal on the parent request and
// moves it to assigned. Single-row update, no transaction with the
// proposal mutation.
func (s *Storage) AssignRequest(ctx context.Context, requestID, proposalID, designerID int, price float64) error {
	query := `
        UPDATE request
        SET status=$1, accepted_proposal_id=$2, accepted_price=$3, designer_id=$4
        WHERE id=$5`
	_, err := s.db.ExecContext(ctx, query,
		models.RequestAssigned, proposalID, price, designerID, requestID)
	return err
}

// CompleteRequest is idempotent: re-running it leaves the row completed.
func (s *Storage) CompleteRequest(ctx context.Context, requestID int) error {
	query := `UPDATE request SET status=$1 WHERE id=$2`
	_, err := s.db.ExecContext(ctx, query, models.RequestCompleted, requestID)
	return err
}

// Proposals

func (s *Storage) CreateProposal(ctx context.Context, p *models.Proposal) error {
	query := `
        INSERT INTO proposal (request_id, designer_id, price, estimated_time, message, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	return s.db.QueryRowContext(ctx, query,
		p.RequestID, p.DesignerID, p.Price, p.EstimatedTime, p.Message, p.Status).
		Scan(&p.ID, &p.CreatedAt)
}

func (s *Storage) GetProposal(ctx context.Context, id int) (*models.Proposal, error) {
	p := &models.Proposal{}
	query := `SELECT * FROM proposal WHERE id=$1`
	err := s.db.GetContext(ctx, p, query, id)
	return p, err
}

func (s *Storage) GetProposals(ctx context.Context, requestID, designerID int, limit, offset int) ([]models.Proposal, error) {
	baseQuery := `SELECT * FROM proposal`
	var conds []string
	var args []interface{}

	if requestID > 0 {
		args = append(args, requestID)
		conds = append(conds, fmt.Sprintf("request_id = $%d", len(args)))
	}
	if designerID > 0 {
		args = append(args, designerID)
		conds = append(conds, fmt.Sprintf("designer_id = $%d", len(args)))
	}

	query := baseQuery
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	proposals := []models.Proposal{}
	err := s.db.SelectContext(ctx, &proposals, query, args...)
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

func (s *Storage) UpdateProposalStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE proposal SET status=$1 WHERE id=$2`
	_, err := s.db.ExecContext(ctx, query, status, id)
	return err
}

// Timeline

func (s *Storage) CreateTimelineEvent(ctx context.Context, e *models.TimelineEvent) error {
	query := `
        INSERT INTO timeline_event (request_id, status, message, payment_required, payment_amount)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, timestamp`
	return s.db.QueryRowContext(ctx, query,
		e.RequestID, e.Status, e.Message, e.PaymentRequired, e.PaymentAmount).
		Scan(&e.ID, &e.Timestamp)
}

// GetTimelineEvents orders by timestamp, not insertion order.
func (s *Storage) GetTimelineEvents(ctx context.Context, requestID int) ([]models.TimelineEvent, error) {
	query := `
        SELECT * FROM timeline_event
        WHERE request_id = $1
        ORDER BY timestamp ASC, id ASC`
	events := []models.TimelineEvent{}
	err := s.db.SelectContext(ctx, &events, query, requestID)
	return events, err
}

// Messages

func (s *Storage) CreateMessage(ctx context.Context, m *models.Message) error {
	query := `
        INSERT INTO message (sender_id, receiver_id, content, read)
        VALUES ($1, $2, $3, $4)
        RETURNING id, timestamp`
	return s.db.QueryRowContext(ctx, query,
		m.SenderID, m.ReceiverID, m.Content, m.Read).
		Scan(&m.ID, &m.Timestamp)
}

// GetConversation matches the pair in either direction, so the result is
// the same whichever account is passed first.
func (s *Storage) GetConversation(ctx context.Context, accountA, accountB int) ([]models.Message, error) {
	query := `
        SELECT * FROM message
        WHERE (sender_id = $1 AND receiver_id = $2)
           OR (sender_id = $2 AND receiver_id = $1)
        ORDER BY timestamp ASC, id ASC`
	messages := []models.Message{}
	err := s.db.SelectContext(ctx, &messages, query, accountA, accountB)
	return messages, err
}

// MarkConversationRead flags everything the partner sent to the receiver.
func (s *Storage) MarkConversationRead(ctx context.Context, receiverID, senderID int) (int64, error) {
	query := `
        UPDATE message SET read = TRUE
        WHERE receiver_id = $1 AND sender_id = $2 AND NOT read`
	res, err := s.db.ExecContext(ctx, query, receiverID, senderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
