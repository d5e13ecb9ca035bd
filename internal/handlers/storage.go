package handlers

import (
	"context"

	"atelier/db"
	"atelier/models"
)

type StorageInterface interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccount(ctx context.Context, id int) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccounts(ctx context.Context, role string, limit, offset int) ([]models.Account, error)

	CreateRequest(ctx context.Context, r *models.Request) error
	GetRequest(ctx context.Context, id int) (*models.Request, error)
	GetRequests(ctx context.Context, f db.RequestFilter, limit, offset int) ([]models.Request, error)
	GetCustomerRequests(ctx context.Context, customerID int, limit, offset int) ([]models.Request, error)
	AssignRequest(ctx context.Context, requestID, proposalID, designerID int, price float64) error
	CompleteRequest(ctx context.Context, requestID int) error

	CreateProposal(ctx context.Context, p *models.Proposal) error
	GetProposal(ctx context.Context, id int) (*models.Proposal, error)
	GetProposals(ctx context.Context, requestID, designerID int, limit, offset int) ([]models.Proposal, error)
	UpdateProposalStatus(ctx context.Context, id int, status string) error

	CreateTimelineEvent(ctx context.Context, e *models.TimelineEvent) error
	GetTimelineEvents(ctx context.Context, requestID int) ([]models.TimelineEvent, error)

	CreateMessage(ctx context.Context, m *models.Message) error
	GetConversation(ctx context.Context, accountA, accountB int) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, receiverID, senderID int) (int64, error)
}
