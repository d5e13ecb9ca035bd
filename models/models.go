package models

import "time"

// Account roles.
const (
	RoleCustomer = "customer"
	RoleDesigner = "designer"
)

// Request lifecycle. Transitions are forward-only:
// open -> assigned (proposal accepted) -> completed (delivered event).
const (
	RequestOpen      = "open"
	RequestAssigned  = "assigned"
	RequestCompleted = "completed"
)

// Proposal lifecycle. A proposal is decided at most once.
const (
	ProposalPending  = "pending"
	ProposalAccepted = "accepted"
	ProposalRejected = "rejected"
)

// Canonical timeline statuses in display order. The column itself is an
// open string set so schema revisions can add stages; only TimelineDelivered
// carries a side effect on the parent request.
const (
	TimelineDesign     = "design"
	TimelineMaterial   = "material"
	TimelineProduction = "production"
	TimelineQuality    = "quality"
	TimelineShipping   = "shipping"
	TimelineDelivered  = "delivered"
)

// Registered user, either a customer posting requests or a designer
// bidding on them. Role is immutable after registration.
type Account struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name" validate:"required,max=100"`
	Email        string    `db:"email" json:"email" validate:"required,email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role" validate:"required,oneof=customer designer"`
	ProfileImage *string   `db:"profile_image" json:"profileImage,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// A customer's posted specification for a custom fashion item.
type Request struct {
	ID                 int       `db:"id" json:"id"`
	CustomerID         int       `db:"customer_id" json:"customerId"`
	Title              string    `db:"title" json:"title" validate:"required,max=100"`
	Description        string    `db:"description" json:"description" validate:"required,max=2000"`
	Material           string    `db:"material" json:"material" validate:"required,max=100"`
	Budget             *float64  `db:"budget" json:"budget,omitempty"`
	Timeframe          *string   `db:"timeframe" json:"timeframe,omitempty"`
	Size               *string   `db:"size" json:"size,omitempty"`
	AdditionalDetails  *string   `db:"additional_details" json:"additionalDetails,omitempty"`
	Status             string    `db:"status" json:"status"`
	AcceptedProposalID *int      `db:"accepted_proposal_id" json:"acceptedProposalId,omitempty"`
	AcceptedPrice      *float64  `db:"accepted_price" json:"acceptedPrice,omitempty"`
	DesignerID         *int      `db:"designer_id" json:"designerId,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
}

// A designer's bid against a request. Several proposals per request are
// allowed, including several from the same designer.
type Proposal struct {
	ID            int       `db:"id" json:"id"`
	RequestID     int       `db:"request_id" json:"requestId" validate:"required"`
	DesignerID    int       `db:"designer_id" json:"designerId"`
	Price         float64   `db:"price" json:"price" validate:"required,gt=0"`
	EstimatedTime string    `db:"estimated_time" json:"estimatedTime" validate:"required,max=100"`
	Message       string    `db:"message" json:"message" validate:"required,max=2000"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Append-only production-status update tied to a request. Timestamp is
// server-assigned; reads are ordered by it, not by insertion.
type TimelineEvent struct {
	ID              int       `db:"id" json:"id"`
	RequestID       int       `db:"request_id" json:"requestId"`
	Status          string    `db:"status" json:"status" validate:"required,max=50"`
	Message         string    `db:"message" json:"message" validate:"required,max=2000"`
	PaymentRequired bool      `db:"payment_required" json:"paymentRequired"`
	PaymentAmount   *float64  `db:"payment_amount" json:"paymentAmount,omitempty"`
	Timestamp       time.Time `db:"timestamp" json:"timestamp"`
}

// Directed chat message. A conversation is the unordered pair of accounts.
type Message struct {
	ID         int       `db:"id" json:"id"`
	SenderID   int       `db:"sender_id" json:"senderId"`
	ReceiverID int       `db:"receiver_id" json:"receiverId"`
	Content    string    `db:"content" json:"content" validate:"required,max=2000"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Read       bool      `db:"read" json:"read"`
}
