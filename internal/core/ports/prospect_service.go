package ports

import (
	"context"
	"time"

	"github.com/realtyflow/crm-system/internal/core/domain"
)

// CreateProspectInput carries all data needed to create a new prospect.
// The initial score is computed by the service at creation time.
type CreateProspectInput struct {
	AgentID        string
	Name           string
	Email          string
	Phone          string
	Status         string
	IsHotLead      bool
	Exclusive      bool
	Budget         float64
	EstimatedPrice float64
	Timeline       string
	LastContactAt  *time.Time
	Source         string
	ConsentGiven   bool
	CommissionRate float64
}

// UpdateProspectInput carries a partial update. Nil pointers leave the
// corresponding field untouched. Any applied change re-triggers scoring.
type UpdateProspectInput struct {
	ID             string
	Status         *string
	IsHotLead      *bool
	Exclusive      *bool
	Budget         *float64
	EstimatedPrice *float64
	Timeline       *string
	LastContactAt  *time.Time
	Source         *string
	ConsentGiven   *bool
	CommissionRate *float64
}

// GetProspectInput carries the parameters needed to retrieve one prospect.
// Role and AgentID enforce RBAC: agents only see their own prospects.
type GetProspectInput struct {
	ID      string
	Role    string
	AgentID string
}

// ListProspectsInput carries all parameters for the list endpoint.
type ListProspectsInput struct {
	Role    string
	AgentID string
	Status  string
	Source  string
	Page    int
	Limit   int
}

// ListProspectsResult is returned by ListProspects.
type ListProspectsResult struct {
	Items      []*domain.Prospect
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProspectService defines use-case operations for prospects.
type ProspectService interface {
	CreateProspect(ctx context.Context, input CreateProspectInput) (*domain.Prospect, error)
	GetProspect(ctx context.Context, input GetProspectInput) (*domain.Prospect, error)
	ListProspects(ctx context.Context, input ListProspectsInput) (*ListProspectsResult, error)
	UpdateProspect(ctx context.Context, actor *domain.User, input UpdateProspectInput) (*domain.Prospect, error)
	// Rescore recomputes one prospect's cached score and persists it when it
	// changed. Invoked by the rescore queue workers.
	Rescore(ctx context.Context, id string) error
}

// SyncReport summarises one score synchronization pass.
type SyncReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// ScoreSyncService recomputes and reconciles cached scores in batch.
type ScoreSyncService interface {
	Run(ctx context.Context) (*SyncReport, error)
}
