package ports

import (
	"context"

	"github.com/realtyflow/crm-system/internal/core/domain"
)

// ListProspectsFilter carries all query parameters for listing prospects.
// AgentID is always enforced by the service layer (RBAC): empty means no
// owner filter (operator/admin), non-empty scopes the query to that agent.
type ListProspectsFilter struct {
	AgentID string
	Status  string // optional: filter by pipeline status
	Source  string // optional: filter by acquisition channel
	Page    int    // 1-based
	Limit   int    // max rows per page (capped at 100 by service)
}

// ProspectRepository defines persistence operations for prospects.
type ProspectRepository interface {
	Create(ctx context.Context, p *domain.Prospect) error
	// FindByID retrieves a prospect. When agentID is non-empty, the query is
	// additionally filtered by agent_id (for RBAC).
	FindByID(ctx context.Context, id string, agentID string) (*domain.Prospect, error)
	// List returns a page of prospects matching filter, sorted by score
	// descending, and the total count.
	List(ctx context.Context, filter ListProspectsFilter) ([]*domain.Prospect, int64, error)
	// ListAll streams every prospect; used by the score synchronizer.
	ListAll(ctx context.Context) ([]*domain.Prospect, error)
	Update(ctx context.Context, p *domain.Prospect) error
	// UpdateScore persists only the cached score of one prospect.
	UpdateScore(ctx context.Context, id string, score int) error
}
