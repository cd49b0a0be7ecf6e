package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/realtyflow/crm-system/internal/core/domain"
	"github.com/realtyflow/crm-system/internal/core/ports"
	"github.com/realtyflow/crm-system/internal/core/scoring"
)

const maxPageLimit = 100

// RescoreQueue abstracts the asynchronous rescore dispatcher. Mutations that
// affect scoring enqueue the prospect id; workers call Rescore later.
type RescoreQueue interface {
	Enqueue(prospectID string)
}

type ProspectService struct {
	repo    ports.ProspectRepository
	engine  scoring.Engine
	rescore RescoreQueue
	logger  zerolog.Logger
}

// NewProspectService builds a ProspectService. rescore may be nil, in which
// case updates recompute the score synchronously.
func NewProspectService(repo ports.ProspectRepository, engine scoring.Engine, rescore RescoreQueue, logger zerolog.Logger) *ProspectService {
	return &ProspectService{repo: repo, engine: engine, rescore: rescore, logger: logger}
}

// SetRescoreQueue wires the rescore queue after construction. The dispatcher
// needs the service as its worker target, so the two are tied together in a
// second step. Call before serving requests.
func (s *ProspectService) SetRescoreQueue(q RescoreQueue) {
	s.rescore = q
}

// CreateProspect persists a new prospect owned by input.AgentID with its
// initial score already computed.
func (s *ProspectService) CreateProspect(ctx context.Context, input ports.CreateProspectInput) (*domain.Prospect, error) {
	now := time.Now().UTC()
	status := domain.ProspectStatus(input.Status)
	if status == "" {
		status = domain.StatusNew
	}

	p := &domain.Prospect{
		AgentID:        input.AgentID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Status:         status,
		IsHotLead:      input.IsHotLead,
		Exclusive:      input.Exclusive,
		Budget:         input.Budget,
		EstimatedPrice: input.EstimatedPrice,
		Timeline:       domain.Timeline(input.Timeline),
		LastContactAt:  input.LastContactAt,
		Source:         domain.Source(input.Source),
		ConsentGiven:   input.ConsentGiven,
		CommissionRate: input.CommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	p.Score = s.engine.Score(*p)

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("agent_id", input.AgentID).Msg("failed to create prospect")
		return nil, err
	}

	s.logger.Info().
		Str("prospect_id", p.ID).
		Str("agent_id", p.AgentID).
		Int("score", p.Score).
		Msg("prospect created")

	return p, nil
}

// GetProspect retrieves one prospect, scoping the lookup to the acting
// agent's own records unless the caller is an operator or admin.
func (s *ProspectService) GetProspect(ctx context.Context, input ports.GetProspectInput) (*domain.Prospect, error) {
	ownerFilter := ""
	if input.Role == domain.RoleAgent {
		ownerFilter = input.AgentID
	}

	p, err := s.repo.FindByID(ctx, input.ID, ownerFilter)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProspects returns a page of prospects sorted by score descending.
// Agents are scoped to their own prospects regardless of the filter they ask
// for; operators and admins see everything.
func (s *ProspectService) ListProspects(ctx context.Context, input ports.ListProspectsInput) (*ports.ListProspectsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListProspectsFilter{
		Status: input.Status,
		Source: input.Source,
		Page:   page,
		Limit:  limit,
	}
	if input.Role == domain.RoleAgent {
		filter.AgentID = input.AgentID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list prospects")
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListProspectsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateProspect applies a partial update. Non-admin actors may only touch
// prospects they own. Any change re-triggers scoring, asynchronously when a
// rescore queue is wired, synchronously otherwise.
func (s *ProspectService) UpdateProspect(ctx context.Context, actor *domain.User, input ports.UpdateProspectInput) (*domain.Prospect, error) {
	ownerFilter := ""
	if actor != nil && actor.Role == domain.RoleAgent {
		ownerFilter = actor.ID
	}

	p, err := s.repo.FindByID(ctx, input.ID, ownerFilter)
	if err != nil {
		return nil, err
	}

	applyUpdate(p, input)
	p.UpdatedAt = time.Now().UTC()

	if s.rescore == nil {
		p.Score = s.engine.Score(*p)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("prospect_id", p.ID).Msg("failed to update prospect")
		return nil, err
	}

	if s.rescore != nil {
		s.rescore.Enqueue(p.ID)
	}

	s.logger.Info().Str("prospect_id", p.ID).Msg("prospect updated")
	return p, nil
}

// Rescore recomputes one prospect's score and persists it only when it
// differs from the cached value.
func (s *ProspectService) Rescore(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id, "")
	if err != nil {
		return fmt.Errorf("rescore %s: %w", id, err)
	}

	fresh := s.engine.Score(*p)
	if fresh == p.Score {
		return nil
	}

	if err := s.repo.UpdateScore(ctx, id, fresh); err != nil {
		return fmt.Errorf("rescore %s: persist score: %w", id, err)
	}

	s.logger.Debug().
		Str("prospect_id", id).
		Int("old_score", p.Score).
		Int("new_score", fresh).
		Msg("prospect rescored")

	return nil
}

func applyUpdate(p *domain.Prospect, in ports.UpdateProspectInput) {
	if in.Status != nil {
		p.Status = domain.ProspectStatus(*in.Status)
	}
	if in.IsHotLead != nil {
		p.IsHotLead = *in.IsHotLead
	}
	if in.Exclusive != nil {
		p.Exclusive = *in.Exclusive
	}
	if in.Budget != nil {
		p.Budget = *in.Budget
	}
	if in.EstimatedPrice != nil {
		p.EstimatedPrice = *in.EstimatedPrice
	}
	if in.Timeline != nil {
		p.Timeline = domain.Timeline(*in.Timeline)
	}
	if in.LastContactAt != nil {
		p.LastContactAt = in.LastContactAt
	}
	if in.Source != nil {
		p.Source = domain.Source(*in.Source)
	}
	if in.ConsentGiven != nil {
		p.ConsentGiven = *in.ConsentGiven
	}
	if in.CommissionRate != nil {
		p.CommissionRate = *in.CommissionRate
	}
}
