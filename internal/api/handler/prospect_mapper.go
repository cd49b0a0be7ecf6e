package handler

import (
	"github.com/realtyflow/crm-system/internal/core/domain"
)

// toProspectResponse maps the domain aggregate to the HTTP response shape.
func toProspectResponse(p *domain.Prospect) prospectResponse {
	return prospectResponse{
		ID:             p.ID,
		AgentID:        p.AgentID,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		Status:         string(p.Status),
		IsHotLead:      p.IsHotLead,
		Exclusive:      p.Exclusive,
		Budget:         p.Budget,
		EstimatedPrice: p.EstimatedPrice,
		Timeline:       string(p.Timeline),
		LastContactAt:  p.LastContactAt,
		Source:         string(p.Source),
		ConsentGiven:   p.ConsentGiven,
		CommissionRate: p.CommissionRate,
		Score:          p.Score,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toListResponse(items []*domain.Prospect) []prospectResponse {
	out := make([]prospectResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProspectResponse(p))
	}
	return out
}
