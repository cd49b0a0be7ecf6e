package handler

import "time"

type createProspectRequest struct {
	Name           string     `json:"name" validate:"required"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Phone          string     `json:"phone"`
	Status         string     `json:"status" validate:"omitempty,oneof=new contacted qualified meeting_scheduled pending_mandate won lost"`
	IsHotLead      bool       `json:"is_hot_lead"`
	Exclusive      bool       `json:"exclusive"`
	Budget         float64    `json:"budget" validate:"gte=0"`
	EstimatedPrice float64    `json:"estimated_price" validate:"gte=0"`
	Timeline       string     `json:"timeline" validate:"omitempty,oneof=urgent one_month under_three_months three_months six_months"`
	LastContactAt  *time.Time `json:"last_contact_at"`
	Source         string     `json:"source" validate:"omitempty,oneof=referral website paid_search paid_social door_to_door classifieds"`
	ConsentGiven   bool       `json:"consent_given"`
	CommissionRate float64    `json:"commission_rate" validate:"gte=0,lte=1"`
}

type updateProspectRequest struct {
	// AgentID is read by the guard's ownership gate before binding; it is
	// never applied as an update (prospects do not change owner here).
	AgentID        *string    `json:"agent_id"`
	Status         *string    `json:"status" validate:"omitempty,oneof=new contacted qualified meeting_scheduled pending_mandate won lost"`
	IsHotLead      *bool      `json:"is_hot_lead"`
	Exclusive      *bool      `json:"exclusive"`
	Budget         *float64   `json:"budget" validate:"omitempty,gte=0"`
	EstimatedPrice *float64   `json:"estimated_price" validate:"omitempty,gte=0"`
	Timeline       *string    `json:"timeline" validate:"omitempty,oneof=urgent one_month under_three_months three_months six_months"`
	LastContactAt  *time.Time `json:"last_contact_at"`
	Source         *string    `json:"source" validate:"omitempty,oneof=referral website paid_search paid_social door_to_door classifieds"`
	ConsentGiven   *bool      `json:"consent_given"`
	CommissionRate *float64   `json:"commission_rate" validate:"omitempty,gte=0,lte=1"`
}

type prospectResponse struct {
	ID             string     `json:"id"`
	AgentID        string     `json:"agent_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Status         string     `json:"status"`
	IsHotLead      bool       `json:"is_hot_lead"`
	Exclusive      bool       `json:"exclusive"`
	Budget         float64    `json:"budget,omitempty"`
	EstimatedPrice float64    `json:"estimated_price,omitempty"`
	Timeline       string     `json:"timeline,omitempty"`
	LastContactAt  *time.Time `json:"last_contact_at,omitempty"`
	Source         string     `json:"source,omitempty"`
	ConsentGiven   bool       `json:"consent_given"`
	CommissionRate float64    `json:"commission_rate,omitempty"`
	Score          int        `json:"score"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type listProspectsResponse struct {
	Items      []prospectResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
