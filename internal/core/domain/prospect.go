package domain

import (
	"errors"
	"time"
)

// ProspectStatus represents the pipeline stage of a prospect.
type ProspectStatus string

const (
	StatusNew              ProspectStatus = "new"
	StatusContacted        ProspectStatus = "contacted"
	StatusQualified        ProspectStatus = "qualified"
	StatusMeetingScheduled ProspectStatus = "meeting_scheduled"
	StatusPendingMandate   ProspectStatus = "pending_mandate"
	StatusWon              ProspectStatus = "won"
	StatusLost             ProspectStatus = "lost"
)

// Timeline buckets the urgency a prospect has expressed for their project.
type Timeline string

const (
	TimelineUrgent           Timeline = "urgent"
	TimelineOneMonth         Timeline = "one_month"
	TimelineUnderThreeMonths Timeline = "under_three_months"
	TimelineThreeMonths      Timeline = "three_months"
	TimelineSixMonths        Timeline = "six_months"
)

// Source identifies the acquisition channel a prospect came through.
type Source string

const (
	SourceReferral    Source = "referral"
	SourceWebsite     Source = "website"
	SourcePaidSearch  Source = "paid_search"
	SourcePaidSocial  Source = "paid_social"
	SourceDoorToDoor  Source = "door_to_door"
	SourceClassifieds Source = "classifieds"
)

var ErrProspectNotFound = errors.New("prospect not found")
var ErrSyncRunning = errors.New("score sync already running")

// Prospect is the core aggregate root: a sales lead owned by an agent.
//
// Score is a cache, not a source of truth. It is always in [0,100] and is
// recomputed from the other fields plus the current time whenever a field
// that feeds scoring changes.
type Prospect struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	AgentID        string         `json:"agent_id" bson:"agent_id"`
	Name           string         `json:"name" bson:"name"`
	Email          string         `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string         `json:"phone,omitempty" bson:"phone,omitempty"`
	Status         ProspectStatus `json:"status" bson:"status"`
	IsHotLead      bool           `json:"is_hot_lead" bson:"is_hot_lead"`
	Exclusive      bool           `json:"exclusive" bson:"exclusive"`
	Budget         float64        `json:"budget,omitempty" bson:"budget,omitempty"`
	EstimatedPrice float64        `json:"estimated_price,omitempty" bson:"estimated_price,omitempty"`
	Timeline       Timeline       `json:"timeline,omitempty" bson:"timeline,omitempty"`
	LastContactAt  *time.Time     `json:"last_contact_at,omitempty" bson:"last_contact_at,omitempty"`
	Source         Source         `json:"source,omitempty" bson:"source,omitempty"`
	ConsentGiven   bool           `json:"consent_given" bson:"consent_given"`
	CommissionRate float64        `json:"commission_rate,omitempty" bson:"commission_rate,omitempty"`
	Score          int            `json:"score" bson:"score"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}
