// Package scoring computes the priority score used to rank prospects for
// follow-up. The score is a pure function of the prospect's attributes and
// the current time: a fixed base plus independent additive terms, rounded
// and clamped to [0,100]. Missing fields contribute zero to their term, so
// the function is total and never fails.
package scoring

import (
	"math"
	"time"

	"github.com/realtyflow/crm-system/internal/core/domain"
)

const (
	baseScore = 30
	minScore  = 0
	maxScore  = 100
)

// Clock supplies the current time. Injected so recency-based scoring is
// deterministic under test.
type Clock func() time.Time

// Engine scores prospects against an injected clock.
type Engine struct {
	now Clock
}

// NewEngine returns an Engine using the given clock, or time.Now when nil.
func NewEngine(now Clock) Engine {
	if now == nil {
		now = time.Now
	}
	return Engine{now: now}
}

// Score computes the prospect's priority score at the engine's current time.
func (e Engine) Score(p domain.Prospect) int {
	return Score(p, e.now())
}

// Score computes the priority score of p as of now.
func Score(p domain.Prospect, now time.Time) int {
	total := float64(baseScore) +
		statusPoints(p.Status) +
		hotLeadPoints(p.IsHotLead) +
		exclusivePoints(p.Exclusive) +
		valuePoints(p.Budget, p.EstimatedPrice) +
		timelinePoints(p.Timeline) +
		recencyPoints(p.LastContactAt, now) +
		sourcePoints(p.Source) +
		consentPoints(p.ConsentGiven) +
		commissionPoints(p.CommissionRate)

	return clamp(int(math.Round(total)))
}

func statusPoints(s domain.ProspectStatus) float64 {
	switch s {
	case domain.StatusWon:
		return 40
	case domain.StatusPendingMandate, domain.StatusMeetingScheduled:
		return 30
	case domain.StatusQualified, domain.StatusContacted:
		return 20
	case domain.StatusNew:
		return 10
	default:
		return 5
	}
}

func hotLeadPoints(hot bool) float64 {
	if hot {
		return 25
	}
	return 0
}

func exclusivePoints(exclusive bool) float64 {
	if exclusive {
		return 15
	}
	return 0
}

// valuePoints scores the monetary value of the project. Budget takes
// precedence over the estimated price; only the highest matching threshold
// applies.
func valuePoints(budget, estimatedPrice float64) float64 {
	value := budget
	if value == 0 {
		value = estimatedPrice
	}
	switch {
	case value > 800_000:
		return 20
	case value > 500_000:
		return 15
	case value > 300_000:
		return 10
	case value > 100_000:
		return 5
	default:
		return 0
	}
}

func timelinePoints(t domain.Timeline) float64 {
	switch t {
	case domain.TimelineUrgent, domain.TimelineOneMonth, domain.TimelineUnderThreeMonths:
		return 15
	case domain.TimelineThreeMonths:
		return 10
	case domain.TimelineSixMonths:
		return 5
	default:
		return 0
	}
}

// recencyPoints rewards recent contact and penalises prospects gone cold.
// Days elapsed are whole 24h buckets (floor). Prospects never contacted
// contribute nothing.
func recencyPoints(lastContact *time.Time, now time.Time) float64 {
	if lastContact == nil {
		return 0
	}
	days := int(now.Sub(*lastContact).Hours() / 24)
	switch {
	case days <= 1:
		return 10
	case days <= 3:
		return 7
	case days <= 7:
		return 5
	case days > 30:
		return -10
	default: // 8 to 30 days
		return 0
	}
}

func sourcePoints(s domain.Source) float64 {
	switch s {
	case domain.SourceReferral:
		return 15
	case domain.SourceDoorToDoor:
		return 12
	case domain.SourceWebsite:
		return 10
	case domain.SourcePaidSearch, domain.SourcePaidSocial:
		return 8
	case domain.SourceClassifieds:
		return 5
	default:
		return 0
	}
}

func consentPoints(consent bool) float64 {
	if consent {
		return 5
	}
	return 0
}

// commissionPoints scores the negotiated commission rate (a fraction,
// e.g. 0.04 for 4%); only the highest matching threshold applies.
func commissionPoints(rate float64) float64 {
	switch {
	case rate >= 0.05:
		return 10
	case rate >= 0.04:
		return 7
	case rate >= 0.03:
		return 5
	default:
		return 0
	}
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
