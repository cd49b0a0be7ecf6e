package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/realtyflow/crm-system/internal/core/domain"
	"github.com/realtyflow/crm-system/internal/core/ports"
	"github.com/realtyflow/crm-system/internal/core/scoring"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubProspectRepo struct {
	byID           map[string]*domain.Prospect
	nextID         int
	updateScoreErr map[string]error // per-prospect UpdateScore failures
	listAllErr     error
	scoreWrites    int
}

func newStubProspectRepo() *stubProspectRepo {
	return &stubProspectRepo{
		byID:           make(map[string]*domain.Prospect),
		updateScoreErr: make(map[string]error),
	}
}

func (r *stubProspectRepo) Create(_ context.Context, p *domain.Prospect) error {
	r.nextID++
	p.ID = fmt.Sprintf("p%d", r.nextID)
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProspectRepo) FindByID(_ context.Context, id, agentID string) (*domain.Prospect, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProspectNotFound
	}
	// Enforce owner filter (mirrors the real Mongo query)
	if agentID != "" && p.AgentID != agentID {
		return nil, domain.ErrProspectNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProspectRepo) List(_ context.Context, f ports.ListProspectsFilter) ([]*domain.Prospect, int64, error) {
	var matched []*domain.Prospect
	for _, p := range r.byID {
		if f.AgentID != "" && p.AgentID != f.AgentID {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.Source != "" && string(p.Source) != f.Source {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubProspectRepo) ListAll(_ context.Context) ([]*domain.Prospect, error) {
	if r.listAllErr != nil {
		return nil, r.listAllErr
	}
	var all []*domain.Prospect
	for _, p := range r.byID {
		clone := *p
		all = append(all, &clone)
	}
	return all, nil
}

func (r *stubProspectRepo) Update(_ context.Context, p *domain.Prospect) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrProspectNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProspectRepo) UpdateScore(_ context.Context, id string, score int) error {
	if err := r.updateScoreErr[id]; err != nil {
		return err
	}
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProspectNotFound
	}
	p.Score = score
	r.scoreWrites++
	return nil
}

// ---------------------------------------------------------------------------

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedEngine() scoring.Engine {
	return scoring.NewEngine(func() time.Time { return fixedNow })
}

func newTestProspectService(repo *stubProspectRepo) *ProspectService {
	return NewProspectService(repo, fixedEngine(), nil, zerolog.Nop())
}

func TestProspectService_Create_ComputesInitialScore(t *testing.T) {
	repo := newStubProspectRepo()
	svc := newTestProspectService(repo)

	p, err := svc.CreateProspect(context.Background(), ports.CreateProspectInput{
		AgentID:   "agent-1",
		Name:      "Marie Dupont",
		IsHotLead: true,
		Source:    string(domain.SourceReferral),
	})
	if err != nil {
		t.Fatalf("CreateProspect returned error: %v", err)
	}
	// base 30 + new 10 + hot 25 + referral 15 = 80
	if p.Score != 80 {
		t.Fatalf("initial score = %d, want 80", p.Score)
	}
	if p.Status != domain.StatusNew {
		t.Fatalf("default status = %s, want new", p.Status)
	}
	if p.AgentID != "agent-1" {
		t.Fatalf("agent id = %s, want agent-1", p.AgentID)
	}
}

func TestProspectService_Get_AgentScopedToOwnProspects(t *testing.T) {
	repo := newStubProspectRepo()
	svc := newTestProspectService(repo)

	created, err := svc.CreateProspect(context.Background(), ports.CreateProspectInput{
		AgentID: "agent-1",
		Name:    "Jean Martin",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Owner sees it.
	if _, err := svc.GetProspect(context.Background(), ports.GetProspectInput{
		ID: created.ID, Role: domain.RoleAgent, AgentID: "agent-1",
	}); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}

	// Another agent does not.
	if _, err := svc.GetProspect(context.Background(), ports.GetProspectInput{
		ID: created.ID, Role: domain.RoleAgent, AgentID: "agent-2",
	}); !errors.Is(err, domain.ErrProspectNotFound) {
		t.Fatalf("expected not-found for foreign agent, got %v", err)
	}

	// Operators see everything.
	if _, err := svc.GetProspect(context.Background(), ports.GetProspectInput{
		ID: created.ID, Role: domain.RoleOperator, AgentID: "op-1",
	}); err != nil {
		t.Fatalf("operator get failed: %v", err)
	}
}

func TestProspectService_List_AgentFilterForced(t *testing.T) {
	repo := newStubProspectRepo()
	svc := newTestProspectService(repo)

	for _, agent := range []string{"agent-1", "agent-1", "agent-2"} {
		if _, err := svc.CreateProspect(context.Background(), ports.CreateProspectInput{
			AgentID: agent, Name: "x",
		}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	res, err := svc.ListProspects(context.Background(), ports.ListProspectsInput{
		Role: domain.RoleAgent, AgentID: "agent-1",
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("agent list total = %d, want 2", res.Total)
	}

	res, err = svc.ListProspects(context.Background(), ports.ListProspectsInput{
		Role: domain.RoleOperator, AgentID: "op-1",
	})
	if err != nil {
		t.Fatalf("operator list failed: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("operator list total = %d, want 3", res.Total)
	}
}

func TestProspectService_Update_RecomputesScoreSynchronously(t *testing.T) {
	repo := newStubProspectRepo()
	svc := newTestProspectService(repo)

	created, err := svc.CreateProspect(context.Background(), ports.CreateProspectInput{
		AgentID: "agent-1", Name: "x",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	hot := true
	actor := &domain.User{ID: "agent-1", Role: domain.RoleAgent}
	updated, err := svc.UpdateProspect(context.Background(), actor, ports.UpdateProspectInput{
		ID: created.ID, IsHotLead: &hot,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Score != created.Score+25 {
		t.Fatalf("score after hot flag = %d, want %d", updated.Score, created.Score+25)
	}
}

type recordingQueue struct {
	ids []string
}

func (q *recordingQueue) Enqueue(id string) { q.ids = append(q.ids, id) }

func TestProspectService_Update_EnqueuesRescoreWhenQueueWired(t *testing.T) {
	repo := newStubProspectRepo()
	svc := newTestProspectService(repo)
	q := &recordingQueue{}
	svc.SetRescoreQueue(q)

	created, err := svc.CreateProspect(context.Background(), ports.CreateProspectInput{
		AgentID: "agent-1", Name: "x",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := string(domain.StatusQualified)
	actor := &domain.User{ID: "agent-1", Role: domain.RoleAgent}
	if _, err := svc.UpdateProspect(context.Background(), actor, ports.UpdateProspectInput{
		ID: created.ID, Status: &status,
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(q.ids) != 1 || q.ids[0] != created.ID {
		t.Fatalf("rescore queue got %v, want [%s]", q.ids, created.ID)
	}
}

func TestProspectService_Update_ForeignAgentRejected(t *testing.T) {
	repo := newStubProspectRepo()
	svc := newTestProspectService(repo)

	created, err := svc.CreateProspect(context.Background(), ports.CreateProspectInput{
		AgentID: "agent-1", Name: "x",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	hot := true
	intruder := &domain.User{ID: "agent-2", Role: domain.RoleAgent}
	if _, err := svc.UpdateProspect(context.Background(), intruder, ports.UpdateProspectInput{
		ID: created.ID, IsHotLead: &hot,
	}); !errors.Is(err, domain.ErrProspectNotFound) {
		t.Fatalf("expected not-found for foreign agent update, got %v", err)
	}
}

func TestProspectService_Rescore_WritesOnlyWhenChanged(t *testing.T) {
	repo := newStubProspectRepo()
	svc := newTestProspectService(repo)

	created, err := svc.CreateProspect(context.Background(), ports.CreateProspectInput{
		AgentID: "agent-1", Name: "x",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Score is fresh, so nothing to persist.
	if err := svc.Rescore(context.Background(), created.ID); err != nil {
		t.Fatalf("rescore failed: %v", err)
	}
	if repo.scoreWrites != 0 {
		t.Fatalf("score writes = %d, want 0 for converged score", repo.scoreWrites)
	}

	// Stale the cache, then rescore must write.
	repo.byID[created.ID].Score = 1
	if err := svc.Rescore(context.Background(), created.ID); err != nil {
		t.Fatalf("rescore failed: %v", err)
	}
	if repo.scoreWrites != 1 {
		t.Fatalf("score writes = %d, want 1 after stale cache", repo.scoreWrites)
	}
}
