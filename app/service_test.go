package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lessonbird/timetable/config"
	"github.com/lessonbird/timetable/core/admission"
	"github.com/lessonbird/timetable/core/model"
	"github.com/lessonbird/timetable/infra/store"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Store:     config.StoreConfig{Backend: "memory"},
		Decisions: config.DecisionsConfig{Backend: "none"},
		Subjects: []config.SubjectConfig{
			{ID: "math", Name: "Mathematics", Priority: 1},
			{ID: "physics", Name: "Physics", Priority: 3},
			{ID: "art", Name: "Art", Priority: 1, CanCoRun: true},
			{ID: "music", Name: "Music", Priority: 1, CanCoRun: true},
		},
	}
	cfg.API.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	return cfg
}

func candidate(subject string) model.Placement {
	return model.Placement{
		SchoolID:  "sch-1",
		TermID:    "t-1",
		Day:       model.Monday,
		PeriodID:  "p1",
		ClassID:   "5a",
		SubjectID: subject,
		TeacherID: "t-" + subject,
	}
}

func TestServiceAdmitEvictsLowerPriority(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	math, _, err := svc.Admit(ctx, candidate("math"))
	require.NoError(t, err)
	require.NotEmpty(t, math.ID)

	physics, evicted, err := svc.Admit(ctx, candidate("physics"))
	require.NoError(t, err)
	assert.Equal(t, []string{math.ID}, evicted)

	placements, err := svc.List(ctx, "sch-1", "t-1")
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, physics.ID, placements[0].ID)
}

func TestServiceAdmitRejectsEqualPriority(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	_, _, err = svc.Admit(ctx, candidate("math"))
	require.NoError(t, err)

	c := candidate("math")
	c.TeacherID = "t-other"
	_, _, err = svc.Admit(ctx, c)
	require.Error(t, err)
	assert.Equal(t, admission.KindPriorityConflict, admission.KindOf(err))

	placements, err := svc.List(ctx, "sch-1", "t-1")
	require.NoError(t, err)
	assert.Len(t, placements, 1)
}

func TestServiceRemove(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	p, _, err := svc.Admit(ctx, candidate("math"))
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, removed.ID)

	_, err = svc.Remove(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// staleOnceStore forces the first Apply to report a stale snapshot so the
// retry loop can be observed.
type staleOnceStore struct {
	store.Store
	mu    sync.Mutex
	fired bool
}

func (s *staleOnceStore) Apply(ctx context.Context, schoolID, termID string, version uint64, deleteIDs []string, insert model.Placement) error {
	s.mu.Lock()
	first := !s.fired
	s.fired = true
	s.mu.Unlock()
	if first {
		return store.ErrStaleSnapshot
	}
	return s.Store.Apply(ctx, schoolID, termID, version, deleteIDs, insert)
}

func TestServiceAdmitRetriesStaleSnapshot(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer svc.Close()
	svc.store = &staleOnceStore{Store: svc.store}
	ctx := context.Background()

	p, _, err := svc.Admit(ctx, candidate("math"))
	require.NoError(t, err)

	placements, err := svc.List(ctx, "sch-1", "t-1")
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, p.ID, placements[0].ID)
}

func TestServiceCoRunSubjectsCannotShareRoom(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	first := candidate("art")
	first.RoomID = "room-7"
	_, _, err = svc.Admit(ctx, first)
	require.NoError(t, err)

	second := candidate("music")
	second.RoomID = "room-7"
	_, _, err = svc.Admit(ctx, second)
	require.Error(t, err)
	assert.Equal(t, admission.KindLocationConflict, admission.KindOf(err))
}

func TestServiceCoRunSubjectsShareSlot(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	_, _, err = svc.Admit(ctx, candidate("art"))
	require.NoError(t, err)
	_, evicted, err := svc.Admit(ctx, candidate("music"))
	require.NoError(t, err)
	assert.Empty(t, evicted)

	placements, err := svc.List(ctx, "sch-1", "t-1")
	require.NoError(t, err)
	assert.Len(t, placements, 2)
}
