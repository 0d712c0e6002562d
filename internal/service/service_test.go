package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin/access/internal/access"
	"admin/access/internal/domain"
	"admin/access/internal/domain/task"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	modes []domain.AccessMode
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, r access.Router, mode domain.AccessMode, roles []string) (*domain.Access, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.modes = append(g.modes, mode)
	if g.err != nil {
		return nil, g.err
	}

	route := domain.RouteNode{Name: "Dashboard", Path: "/dashboard", Meta: domain.Meta{Title: "Dashboard"}}
	r.AddRoute(route)

	return &domain.Access{
		Routes: []domain.RouteNode{route},
		Menus: []domain.MenuDisplayNode{{
			Name:     "Dashboard",
			Path:     "/dashboard",
			Show:     true,
			Children: []domain.MenuDisplayNode{},
		}},
	}, nil
}

type fakeState struct {
	mu      sync.Mutex
	checked map[string]bool
	access  map[string]*domain.Access
	codes   map[string][]string
}

func newFakeState() *fakeState {
	return &fakeState{
		checked: map[string]bool{},
		access:  map[string]*domain.Access{},
		codes:   map[string][]string{},
	}
}

func (s *fakeState) IsAccessChecked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked[id], nil
}

func (s *fakeState) SaveAccess(_ context.Context, id string, a *domain.Access) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access[id] = a
	s.checked[id] = true
	return nil
}

func (s *fakeState) LoadAccess(_ context.Context, id string) (*domain.Access, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.access[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return a, nil
}

func (s *fakeState) SetAccessCodes(_ context.Context, id string, codes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[id] = codes
	return nil
}

func (s *fakeState) GetAccessCodes(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[id], nil
}

func (s *fakeState) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checked, id)
	delete(s.access, id)
	delete(s.codes, id)
	return nil
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []task.Task
	acked []string
}

func (q *fakeQueue) AddTask(_ context.Context, t task.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return "1-0", nil
}

func (q *fakeQueue) GetTask(ctx context.Context, _, _, _ string) (*redis.XMessage, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (q *fakeQueue) AckTask(_ context.Context, stream, _, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, stream+"/"+msgID)
	return nil
}

func (q *fakeQueue) CreateGroup(context.Context, string, string) error { return nil }

func (q *fakeQueue) AutoClaim(context.Context, string, string, string, time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) EnsureStreamsExist(context.Context) error { return nil }

func (q *fakeQueue) StreamName(taskType string) string { return "test:" + taskType }

func newTestService(gen *fakeGenerator) (*Service, *fakeState, *fakeQueue) {
	st := newFakeState()
	q := &fakeQueue{}
	core := []domain.RouteNode{{Name: "Login", Path: "/auth/login"}}
	return NewService(gen, q, st, core, domain.AccessModeBackend, nil, "group", 0), st, q
}

func TestService_Access_GeneratesOnce(t *testing.T) {
	gen := &fakeGenerator{}
	svc, st, _ := newTestService(gen)
	ctx := context.Background()

	first, err := svc.Access(ctx, "s1", []string{"admin"})
	require.NoError(t, err)
	require.Len(t, first.Menus, 1)

	second, err := svc.Access(ctx, "s1", []string{"admin"})
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Same(t, first, second)
	assert.True(t, st.checked["s1"])
}

func TestService_Access_Concurrent(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _, _ := newTestService(gen)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Access(context.Background(), "s1", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, gen.calls)
}

func TestService_Access_ErrorNotCached(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrMenuFetch}
	svc, st, _ := newTestService(gen)

	_, err := svc.Access(context.Background(), "s1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMenuFetch))
	assert.False(t, st.checked["s1"])

	gen.err = nil
	_, err = svc.Access(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestService_ResetForcesRegeneration(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _, _ := newTestService(gen)
	ctx := context.Background()

	_, err := svc.Access(ctx, "s1", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "s1"))
	_, err = svc.Access(ctx, "s1", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls)
}

func TestService_Refresh_UsesRequestedMode(t *testing.T) {
	gen := &fakeGenerator{}
	svc, _, _ := newTestService(gen)
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "s1", nil, "")
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, "s1", nil, domain.AccessModeFrontend)
	require.NoError(t, err)

	assert.Equal(t, []domain.AccessMode{domain.AccessModeBackend, domain.AccessModeFrontend}, gen.modes)
}

func TestService_MenuByPath(t *testing.T) {
	svc, _, _ := newTestService(&fakeGenerator{})
	ctx := context.Background()

	_, _, err := svc.MenuByPath(ctx, "s1", "/dashboard")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.Access(ctx, "s1", nil)
	require.NoError(t, err)

	menu, ok, err := svc.MenuByPath(ctx, "s1", "/dashboard")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Dashboard", menu.Name)

	_, ok, err = svc.MenuByPath(ctx, "s1", "/missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_AccessCodes(t *testing.T) {
	svc, _, _ := newTestService(&fakeGenerator{})
	ctx := context.Background()

	require.NoError(t, svc.SetAccessCodes(ctx, "s1", []string{"AC_100100", "AC_100110"}))

	tests := []struct {
		name  string
		codes []string
		want  bool
	}{
		{"one matches", []string{"AC_100110", "AC_1"}, true},
		{"none match", []string{"AC_1"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.HasAccessByCodes(ctx, "s1", tt.codes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Enqueue(t *testing.T) {
	svc, _, q := newTestService(&fakeGenerator{})
	ctx := context.Background()

	_, err := svc.EnqueueRefresh(ctx, "s1", []string{"admin"}, domain.AccessModeFrontend)
	require.NoError(t, err)
	_, err = svc.EnqueueReset(ctx, "s1")
	require.NoError(t, err)

	require.Len(t, q.tasks, 2)
	assert.Equal(t, &task.RefreshAccessTask{SessionID: "s1", Roles: []string{"admin"}, Mode: "frontend"}, q.tasks[0])
	assert.Equal(t, &task.ResetAccessTask{SessionID: "s1"}, q.tasks[1])
}

func message(t *testing.T, id string, tk task.Task) *redis.XMessage {
	t.Helper()
	data, err := tk.TaskValue()
	require.NoError(t, err)
	return &redis.XMessage{
		ID: id,
		Values: map[string]interface{}{
			"task_type": tk.TaskType(),
			"task_data": string(data),
		},
	}
}

func TestService_ProcessMessage(t *testing.T) {
	gen := &fakeGenerator{}
	svc, st, q := newTestService(gen)
	ctx := context.Background()

	err := svc.processMessage(ctx, message(t, "1-0", &task.RefreshAccessTask{SessionID: "s1", Mode: "frontend"}))
	require.NoError(t, err)
	assert.True(t, st.checked["s1"])
	assert.Equal(t, []domain.AccessMode{domain.AccessModeFrontend}, gen.modes)

	err = svc.processMessage(ctx, message(t, "2-0", &task.ResetAccessTask{SessionID: "s1"}))
	require.NoError(t, err)
	assert.False(t, st.checked["s1"])

	// an invalid mode can never succeed, so the task is acked and dropped
	err = svc.processMessage(ctx, message(t, "3-0", &task.RefreshAccessTask{SessionID: "s1", Mode: "hybrid"}))
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)

	assert.Equal(t, []string{
		"test:RefreshAccessTask/1-0",
		"test:ResetAccessTask/2-0",
		"test:RefreshAccessTask/3-0",
	}, q.acked)
}

func TestService_ProcessMessage_FailureNotAcked(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend down")}
	svc, _, q := newTestService(gen)

	err := svc.processMessage(context.Background(), message(t, "1-0", &task.RefreshAccessTask{SessionID: "s1"}))
	require.Error(t, err)
	assert.Empty(t, q.acked)

	err = svc.processMessage(context.Background(), &redis.XMessage{ID: "2-0", Values: map[string]interface{}{
		"task_type": "UnknownTask",
		"task_data": "{}",
	}})
	assert.Error(t, err)
}

func TestService_RunWorkers_StopsOnCancel(t *testing.T) {
	svc, _, _ := newTestService(&fakeGenerator{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunWorkers(ctx, 2) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestService_Refresh_KeepsAccessCodes(t *testing.T) {
	svc, _, _ := newTestService(&fakeGenerator{})
	ctx := context.Background()

	require.NoError(t, svc.SetAccessCodes(ctx, "s1", []string{"AC_100"}))
	_, err := svc.Access(ctx, "s1", nil)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, "s1", nil, "")
	require.NoError(t, err)

	allowed, err := svc.HasAccessByCodes(ctx, "s1", []string{"AC_100"})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestService_Refresh_FailureKeepsCachedAccess(t *testing.T) {
	gen := &fakeGenerator{}
	svc, st, _ := newTestService(gen)
	ctx := context.Background()

	first, err := svc.Access(ctx, "s1", nil)
	require.NoError(t, err)

	gen.err = errors.New("menu api down")
	_, err = svc.Refresh(ctx, "s1", nil, "")
	require.Error(t, err)
	assert.True(t, st.checked["s1"])

	cached, err := svc.Access(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Same(t, first, cached)
	assert.Equal(t, 2, gen.calls)
}

func TestService_Access_ManySessions(t *testing.T) {
	gen := &fakeGenerator{}
	svc, st, _ := newTestService(gen)

	// more sessions than lock stripes
	const sessions = sessionLockStripes * 3
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := svc.Access(context.Background(), id, nil)
				assert.NoError(t, err)
			}(fmt.Sprintf("s%d", i))
		}
	}
	wg.Wait()

	assert.Equal(t, sessions, gen.calls)
	assert.Len(t, st.checked, sessions)
}
