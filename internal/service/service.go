package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"admin/access/internal/access"
	"admin/access/internal/domain"
	"admin/access/internal/domain/task"
	"admin/access/internal/metric"
	"admin/access/internal/queue"
	"admin/access/internal/router"
	"admin/access/internal/state"
)

// Generator produces the access of one session on the router it is given.
type Generator interface {
	Generate(ctx context.Context, router access.Router, mode domain.AccessMode, roles []string) (*domain.Access, error)
}

// sessionLockStripes bounds the number of session locks; sessions hashing to
// the same stripe serialise against each other.
const sessionLockStripes = 64

type Service struct {
	generator    Generator
	queue        queue.Queue
	stateManager state.AccessStateManager
	coreRoutes   []domain.RouteNode
	mode         domain.AccessMode
	metrics      *metric.Metrics
	groupName    string
	minIdleTime  time.Duration

	locks [sessionLockStripes]sync.Mutex
}

func NewService(
	generator Generator,
	queue queue.Queue,
	stateManager state.AccessStateManager,
	coreRoutes []domain.RouteNode,
	mode domain.AccessMode,
	metrics *metric.Metrics,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		generator:    generator,
		queue:        queue,
		stateManager: stateManager,
		coreRoutes:   coreRoutes,
		mode:         mode,
		metrics:      metrics,
		groupName:    groupName,
		minIdleTime:  time.Duration(minIdleTime) * time.Second,
	}
}

func (s *Service) lock(sessionID string) func() {
	mu := &s.locks[xxhash.Sum64String(sessionID)%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}

// Access returns the access of a session, generating it on first use.
// Once a session is marked checked its cached access is served until Reset.
func (s *Service) Access(ctx context.Context, sessionID string, roles []string) (*domain.Access, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	checked, err := s.stateManager.IsAccessChecked(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if checked {
		cached, err := s.stateManager.LoadAccess(ctx, sessionID)
		if err == nil {
			s.metrics.CacheHit()
			return cached, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		// flag outlived the cached access; regenerate
	}

	return s.generate(ctx, sessionID, s.mode, roles)
}

// Refresh regenerates the access of a session regardless of its cached state.
// The cached access is replaced only once generation succeeds; access codes
// are left alone. An empty mode uses the configured one.
func (s *Service) Refresh(ctx context.Context, sessionID string, roles []string, mode domain.AccessMode) (*domain.Access, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	if mode == "" {
		mode = s.mode
	}

	return s.generate(ctx, sessionID, mode, roles)
}

func (s *Service) generate(ctx context.Context, sessionID string, mode domain.AccessMode, roles []string) (*domain.Access, error) {
	r := router.New(s.coreRoutes...)

	generated, err := s.generator.Generate(ctx, r, mode, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access for session %s: %w", sessionID, err)
	}

	if err := s.stateManager.SaveAccess(ctx, sessionID, generated); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"session": sessionID,
		"routes":  len(r.GetRoutes()),
	}).Debug("Access cached")

	return generated, nil
}

// Reset forgets everything known about a session (logout).
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()

	return s.stateManager.Reset(ctx, sessionID)
}

func (s *Service) EnqueueRefresh(ctx context.Context, sessionID string, roles []string, mode domain.AccessMode) (string, error) {
	return s.queue.AddTask(ctx, &task.RefreshAccessTask{
		SessionID: sessionID,
		Roles:     roles,
		Mode:      mode.String(),
	})
}

func (s *Service) EnqueueReset(ctx context.Context, sessionID string) (string, error) {
	return s.queue.AddTask(ctx, &task.ResetAccessTask{SessionID: sessionID})
}

// MenuByPath looks a menu up in the cached access of a session.
func (s *Service) MenuByPath(ctx context.Context, sessionID, path string) (domain.MenuDisplayNode, bool, error) {
	cached, err := s.stateManager.LoadAccess(ctx, sessionID)
	if err != nil {
		return domain.MenuDisplayNode{}, false, err
	}

	menu, ok := access.FindMenuByPath(cached.Menus, path)
	return menu, ok, nil
}

func (s *Service) SetAccessCodes(ctx context.Context, sessionID string, codes []string) error {
	return s.stateManager.SetAccessCodes(ctx, sessionID, codes)
}

// HasAccessByCodes reports whether the session holds any of codes.
func (s *Service) HasAccessByCodes(ctx context.Context, sessionID string, codes []string) (bool, error) {
	granted, err := s.stateManager.GetAccessCodes(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return access.HasAnyCode(codes, granted), nil
}

func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	for _, taskType := range task.Types {
		s.runWorkersForStream(ctx, &wg, numWorkers, s.queue.StreamName(taskType), taskType)
	}

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	if s.minIdleTime > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(s.minIdleTime)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
					claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
					if err != nil {
						log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
						continue
					}
					if len(claimedMessages) > 0 {
						log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
						for _, msg := range claimedMessages {
							if err := s.processMessage(ctx, &msg); err != nil {
								log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
							}
						}
					}
				}
			}
		}()
	}

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						if ctx.Err() == nil {
							log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						}
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

// processMessage runs one task and acks it. Failed tasks stay pending and
// are picked up again by the auto-claimer.
func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, taskData, err := queue.DecodeMessage(msg)
	if err != nil {
		return err
	}

	switch taskType {
	case task.TypeRefreshAccess:
		refreshTask, err := task.UnmarshalTask[task.RefreshAccessTask](taskData)
		if err != nil {
			return fmt.Errorf("failed to unmarshal refresh task data: %w", err)
		}

		var mode domain.AccessMode
		if refreshTask.Mode != "" {
			mode, err = domain.ParseAccessMode(refreshTask.Mode)
			if err != nil {
				// never succeeds on retry
				log.Warnf("⚠️ Dropping refresh task %s: %v", msg.ID, err)
				break
			}
		}

		if _, err := s.Refresh(ctx, refreshTask.SessionID, refreshTask.Roles, mode); err != nil {
			return fmt.Errorf("failed to refresh session %s: %w", refreshTask.SessionID, err)
		}
		log.Infof("✅ Refreshed access for session %s", refreshTask.SessionID)

	case task.TypeResetAccess:
		resetTask, err := task.UnmarshalTask[task.ResetAccessTask](taskData)
		if err != nil {
			return fmt.Errorf("failed to unmarshal reset task data: %w", err)
		}

		if err := s.Reset(ctx, resetTask.SessionID); err != nil {
			return fmt.Errorf("failed to reset session %s: %w", resetTask.SessionID, err)
		}
		log.Infof("✅ Reset access for session %s", resetTask.SessionID)

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, s.queue.StreamName(taskType), s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}
