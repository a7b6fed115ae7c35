package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/taskfaucet/internal/config"
	"github.com/set-night/taskfaucet/internal/domain"
	"github.com/shopspring/decimal"
)

type CatalogService struct {
	store  TaskStore
	mirror *Mirror
	prober LinkProber
	now    func() time.Time
}

// NewCatalogService builds the catalog. prober may be nil, in which case tasks get no link title.
func NewCatalogService(store TaskStore, mirror *Mirror, prober LinkProber) *CatalogService {
	return &CatalogService{
		store:  store,
		mirror: mirror,
		prober: prober,
		now:    time.Now,
	}
}

type AddTaskParams struct {
	Link        string
	Description string
	Reward      decimal.Decimal
	CreatedBy   int64
}

// LoadActive refreshes the mirrored catalog from the store.
func (s *CatalogService) LoadActive(ctx context.Context) error {
	tasks, err := s.store.ListActiveTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	s.mirror.ReplaceTasks(tasks)
	return nil
}

// Active returns every active task in creation order.
func (s *CatalogService) Active() []*domain.Task {
	return s.mirror.Tasks()
}

func (s *CatalogService) Count() int {
	return s.mirror.TaskCount()
}

func (s *CatalogService) Get(id string) (*domain.Task, error) {
	t, ok := s.mirror.Task(id)
	if !ok || !t.IsActive() {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (s *CatalogService) Add(ctx context.Context, p AddTaskParams) (*domain.Task, error) {
	if !p.Reward.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !validLink(p.Link) {
		return nil, domain.ErrInvalidLink
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return nil, domain.ErrEmptyText
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate task id: %w", err)
	}

	t := &domain.Task{
		ID:          config.TaskIDPrefix + id.String(),
		Name:        domain.TaskName(description, config.TaskNameMaxLen),
		Link:        p.Link,
		Description: description,
		Reward:      p.Reward,
		Status:      domain.TaskStatusActive,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   s.now(),
	}

	if s.prober != nil {
		probeCtx, cancel := context.WithTimeout(ctx, config.LinkProbeTimeout)
		title, err := s.prober.Title(probeCtx, p.Link)
		cancel()
		if err != nil {
			slog.Warn("link title probe failed", "link", p.Link, "error", err)
		}
		t.LinkTitle = title
	}

	if err := s.store.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	if err := s.LoadActive(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// SoftDelete tombstones a task. Existing completions keep pointing at it.
func (s *CatalogService) SoftDelete(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteTask(ctx, id, s.now()); err != nil {
		return err
	}
	return s.LoadActive(ctx)
}

func validLink(link string) bool {
	for _, scheme := range config.AllowedLinkSchemes {
		if strings.HasPrefix(link, scheme) && len(link) > len(scheme) {
			return true
		}
	}
	return false
}
