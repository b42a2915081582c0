package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/repository"
	"github.com/google/uuid"
)

type modelService struct {
	models   repository.ModelRepo
	observer UseCaseObserver
}

func NewModelService(models repository.ModelRepo, observers ...UseCaseObserver) ModelService {
	return &modelService{models: models, observer: useCaseObserverOrNoop(observers)}
}

func (s *modelService) Create(ctx context.Context, m *domain.Model) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-model",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"name": m.Name},
		})
	}()

	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return fmt.Errorf("creating model: name is required: %w", domain.ErrInvalidArgument)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()
	return s.models.Create(ctx, m)
}

func (s *modelService) GetByID(ctx context.Context, id string) (*domain.Model, error) {
	return s.models.GetByID(ctx, id)
}

func (s *modelService) Resolve(ctx context.Context, ref string) (*domain.Model, error) {
	m, err := s.models.GetByID(ctx, ref)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return m, err
	}
	m, err = s.models.GetByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", ref, err)
	}
	return m, nil
}

func (s *modelService) List(ctx context.Context) ([]*domain.Model, error) {
	return s.models.List(ctx)
}

func (s *modelService) Delete(ctx context.Context, id string) error {
	return s.models.Delete(ctx, id)
}
