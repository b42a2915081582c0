package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/credo/internal/db"
	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/importer"
	"github.com/alexanderramin/credo/internal/repository"
	"github.com/alexanderramin/credo/internal/tree"
)

type importService struct {
	uow           db.UnitOfWork
	decisions     *tree.Engine[*domain.Decision]
	uncertainties *tree.Engine[*domain.Uncertainty]
	requirements  *tree.Engine[*domain.SystemRequirement]
	observer      UseCaseObserver
}

// NewImportService creates imported rows inside one transaction, then
// numbers every tree with the given engines.
func NewImportService(
	uow db.UnitOfWork,
	decisions *tree.Engine[*domain.Decision],
	uncertainties *tree.Engine[*domain.Uncertainty],
	requirements *tree.Engine[*domain.SystemRequirement],
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		uow:           uow,
		decisions:     decisions,
		uncertainties: uncertainties,
		requirements:  requirements,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportOutline(ctx context.Context, filePath string, user *domain.User) (*ImportResult, error) {
	schema, err := importer.LoadOutlineSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema, user)
}

func (s *importService) ImportOutlineFromSchema(ctx context.Context, schema *importer.OutlineSchema, user *domain.User) (*ImportResult, error) {
	return s.importSchema(ctx, schema, user)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.OutlineSchema, user *domain.User) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		if result != nil {
			fields["nodes"] = result.DecisionCount + result.UncertaintyCount + result.RequirementCount
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-outline",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if schema == nil || user == nil {
		return nil, fmt.Errorf("importing outline: schema and user are required: %w", domain.ErrInvalidArgument)
	}
	fields["model"] = schema.Model.Name
	if errs := importer.ValidateOutlineSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	outline := importer.Convert(schema, user.ID, time.Now().UTC())

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteModelRepo(tx).Create(ctx, outline.Model); err != nil {
			return fmt.Errorf("creating model: %w", err)
		}
		if err := createAll(ctx, repository.NewSQLiteDecisionRepo(tx), outline.Decisions); err != nil {
			return err
		}
		if err := createAll(ctx, repository.NewSQLiteUncertaintyRepo(tx), outline.Uncertainties); err != nil {
			return err
		}
		return createAll(ctx, repository.NewSQLiteRequirementRepo(tx), outline.Requirements)
	})
	if err != nil {
		return nil, err
	}

	// Labels are assigned after commit; a failure here leaves the rows
	// unlabelled and "renumber" can be rerun.
	if err := s.decisions.ReorderAll(ctx, outline.Model, user); err != nil {
		return nil, fmt.Errorf("numbering decisions: %w", err)
	}
	if err := s.uncertainties.ReorderAll(ctx, outline.Model, user); err != nil {
		return nil, fmt.Errorf("numbering uncertainties: %w", err)
	}
	if err := s.requirements.ReorderAll(ctx, outline.Model, user); err != nil {
		return nil, fmt.Errorf("numbering requirements: %w", err)
	}

	return &ImportResult{
		Model:            outline.Model,
		DecisionCount:    len(outline.Decisions),
		UncertaintyCount: len(outline.Uncertainties),
		RequirementCount: len(outline.Requirements),
	}, nil
}

func createAll[N domain.TreeNode](ctx context.Context, repo repository.TreeNodeRepo[N], nodes []N) error {
	for _, n := range nodes {
		if err := repo.Create(ctx, n); err != nil {
			return fmt.Errorf("creating %s %s: %w", n.Kind(), n.Base().ID, err)
		}
	}
	return nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
