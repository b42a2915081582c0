package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/repository"
	"github.com/alexanderramin/credo/internal/testutil"
	"github.com/alexanderramin/credo/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decisionEnv struct {
	svc   DecisionService
	repo  repository.DecisionRepo
	model *domain.Model
	user  *domain.User
	log   *bytes.Buffer
}

func setupDecisionService(t *testing.T) *decisionEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	model := testutil.NewTestModel("Service Host")
	require.NoError(t, repository.NewSQLiteModelRepo(db).Create(ctx, model))
	repo := repository.NewSQLiteDecisionRepo(db)
	var buf bytes.Buffer
	svc := NewTreeService(repo, tree.NewEngine(repo), NewLogUseCaseObserver(&buf, slog.LevelInfo))
	return &decisionEnv{svc: svc, repo: repo, model: model, user: testutil.NewTestUser("author"), log: &buf}
}

func (e *decisionEnv) create(t *testing.T, title string, parent *domain.Decision) *domain.Decision {
	t.Helper()
	d := &domain.Decision{Node: domain.Node{ModelID: e.model.ID}, Title: title}
	if parent != nil {
		d.ParentID = domain.StrPtr(parent.ID)
	}
	require.NoError(t, e.svc.Create(context.Background(), d, e.user))
	return d
}

func labelsOf(nodes []*domain.Decision) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title + "=" + n.Label()
	}
	return out
}

func TestTreeService_CreateAssignsNextLabel(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	a := env.create(t, "a", nil)
	b := env.create(t, "b", nil)
	a1 := env.create(t, "a1", a)
	a2 := env.create(t, "a2", a)
	a1a := env.create(t, "a1a", a1)

	assert.NotEmpty(t, a.ID, "service should assign UUID")
	assert.Equal(t, "A", a.Label())
	assert.Equal(t, "B", b.Label())
	assert.Equal(t, "A1", a1.Label())
	assert.Equal(t, "A2", a2.Label())
	assert.Equal(t, "A1A", a1a.Label())
	assert.Equal(t, 2, a1a.Level)
	assert.Equal(t, env.user.ID, a1a.CreatedBy)

	stored, err := env.svc.GetByID(ctx, a1a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A1A", stored.Label())
	assert.Contains(t, env.log.String(), "use_case=create-decision")
}

func TestTreeService_CreateIgnoresCallerLabelAndLevel(t *testing.T) {
	env := setupDecisionService(t)
	d := &domain.Decision{Node: domain.Node{ModelID: env.model.ID, Level: 4}, Title: "d"}
	d.SetLabel("ZZ")

	require.NoError(t, env.svc.Create(context.Background(), d, env.user))
	assert.Equal(t, "A", d.Label())
	assert.Equal(t, 0, d.Level)
}

func TestTreeService_CreateValidation(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.svc.Create(ctx, nil, env.user), domain.ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.Create(ctx, &domain.Decision{Node: domain.Node{ModelID: env.model.ID}}, nil), domain.ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.Create(ctx, &domain.Decision{Title: "no model"}, env.user), domain.ErrInvalidArgument)

	orphan := &domain.Decision{Node: domain.Node{ModelID: env.model.ID, ParentID: domain.StrPtr("missing")}, Title: "orphan"}
	assert.ErrorIs(t, env.svc.Create(ctx, orphan, env.user), repository.ErrNotFound)
	assert.Contains(t, env.log.String(), "success=false")
}

func TestTreeService_DeleteChildRenumbersSiblings(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	a := env.create(t, "a", nil)
	env.create(t, "first", a)
	middle := env.create(t, "middle", a)
	last := env.create(t, "last", a)
	env.create(t, "last-child", last)

	require.NoError(t, env.svc.Delete(ctx, middle, env.user))

	children, err := env.svc.Children(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"first=A1", "last=A2"}, labelsOf(children))

	grand, err := env.svc.Children(ctx, children[1])
	require.NoError(t, err)
	assert.Equal(t, []string{"last-child=A2A"}, labelsOf(grand))
}

func TestTreeService_DeleteRootRenumbersModel(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	a := env.create(t, "a", nil)
	env.create(t, "a-child", a)
	b := env.create(t, "b", nil)
	env.create(t, "b-child", b)

	require.NoError(t, env.svc.Delete(ctx, a, env.user))

	roots, err := env.svc.Roots(ctx, env.model.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b=A"}, labelsOf(roots))
	children, err := env.svc.Children(ctx, roots[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"b-child=A1"}, labelsOf(children))

	all, err := env.svc.ListByModel(ctx, env.model.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2, "a's subtree is deleted with it")
}

func TestTreeService_DeleteValidation(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.svc.Delete(ctx, nil, env.user), domain.ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.Delete(ctx, &domain.Decision{}, env.user), domain.ErrInvalidArgument)
	assert.ErrorIs(t, env.svc.Delete(ctx, &domain.Decision{Node: domain.Node{ID: "ghost"}}, env.user), repository.ErrNotFound)
}

func TestTreeService_UpdateKeepsLabel(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	d := env.create(t, "draft", nil)
	editor := testutil.NewTestUser("editor")
	d.Title = "final"
	d.Description = "reviewed"
	require.NoError(t, env.svc.Update(ctx, d, editor))

	got, err := env.svc.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, "reviewed", got.Description)
	assert.Equal(t, "A", got.Label())
	assert.Equal(t, editor.ID, got.UpdatedBy)
	assert.Equal(t, env.user.ID, got.CreatedBy)
}

func TestTreeService_ReorderAndRefresh(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	a := env.create(t, "a", nil)
	env.create(t, "b", nil)
	c := env.create(t, "c", nil)

	require.NoError(t, env.svc.Reorder(ctx, c, 0, env.user))
	assert.Equal(t, "A", c.Label())

	require.NoError(t, env.svc.Refresh(ctx, a))
	assert.Equal(t, "B", a.Label())
	assert.Contains(t, env.log.String(), "use_case=move-decision")
}

func TestTreeService_Drop(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	p1 := env.create(t, "p1", nil)
	x := env.create(t, "x", p1)
	p2 := env.create(t, "p2", nil)

	g := tree.DropGesture{Selection: []any{x}, Target: p2, Location: tree.LocationOn}
	require.True(t, env.svc.ValidateDrop(g))

	moved, err := env.svc.Drop(ctx, env.model, env.user, g)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "B1", x.Label())
	assert.Contains(t, env.log.String(), "use_case=drop-decision")
}

func TestTreeService_ResolveAndFullLabel(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	a := env.create(t, "a", nil)
	a1 := env.create(t, "a1", a)
	a1a := env.create(t, "a1a", a1)

	byLabel, err := env.svc.Resolve(ctx, env.model.ID, "a1a")
	require.NoError(t, err)
	assert.Equal(t, a1a.ID, byLabel.ID)

	byID, err := env.svc.Resolve(ctx, env.model.ID, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, "A1", byID.Label())

	_, err = env.svc.Resolve(ctx, env.model.ID, "Q9")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = env.svc.Resolve(ctx, "other-model", a1.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	full, err := env.svc.FullLabel(ctx, a1a)
	require.NoError(t, err)
	assert.Equal(t, "A > A1 > A1A", full)
}

func TestTreeService_RenumberRepairsStaleLabels(t *testing.T) {
	env := setupDecisionService(t)
	ctx := context.Background()

	a := env.create(t, "a", nil)
	b := env.create(t, "b", nil)
	a.SetLabel("F")
	require.NoError(t, env.repo.Update(ctx, a))
	b.ClearLabel()
	require.NoError(t, env.repo.Update(ctx, b))

	require.NoError(t, env.svc.ReorderAll(ctx, env.model, env.user))

	roots, err := env.svc.Roots(ctx, env.model.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a=A", "b=B"}, labelsOf(roots))
	assert.Contains(t, env.log.String(), "use_case=renumber-decision")
}
