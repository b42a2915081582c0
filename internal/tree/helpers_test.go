package tree

import (
	"context"
	"database/sql"
	"slices"
	"testing"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/outline"
	"github.com/alexanderramin/credo/internal/repository"
	"github.com/alexanderramin/credo/internal/testutil"
	"github.com/stretchr/testify/require"
)

type decisionFixture struct {
	t      *testing.T
	ctx    context.Context
	db     *sql.DB
	repo   *repository.SQLiteTreeNodeRepo[*domain.Decision]
	engine *Engine[*domain.Decision]
	model  *domain.Model
	user   *domain.User
}

func setupDecisions(t *testing.T, opts ...Option) *decisionFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	model := testutil.NewTestModel("Tree Host")
	require.NoError(t, repository.NewSQLiteModelRepo(db).Create(ctx, model))
	repo := repository.NewSQLiteDecisionRepo(db)
	return &decisionFixture{
		t:      t,
		ctx:    ctx,
		db:     db,
		repo:   repo,
		engine: NewEngine(repo, opts...),
		model:  model,
		user:   testutil.NewTestUser("editor"),
	}
}

func (f *decisionFixture) add(title string, opts ...testutil.NodeOption) *domain.Decision {
	f.t.Helper()
	d := testutil.NewTestDecision(f.model.ID, title, opts...)
	require.NoError(f.t, f.repo.Create(f.ctx, d))
	return d
}

func (f *decisionFixture) reload(d *domain.Decision) *domain.Decision {
	f.t.Helper()
	got, err := f.repo.GetByID(f.ctx, d.ID)
	require.NoError(f.t, err)
	return got
}

// group returns "Title=Label" for every node under parent, in label order.
func (f *decisionFixture) group(parent *domain.Decision) []string {
	f.t.Helper()
	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}
	nodes, err := f.repo.FindByParentAndModel(f.ctx, f.model.ID, parentID)
	require.NoError(f.t, err)
	slices.SortStableFunc(nodes, func(a, b *domain.Decision) int {
		return outline.Compare(a.GeneratedID, b.GeneratedID)
	})
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title + "=" + n.Label()
	}
	return out
}
