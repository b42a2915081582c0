package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/credo/internal/domain"
	"github.com/alexanderramin/credo/internal/repository"
	"github.com/alexanderramin/credo/internal/service"
	"github.com/alexanderramin/credo/internal/testutil"
	"github.com/alexanderramin/credo/internal/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	reg := prometheus.NewRegistry()
	metrics := tree.NewMetrics(reg)
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)

	decisions := tree.NewEngine(repository.NewSQLiteDecisionRepo(db), tree.WithMetrics(metrics))
	uncertainties := tree.NewEngine(repository.NewSQLiteUncertaintyRepo(db), tree.WithMetrics(metrics))
	requirements := tree.NewEngine(repository.NewSQLiteRequirementRepo(db), tree.WithMetrics(metrics))

	return &App{
		Models:        service.NewModelService(repository.NewSQLiteModelRepo(db)),
		Users:         service.NewUserService(repository.NewSQLiteUserRepo(db)),
		Decisions:     service.NewTreeService(repository.NewSQLiteDecisionRepo(db), decisions),
		Uncertainties: service.NewTreeService(repository.NewSQLiteUncertaintyRepo(db), uncertainties),
		Requirements:  service.NewTreeService(repository.NewSQLiteRequirementRepo(db), requirements),
		Import:        service.NewImportService(testutil.NewTestUoW(db), decisions, uncertainties, requirements),
		UserName:      "tester",
		LogLevel:      &level,
		Metrics:       reg,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr without color.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func mustRun(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, "credo %s\n%s", strings.Join(args, " "), out)
	return out
}

// seedModel creates model "Bridge" with decisions A, A1, A2 and B.
func seedModel(t *testing.T, app *App) {
	t.Helper()
	mustRun(t, app, "model", "add", "Bridge")
	mustRun(t, app, "decision", "add", "Intended use", "-m", "Bridge")
	mustRun(t, app, "decision", "add", "Acceptance", "-m", "Bridge")
	mustRun(t, app, "decision", "add", "Load cases", "-m", "Bridge", "--parent", "A")
	mustRun(t, app, "decision", "add", "Environment", "-m", "Bridge", "--parent", "A")
}

func decisionTitles(t *testing.T, app *App) map[string]string {
	t.Helper()
	ctx := context.Background()
	m, err := app.Models.Resolve(ctx, "Bridge")
	require.NoError(t, err)
	all, err := app.Decisions.ListByModel(ctx, m.ID)
	require.NoError(t, err)
	out := map[string]string{}
	for _, d := range all {
		out[d.Label()] = d.Title
	}
	return out
}

func TestModelCmd_AddAndList(t *testing.T) {
	app := testApp(t)

	out := mustRun(t, app, "model", "add", "Bridge", "-d", "footbridge")
	assert.Contains(t, out, "Created model Bridge")

	out = mustRun(t, app, "model", "list")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Bridge")
	assert.Contains(t, out, "footbridge")
}

func TestModelCmd_ListEmpty(t *testing.T) {
	out := mustRun(t, testApp(t), "model", "ls")
	assert.Contains(t, out, "No models")
}

func TestUserCmd_ActingUserCreatedOnFirstEdit(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	out := mustRun(t, app, "user", "list")
	assert.Contains(t, out, "tester (you)")
}

func TestDecisionCmd_AddNumbersSiblings(t *testing.T) {
	app := testApp(t)
	mustRun(t, app, "model", "add", "Bridge")

	out := mustRun(t, app, "decision", "add", "Intended use", "-m", "Bridge")
	assert.Contains(t, out, "Added decision A Intended use")
	out = mustRun(t, app, "decision", "add", "Load cases", "-m", "Bridge", "-p", "A")
	assert.Contains(t, out, "Added decision A1 Load cases")
}

func TestDecisionCmd_ListRendersTree(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	out := mustRun(t, app, "decision", "list", "-m", "Bridge")
	assert.Contains(t, out, "BRIDGE / DECISION")
	assert.Contains(t, out, "A Intended use")
	assert.Contains(t, out, "├─ A1 Load cases")
	assert.Contains(t, out, "└─ A2 Environment")
	assert.Contains(t, out, "B Acceptance")
	assert.Less(t, strings.Index(out, "A2 Environment"), strings.Index(out, "B Acceptance"))
}

func TestDecisionCmd_ShowFullPath(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)
	mustRun(t, app, "decision", "add", "Pedestrian", "-m", "Bridge", "-p", "A1", "-d", "crowd loading")

	out := mustRun(t, app, "decision", "show", "a1a", "-m", "Bridge")
	assert.Contains(t, out, "Pedestrian")
	assert.Contains(t, out, "A > A1 > A1A")
	assert.Contains(t, out, "crowd loading")

	out = mustRun(t, app, "decision", "show", "A", "-m", "Bridge")
	assert.Contains(t, out, "CHILDREN")
	assert.Contains(t, out, "Load cases")
}

func TestDecisionCmd_UpdateKeepsLabel(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	mustRun(t, app, "decision", "update", "B", "-m", "Bridge", "--title", "Acceptance criteria")
	assert.Equal(t, "Acceptance criteria", decisionTitles(t, app)["B"])

	_, err := executeCmd(t, app, "decision", "update", "B", "-m", "Bridge")
	assert.Error(t, err, "update without any field flag should fail")
}

func TestDecisionCmd_RemoveClosesGap(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	mustRun(t, app, "decision", "rm", "A1", "-m", "Bridge")
	assert.Equal(t, map[string]string{
		"A":  "Intended use",
		"A1": "Environment",
		"B":  "Acceptance",
	}, decisionTitles(t, app))
}

func TestDecisionCmd_MoveReordersSiblings(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	out := mustRun(t, app, "decision", "move", "B", "0", "-m", "Bridge")
	assert.Contains(t, out, "Moved decision B → A")
	assert.Equal(t, map[string]string{
		"A":  "Acceptance",
		"B":  "Intended use",
		"B1": "Load cases",
		"B2": "Environment",
	}, decisionTitles(t, app))

	_, err := executeCmd(t, app, "decision", "move", "A", "first", "-m", "Bridge")
	assert.ErrorContains(t, err, "invalid index")
}

func TestDecisionCmd_DropOnReparents(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	out := mustRun(t, app, "decision", "drop", "A2", "--on", "B", "-m", "Bridge")
	assert.Contains(t, out, "B1 Environment")
	assert.Contains(t, out, "Dropped 1 decision on B")
	assert.Equal(t, map[string]string{
		"A":  "Intended use",
		"A1": "Load cases",
		"B":  "Acceptance",
		"B1": "Environment",
	}, decisionTitles(t, app))
}

func TestDecisionCmd_DropBeforeSibling(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	mustRun(t, app, "decision", "drop", "A2", "--before", "A1", "-m", "Bridge")
	titles := decisionTitles(t, app)
	assert.Equal(t, "Environment", titles["A1"])
	assert.Equal(t, "Load cases", titles["A2"])
}

func TestDecisionCmd_DropFlagsExclusive(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	_, err := executeCmd(t, app, "decision", "drop", "A1", "--on", "B", "--after", "B", "-m", "Bridge")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "decision", "drop", "A1", "-m", "Bridge")
	assert.Error(t, err)
}

func TestDecisionCmd_DropOntoOwnChildFails(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	_, err := executeCmd(t, app, "decision", "drop", "A", "--on", "A1", "-m", "Bridge")
	assert.ErrorIs(t, err, tree.ErrInvalidDrop)
	assert.Equal(t, "Intended use", decisionTitles(t, app)["A"])
}

func TestDecisionCmd_Renumber(t *testing.T) {
	app := testApp(t)
	seedModel(t, app)

	out := mustRun(t, app, "decision", "renumber", "-m", "Bridge")
	assert.Contains(t, out, "Renumbered decision tree of Bridge")
	assert.Len(t, decisionTitles(t, app), 4)
}

func TestKindCmds_RequireModel(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "requirement", "list")
	assert.ErrorContains(t, err, "--model is required")
	_, err = executeCmd(t, app, "uncertainty", "list", "-m", "Nowhere")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKindCmds_EachKindHasItsOwnTree(t *testing.T) {
	app := testApp(t)
	mustRun(t, app, "model", "add", "Bridge")
	mustRun(t, app, "uncertainty", "add", "Material yield", "-m", "Bridge")
	mustRun(t, app, "requirement", "add", "Peak stress below yield", "-m", "Bridge")
	mustRun(t, app, "requirement", "add", "Deflection limit", "-m", "Bridge")

	out := mustRun(t, app, "uncertainty", "list", "-m", "Bridge")
	assert.Contains(t, out, "A Material yield")
	out = mustRun(t, app, "requirement", "list", "-m", "Bridge")
	assert.Contains(t, out, "B Deflection limit")
	out = mustRun(t, app, "decision", "list", "-m", "Bridge")
	assert.Contains(t, out, "(empty)")
}

func TestImportCmd(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`model:
  name: Bridge
decisions:
  - text: Intended use
    children:
      - text: Load cases
  - text: Acceptance
`), 0o644))

	out := mustRun(t, app, "import", path)
	assert.Contains(t, out, "Imported model Bridge")
	assert.Equal(t, map[string]string{
		"A":  "Intended use",
		"A1": "Load cases",
		"B":  "Acceptance",
	}, decisionTitles(t, app))
}

func TestRootCmd_MetricsFlagDumpsCounters(t *testing.T) {
	app := testApp(t)
	mustRun(t, app, "model", "add", "Bridge")

	out := mustRun(t, app, "--metrics", "decision", "add", "Intended use", "-m", "Bridge")
	assert.Contains(t, out, `credo_labels_assigned_total{kind="decision"} 1`)
	assert.Contains(t, out, `credo_reorder_passes_total{kind="decision",op="same_level"} 1`)
}

func TestRootCmd_VerboseRaisesLogLevel(t *testing.T) {
	app := testApp(t)
	mustRun(t, app, "-v", "model", "list")
	assert.Equal(t, zapcore.DebugLevel, app.LogLevel.Level())
}

func TestRootCmd_UserFlagOverridesActingUser(t *testing.T) {
	app := testApp(t)
	mustRun(t, app, "model", "add", "Bridge")
	mustRun(t, app, "--user", "reviewer", "decision", "add", "Intended use", "-m", "Bridge")

	ctx := context.Background()
	reviewer, err := app.Users.Resolve(ctx, "reviewer")
	require.NoError(t, err)
	m, err := app.Models.Resolve(ctx, "Bridge")
	require.NoError(t, err)
	roots, err := app.Decisions.Roots(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, reviewer.ID, roots[0].CreatedBy)
}

func TestDropTarget_PicksChangedFlag(t *testing.T) {
	app := testApp(t)
	cmd := decisionKind(app).dropCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--after", "B2"}))

	loc, ref, err := dropTarget(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, tree.LocationAfter, loc)
	assert.Equal(t, "B2", ref)
}

func TestTreeItems_OrdersByLabel(t *testing.T) {
	a := testutil.NewTestDecision("m", "a", testutil.WithLabel("A"))
	b := testutil.NewTestDecision("m", "b", testutil.WithLabel("B"))
	a10 := testutil.NewTestDecision("m", "a10", testutil.WithParent(a), testutil.WithLabel("A10"))
	a9 := testutil.NewTestDecision("m", "a9", testutil.WithParent(a), testutil.WithLabel("A9"))

	items := treeItems([]*domain.Decision{b, a10, a, a9}, func(d *domain.Decision) string { return d.Title })
	var got []string
	for _, it := range items {
		got = append(got, it.Label)
	}
	assert.Equal(t, []string{"A", "A9", "A10", "B"}, got)
	assert.True(t, items[2].IsLast)
	assert.Equal(t, "2", items[0].Detail)
}
