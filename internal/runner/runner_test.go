package runner_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avqa/internal/catalog"
	"avqa/internal/matrix"
	"avqa/internal/results"
	"avqa/internal/runner"
)

// fakeFactory hands out nil pages; the stub scenarios never touch them.
type fakeFactory struct {
	opened atomic.Int64
}

func (f *fakeFactory) NewPage(string, bool, string) (playwright.Page, func() error, error) {
	f.opened.Add(1)
	return nil, func() error { return nil }, nil
}

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.New("../../config")
}

func passing(delay time.Duration) runner.Scenario {
	return func(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
		time.Sleep(delay)
		return runner.Outcome{
			Expected: "ok",
			Actual:   "ok",
			FinalURL: rc.Combo.BaseURL,
		}, nil
	}
}

func TestRun_AllCombosPass(t *testing.T) {
	factory := &fakeFactory{}
	r := runner.New(newCatalog(t), nil).
		WithFactory(factory).
		WithScenarios(map[string]runner.Scenario{"case_4": passing(0)})

	res, err := r.Run(context.Background(), "case_4",
		matrix.Options{Browser: "chrome", Language: "English"}, runner.FreeParams{})
	require.NoError(t, err)

	// English across both envs.
	require.Len(t, res.Combos, 2)
	assert.True(t, res.Passed)
	assert.Equal(t, int64(2), factory.opened.Load())
	assert.Equal(t, "Case4_English_qa4_chrome", res.Combos[0].Name)
	assert.Equal(t, "https://nuxqa4.avtest.ink/", res.Combos[0].Outcome.FinalURL)
}

func TestRun_FailureRecordedInStore(t *testing.T) {
	store, err := results.Open(filepath.Join(t.TempDir(), "r.db"))
	require.NoError(t, err)
	defer store.Close()

	r := runner.New(newCatalog(t), nil).
		WithFactory(&fakeFactory{}).
		WithStore(store).
		WithScenarios(map[string]runner.Scenario{
			"case_5": func(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
				if rc.Combo.POS == "España" {
					return runner.Outcome{Expected: "España", Actual: "Chile"}, errors.New("POS label mismatch")
				}
				return runner.Outcome{Expected: rc.Combo.POS, Actual: rc.Combo.POS}, nil
			},
		})

	res, err := r.Run(context.Background(), "case_5",
		matrix.Options{Browser: "chrome", Env: "qa4"}, runner.FreeParams{})
	require.NoError(t, err)
	assert.False(t, res.Passed)

	rows, err := store.All()
	require.NoError(t, err)

	// One row per combo: Chile, España, Otros países.
	require.Len(t, rows, 3)
	var failed int
	for _, row := range rows {
		assert.Equal(t, "5", row.CaseNumber)
		assert.Equal(t, "qa4", row.Environment)
		if row.Status == "FAILED" {
			failed++
			assert.Equal(t, "España", row.POS)
			assert.Equal(t, "POS label mismatch", row.ErrorMessage)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestRun_FailFastStopsEarly(t *testing.T) {
	r := runner.New(newCatalog(t), nil).
		WithFactory(&fakeFactory{}).
		WithFailFast(true).
		WithScenarios(map[string]runner.Scenario{
			"case_4": func(ctx context.Context, rc *runner.RunContext) (runner.Outcome, error) {
				return runner.Outcome{}, errors.New("boom")
			},
		})

	res, err := r.Run(context.Background(), "case_4", matrix.Options{}, runner.FreeParams{})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Len(t, res.Combos, 1)
}

func TestRun_RandomLanguageDrawn(t *testing.T) {
	r := runner.New(newCatalog(t), nil).
		WithFactory(&fakeFactory{}).
		WithRandSeed(1).
		WithScenarios(map[string]runner.Scenario{"case_6": passing(0)})

	res, err := r.Run(context.Background(), "case_6",
		matrix.Options{Browser: "chrome", HeaderLink: "credits", Env: "qa4"}, runner.FreeParams{})
	require.NoError(t, err)

	require.Len(t, res.Combos, 1)
	combo := res.Combos[0].Combo
	assert.Equal(t, matrix.ModeRandom, combo.LanguageMode)
	assert.Contains(t, []string{"Español", "English", "Français", "Português"}, combo.Language)
}

func TestRun_ParallelCombos(t *testing.T) {
	r := runner.New(newCatalog(t), nil).
		WithFactory(&fakeFactory{}).
		WithParallel(4).
		WithScenarios(map[string]runner.Scenario{"case_4": passing(250 * time.Millisecond)})

	// 4 languages x 1 env, 250ms each: parallel(4) should beat 1s clearly.
	start := time.Now()
	res, err := r.Run(context.Background(), "case_4",
		matrix.Options{Browser: "chrome", Env: "qa4"}, runner.FreeParams{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, res.Combos, 4)
	assert.True(t, res.Passed)
	if elapsed >= 900*time.Millisecond {
		t.Fatalf("expected parallel speedup (<900ms), got %v", elapsed)
	}
}

func TestRun_UnknownCase(t *testing.T) {
	r := runner.New(newCatalog(t), nil).WithFactory(&fakeFactory{})
	_, err := r.Run(context.Background(), "case_99", matrix.Options{}, runner.FreeParams{})
	require.Error(t, err)
}
