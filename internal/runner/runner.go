// Package runner executes the resolved test matrix: one browser session
// per combination, scenario dispatch by case id, evidence capture, and a
// SQLite row per executed combination.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"avqa/internal/capture"
	"avqa/internal/catalog"
	"avqa/internal/contract"
	"avqa/internal/evidence"
	"avqa/internal/hooks"
	"avqa/internal/matrix"
	"avqa/internal/results"
	"avqa/internal/testdata"
)

// FreeParams are the search inputs that pass through to scenarios without
// catalog expansion.
type FreeParams struct {
	Origin        string
	Destination   string
	DepartureDays int
	ReturnDays    int
}

// RunContext is everything a scenario gets for one combination.
type RunContext struct {
	Page    playwright.Page
	Combo   matrix.Combo
	Free    FreeParams
	Catalog *catalog.Catalog
	Data    *testdata.Store
	Capture *capture.Capture
	// Contract is nil unless an OpenAPI document was supplied.
	Contract *contract.Validator
	Log      *zap.Logger
}

// Outcome is what a scenario validated.
type Outcome struct {
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	FinalURL string `json:"final_url,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Scenario runs one case against one combination. A returned error fails
// the combination.
type Scenario func(ctx context.Context, rc *RunContext) (Outcome, error)

// BrowserFactory opens a fresh page per combination. The returned closer
// tears the whole session down.
type BrowserFactory interface {
	NewPage(browserName string, recordVideo bool, videoDir string) (playwright.Page, func() error, error)
}

// ---- Results model ----

type ComboResult struct {
	Name       string       `json:"name"`
	Combo      matrix.Combo `json:"combo"`
	Passed     bool         `json:"passed"`
	Error      string       `json:"error,omitempty"`
	Outcome    Outcome      `json:"outcome"`
	DurationMs float64      `json:"duration_ms"`
	Screenshot string       `json:"screenshot,omitempty"`
	Video      string       `json:"video,omitempty"`
}

type RunResult struct {
	CaseID     string        `json:"case_id"`
	Passed     bool          `json:"passed"`
	Combos     []ComboResult `json:"combos"`
	DurationMs float64       `json:"duration_ms"`
}

// ---- Runner ----

type Runner struct {
	cat       *catalog.Catalog
	data      *testdata.Store
	engine    *matrix.Engine
	scenarios map[string]Scenario
	factory   BrowserFactory
	store     *results.Store
	validator *contract.Validator
	rec       *evidence.Recorder
	log       *zap.Logger
	rng       *rand.Rand

	parallel        int
	failFast        bool
	videoEnabled    bool
	screenshotsMode string
	hooksBefore     []string
	hooksAfter      []string
}

func New(cat *catalog.Catalog, data *testdata.Store) *Runner {
	return &Runner{
		cat:             cat,
		data:            data,
		engine:          matrix.New(cat),
		scenarios:       map[string]Scenario{},
		log:             zap.NewNop(),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		screenshotsMode: evidence.ScreenshotsOnFailure,
	}
}

func (r *Runner) WithScenarios(s map[string]Scenario) *Runner { r.scenarios = s; return r }
func (r *Runner) WithFactory(f BrowserFactory) *Runner        { r.factory = f; return r }
func (r *Runner) WithStore(s *results.Store) *Runner          { r.store = s; return r }
func (r *Runner) WithContract(v *contract.Validator) *Runner  { r.validator = v; return r }
func (r *Runner) WithLogger(l *zap.Logger) *Runner {
	if l != nil {
		r.log = l
	}
	return r
}
func (r *Runner) WithParallel(n int) *Runner {
	if n < 1 {
		n = 1
	}
	r.parallel = n
	return r
}
func (r *Runner) WithFailFast(b bool) *Runner { r.failFast = b; return r }
func (r *Runner) WithEvidence(rec *evidence.Recorder, mode string, video bool) *Runner {
	r.rec = rec
	r.screenshotsMode = mode
	r.videoEnabled = video
	return r
}
func (r *Runner) WithHooks(before, after []string) *Runner {
	r.hooksBefore = before
	r.hooksAfter = after
	return r
}

// WithRandSeed fixes the random-language draw, for reproducible runs.
func (r *Runner) WithRandSeed(seed int64) *Runner {
	r.rng = rand.New(rand.NewSource(seed))
	return r
}

// Expand resolves the matrix without running it.
func (r *Runner) Expand(caseID string, opts matrix.Options) ([]matrix.Combo, error) {
	return r.engine.Expand(caseID, opts)
}

// Run expands and executes one case.
func (r *Runner) Run(ctx context.Context, caseID string, opts matrix.Options, free FreeParams) (*RunResult, error) {
	if r.factory == nil {
		return nil, errors.New("no browser factory configured")
	}
	if _, ok := r.scenarios[caseID]; !ok {
		return nil, fmt.Errorf("no scenario registered for case %q", caseID)
	}
	combos, err := r.engine.Expand(caseID, opts)
	if err != nil {
		return nil, err
	}

	// The language for random-mode combos is drawn once per combo, up
	// front, so workers stay deterministic relative to the seed.
	for i := range combos {
		if combos[i].Language == "" && combos[i].LanguageMode == matrix.ModeRandom {
			lang, err := r.drawLanguage()
			if err != nil {
				return nil, err
			}
			combos[i].Language = lang
		}
	}

	start := time.Now()
	res := &RunResult{CaseID: caseID, Passed: true, Combos: make([]ComboResult, len(combos))}

	parallel := r.parallel
	if r.failFast || parallel < 1 {
		parallel = 1
	}

	if parallel == 1 {
		for i, combo := range combos {
			cr := r.runCombo(ctx, combo, free)
			if !cr.Passed {
				res.Passed = false
			}
			res.Combos[i] = cr
			if r.failFast && !cr.Passed {
				res.Combos = res.Combos[:i+1]
				break
			}
		}
		res.DurationMs = float64(time.Since(start).Milliseconds())
		return res, nil
	}

	type job struct {
		idx   int
		combo matrix.Combo
	}
	type result struct {
		idx int
		cr  ComboResult
	}

	jobs := make(chan job)
	resultCh := make(chan result)

	for w := 0; w < parallel; w++ {
		go func() {
			for j := range jobs {
				resultCh <- result{idx: j.idx, cr: r.runCombo(ctx, j.combo, free)}
			}
		}()
	}
	go func() {
		for i, combo := range combos {
			jobs <- job{idx: i, combo: combo}
		}
		close(jobs)
	}()

	for collected := 0; collected < len(combos); collected++ {
		rx := <-resultCh
		if !rx.cr.Passed {
			res.Passed = false
		}
		res.Combos[rx.idx] = rx.cr
	}

	res.DurationMs = float64(time.Since(start).Milliseconds())
	return res, nil
}

func (r *Runner) drawLanguage() (string, error) {
	set, err := r.cat.Options("language")
	if err != nil {
		return "", err
	}
	real := set.Real()
	if len(real) == 0 {
		return "", errors.New("language catalog is empty")
	}
	return real[r.rng.Intn(len(real))].DisplayName, nil
}

func (r *Runner) runCombo(ctx context.Context, combo matrix.Combo, free FreeParams) ComboResult {
	name := comboName(combo)
	log := r.log.With(zap.String("test", name))
	cr := ComboResult{Name: name, Combo: combo}

	hookEnv := hooks.Env{
		CaseID:      combo.CaseID,
		Browser:     combo.Browser,
		Language:    combo.Language,
		Environment: combo.Env,
		BaseURL:     combo.BaseURL,
	}
	if err := hooks.RunAll(ctx, r.hooksBefore, hookEnv); err != nil {
		cr.Error = err.Error()
		r.record(cr, 0)
		return cr
	}

	start := time.Now()
	outcome, err := r.execute(ctx, combo, free, log, &cr)
	cr.DurationMs = float64(time.Since(start).Milliseconds())
	cr.Outcome = outcome
	if err != nil {
		cr.Error = err.Error()
		log.Error("combination failed", zap.Error(err))
	} else {
		cr.Passed = true
		log.Info("combination passed", zap.Float64("duration_ms", cr.DurationMs))
	}

	hookEnv.Status = status(cr.Passed)
	if err := hooks.RunAll(ctx, r.hooksAfter, hookEnv); err != nil {
		log.Warn("after hook failed", zap.Error(err))
	}

	r.record(cr, time.Since(start).Seconds())
	return cr
}

// execute opens the browser session and dispatches the scenario.
func (r *Runner) execute(ctx context.Context, combo matrix.Combo, free FreeParams, log *zap.Logger, cr *ComboResult) (Outcome, error) {
	videoDir := ""
	if r.rec != nil {
		videoDir = r.rec.VideoDir()
	}
	page, closeSession, err := r.factory.NewPage(combo.Browser, r.videoEnabled, videoDir)
	if err != nil {
		return Outcome{}, fmt.Errorf("browser session: %w", err)
	}
	defer func() {
		if cerr := closeSession(); cerr != nil {
			log.Warn("session close", zap.Error(cerr))
		}
	}()

	rc := &RunContext{
		Page:     page,
		Combo:    combo,
		Free:     free,
		Catalog:  r.cat,
		Data:     r.data,
		Capture:  capture.New(log),
		Contract: r.validator,
		Log:      log,
	}
	if page != nil {
		rc.Capture.Attach(page)
	}

	outcome, err := r.scenarios[combo.CaseID](ctx, rc)

	if r.rec != nil && page != nil {
		cr.Screenshot = r.rec.Screenshot(page, cr.Name, err != nil)
		if r.videoEnabled {
			cr.Video = r.rec.ResolveVideo(page, cr.Name)
		}
	}
	return outcome, err
}

func (r *Runner) record(cr ComboResult, seconds float64) {
	if r.store == nil {
		return
	}
	combo := cr.Combo
	row := results.Execution{
		CaseNumber:        strings.TrimPrefix(combo.CaseID, "case_"),
		TestName:          cr.Name,
		Status:            status(cr.Passed),
		ExecutionTime:     seconds,
		ErrorMessage:      cr.Error,
		Browser:           combo.Browser,
		URL:               cr.Outcome.FinalURL,
		Language:          combo.Language,
		Environment:       combo.Env,
		ScreenshotsMode:   r.screenshotsMode,
		VideoEnabled:      videoFlag(r.videoEnabled),
		ExpectedValue:     cr.Outcome.Expected,
		ActualValue:       cr.Outcome.Actual,
		ValidationResult:  status(cr.Passed),
		InitialURL:        combo.BaseURL,
		POS:               combo.POS,
		HeaderLink:        combo.HeaderLink,
		FooterLink:        combo.FooterLink,
		LinkName:          r.linkName(combo),
		LanguageMode:      combo.LanguageMode,
		ValidationMessage: cr.Outcome.Message,
	}
	if err := r.store.Insert(row); err != nil {
		r.log.Warn("result row insert failed", zap.String("test", cr.Name), zap.Error(err))
	}
}

func (r *Runner) linkName(combo matrix.Combo) string {
	key, param := combo.HeaderLink, "header-link"
	if key == "" {
		key, param = combo.FooterLink, "footer-link"
	}
	if key == "" {
		return ""
	}
	set, err := r.cat.Options(param)
	if err != nil || set == nil {
		return ""
	}
	if opt := set.Get(key); opt != nil {
		return opt.DisplayName
	}
	return ""
}

func comboName(c matrix.Combo) string {
	caseNum := strings.TrimPrefix(c.CaseID, "case_")
	parts := []string{"Case" + caseNum}
	for _, p := range []string{c.POS, c.HeaderLink, c.FooterLink, c.Language} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, c.Env, c.Browser)
	return strings.Join(parts, "_")
}

func status(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}

func videoFlag(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "none"
}
