package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"avqa/internal/catalog"
	"avqa/internal/contract"
	"avqa/internal/evidence"
	"avqa/internal/matrix"
	"avqa/internal/plan"
	"avqa/internal/reporter"
	"avqa/internal/results"
	"avqa/internal/runner"
	"avqa/internal/scenarios"
	"avqa/internal/testdata"
)

func main() {
	var (
		// case selection
		caseFlag   = flag.String("case", "", "Case to run: number, case_N, comma list, or 'all'")
		lastFailed = flag.Bool("lf", false, "Rerun the cases whose latest execution failed")
		planPath   = flag.String("spec", "", "Path to a YAML run plan (overrides --case)")

		// matrix filters
		browser    = flag.String("browser", "", "Browser: chrome, edge, firefox, or all")
		language   = flag.String("language", "", "Language display name or all")
		pos        = flag.String("pos", "", "Point of sale display name or all")
		headerLink = flag.String("header-link", "", "Header link key or all")
		footerLink = flag.String("footer-link", "", "Footer link key or all")
		env        = flag.String("env", "", "Environment key (qa4, qa5) or all")

		// free search parameters
		origin        = flag.String("origin", "", "Origin IATA code")
		destination   = flag.String("destination", "", "Destination IATA code")
		departureDays = flag.Int("departure-days", 0, "Days from today for the outbound date")
		returnDays    = flag.Int("return-days", 0, "Days from today for the return date")

		// evidence
		screenshots = flag.String("screenshots", evidence.ScreenshotsOnFailure, "Screenshot mode: none, on-failure, all")
		video       = flag.Bool("video", false, "Record a video per combination")

		// execution
		parallel   = flag.String("n", "1", "Combinations to execute in parallel: a number or 'auto'")
		failFast   = flag.Bool("x", false, "Stop after the first failing combination (forces -n=1)")
		showPrints = flag.Bool("s", false, "Print per-combination progress to stdout")
		headless   = flag.Bool("headless", true, "Run browsers headless")
		seed       = flag.Int64("seed", 0, "Seed for the random language draw (0 = time-based)")
		verbose    = flag.Bool("v", false, "Verbose logging")

		// plan filtering
		includeTags = flag.String("include-tags", "", "Comma-separated tags to include (OR semantics)")
		excludeTags = flag.String("exclude-tags", "", "Comma-separated tags to exclude (OR semantics)")

		// artifacts
		configDir   = flag.String("config", "config", "Directory with parameter and case catalogs")
		dataPath    = flag.String("data", "", "Path to the testdata JSON (default <config>/testdata.json)")
		outDir      = flag.String("out", "reports", "Output directory for artifacts")
		dbPath      = flag.String("db", "", "SQLite results database (default <out>/results.db)")
		allureDir   = flag.String("alluredir", "", "Also emit Allure result files into this directory")
		openapiPath = flag.String("openapi", "", "OpenAPI document for session API contract checks")

		// inspection
		list = flag.Bool("list", false, "Print the expanded matrix without running")

		// diff mode
		diffA = flag.String("diff-a", "", "Contract diff: path to OpenAPI A (enables diff mode)")
		diffB = flag.String("diff-b", "", "Contract diff: path to OpenAPI B (enables diff mode)")
	)
	flag.Parse()

	// ---- Contract diff mode (no cases required) ----
	if *diffA != "" || *diffB != "" {
		if *diffA == "" || *diffB == "" {
			fail("both --diff-a and --diff-b are required for contract diff mode")
		}
		runContractDiff(*diffA, *diffB, *outDir)
		return
	}

	log := newLogger(*verbose)
	defer log.Sync()

	cat := catalog.New(*configDir)
	if err := cat.Validate(); err != nil {
		fail("catalog: %v", err)
	}
	if *dataPath == "" {
		*dataPath = filepath.Join(*configDir, "testdata.json")
	}
	data := testdata.NewStore(*dataPath)

	opts := matrix.Options{
		Browser:    *browser,
		Language:   *language,
		POS:        *pos,
		HeaderLink: *headerLink,
		FooterLink: *footerLink,
		Env:        *env,
	}
	free := runner.FreeParams{
		Origin:        *origin,
		Destination:   *destination,
		DepartureDays: *departureDays,
		ReturnDays:    *returnDays,
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fail("mkdir out: %v", err)
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(*outDir, "results.db")
	}
	store, err := results.Open(*dbPath)
	if err != nil {
		fail("results db: %v", err)
	}
	defer store.Close()

	// ---- Resolve what to run ----
	var entries []plan.Entry
	suiteName := "avqa"
	openapiFile := *openapiPath

	switch {
	case *planPath != "":
		pl, err := plan.New().ParseFile(*planPath)
		if err != nil {
			fail("plan: %v", err)
		}
		suiteName = pl.Name
		if openapiFile == "" && pl.OpenAPI != "" {
			openapiFile = resolveRelative(*planPath, pl.OpenAPI)
		}
		entries = filterByTags(pl.Entries, splitCSV(*includeTags), splitCSV(*excludeTags))
		if len(entries) == 0 {
			fail("no entries left after tag filtering")
		}
	case *lastFailed:
		nums, err := store.FailedCases()
		if err != nil {
			fail("last failed lookup: %v", err)
		}
		if len(nums) == 0 {
			fmt.Println("no failed cases in the latest runs")
			return
		}
		for _, n := range nums {
			entries = append(entries, plan.Entry{Case: "case_" + n})
		}
	default:
		ids, err := resolveCases(cat, *caseFlag)
		if err != nil {
			fail("%v", err)
		}
		for _, id := range ids {
			entries = append(entries, plan.Entry{Case: id})
		}
	}

	// ---- List mode ----
	if *list {
		eng := matrix.New(cat)
		for _, e := range entries {
			combos, err := eng.Expand(e.Case, mergeOptions(opts, e.Overrides))
			if err != nil {
				fail("expand %s: %v", e.Case, err)
			}
			fmt.Printf("%s (%d combinations)\n", e.Case, len(combos))
			for _, c := range combos {
				fmt.Printf("  %s\n", c.Key())
			}
		}
		return
	}

	// ---- Build the runner ----
	factory, err := runner.NewPlaywrightFactory(*headless)
	if err != nil {
		fail("playwright: %v", err)
	}
	defer factory.Close()

	rec := evidence.NewRecorder(*outDir, *screenshots, log)
	r := runner.New(cat, data).
		WithScenarios(scenarios.Registry()).
		WithFactory(factory).
		WithStore(store).
		WithLogger(log).
		WithParallel(parallelCount(*parallel)).
		WithFailFast(*failFast).
		WithEvidence(rec, *screenshots, *video)
	if *seed != 0 {
		r = r.WithRandSeed(*seed)
	}
	if openapiFile != "" {
		v, err := contract.LoadFromFile(openapiFile)
		if err != nil {
			fail("openapi load: %v", err)
		}
		r = r.WithContract(v)
	}

	// ---- Execute ----
	ctx := context.Background()
	var caseResults []runner.RunResult
	allPassed := true
	for _, e := range entries {
		r = r.WithHooks(e.Hooks.Before, e.Hooks.After)
		res, err := r.Run(ctx, e.Case, mergeOptions(opts, e.Overrides), mergeFree(free, e.Overrides))
		if err != nil {
			fail("run %s: %v", e.Case, err)
		}
		if !res.Passed {
			allPassed = false
		}
		if *showPrints {
			for _, cb := range res.Combos {
				fmt.Printf("%-8s %s (%.0f ms)\n", statusWord(cb.Passed), cb.Name, cb.DurationMs)
			}
		}
		caseResults = append(caseResults, *res)
		if *failFast && !res.Passed {
			break
		}
	}

	// ---- Artifacts ----
	suite := reporter.NewSuite(suiteName, caseResults)

	jsonPath := filepath.Join(*outDir, "results.json")
	writeOrDie(jsonPath, func(f *os.File) error {
		return reporter.WriteJSON(f, suite)
	})
	writeOrDie(filepath.Join(*outDir, "junit.xml"), func(f *os.File) error {
		return reporter.WriteJUnit(f, suiteName, suite)
	})
	// HTML renders from results.json to guarantee parity with it.
	writeOrDie(filepath.Join(*outDir, "report.html"), func(f *os.File) error {
		return reporter.WriteHTMLFromJSONPath(f, suiteName, jsonPath)
	})
	if *allureDir != "" {
		if err := reporter.WriteAllure(*allureDir, suite); err != nil {
			fail("allure: %v", err)
		}
	}

	// ---- Failure summary ----
	if !allPassed || *verbose {
		for _, cr := range caseResults {
			for _, cb := range cr.Combos {
				if cb.Passed {
					continue
				}
				fmt.Fprintf(os.Stderr, "\nFAILED: %s\n", cb.Name)
				if cb.Error != "" {
					fmt.Fprintf(os.Stderr, "  %s\n", cb.Error)
				}
				if cb.Outcome.Expected != "" || cb.Outcome.Actual != "" {
					fmt.Fprintf(os.Stderr, "  expected: %s\n  actual:   %s\n", cb.Outcome.Expected, cb.Outcome.Actual)
				}
				if cb.Screenshot != "" {
					fmt.Fprintf(os.Stderr, "  screenshot: %s\n", cb.Screenshot)
				}
			}
		}
	}

	if allPassed {
		fmt.Println("PASS")
		os.Exit(0)
	}
	fmt.Println("FAIL")
	os.Exit(1)
}

// ---- Contract diff mode ----

func runContractDiff(aPath, bPath, outDir string) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fail("mkdir out: %v", err)
	}
	a, err := contract.LoadFromFile(aPath)
	if err != nil {
		fail("openapi A load: %v", err)
	}
	b, err := contract.LoadFromFile(bPath)
	if err != nil {
		fail("openapi B load: %v", err)
	}

	rep := contract.DiffDocs(a.Doc(), b.Doc())

	out := filepath.Join(outDir, "contract-diff.json")
	writeOrDie(out, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	})

	fmt.Printf("Contract diff (%s -> %s)\n", aPath, bPath)
	if rep.Empty() {
		fmt.Println("  No changes.")
	} else {
		if len(rep.Added) > 0 {
			fmt.Println("  Added:")
			for _, op := range rep.Added {
				fmt.Printf("    + %s %s\n", op.Method, op.Path)
			}
		}
		if len(rep.Removed) > 0 {
			fmt.Println("  Removed:")
			for _, op := range rep.Removed {
				fmt.Printf("    - %s %s\n", op.Method, op.Path)
			}
		}
		if len(rep.ChangedStatus) > 0 {
			fmt.Println("  Status changes:")
			for _, ch := range rep.ChangedStatus {
				fmt.Printf("    * %s %s: %v -> %v\n", ch.Method, ch.Path, ch.A, ch.B)
			}
		}
	}
	fmt.Printf("wrote %s\n", out)
}

// ---- helpers ----

func newLogger(verbose bool) *zap.Logger {
	var log *zap.Logger
	var err error
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fail("logger: %v", err)
	}
	return log
}

// resolveCases accepts "all", case_N, bare numbers, and comma lists.
func resolveCases(cat *catalog.Catalog, value string) ([]string, error) {
	ids, err := cat.CaseIDs()
	if err != nil {
		return nil, err
	}
	if value == "" || strings.EqualFold(value, "all") {
		return ids, nil
	}
	known := map[string]bool{}
	for _, id := range ids {
		known[id] = true
	}
	var out []string
	for _, part := range splitCSV(value) {
		id := part
		if !strings.HasPrefix(id, "case_") {
			id = "case_" + id
		}
		if !known[id] {
			return nil, fmt.Errorf("unknown case %q", part)
		}
		out = append(out, id)
	}
	return out, nil
}

// mergeOptions lets plan overrides win over the command line filters.
func mergeOptions(base matrix.Options, overrides map[string]string) matrix.Options {
	pick := func(key, current string) string {
		if v, ok := overrides[key]; ok {
			return v
		}
		return current
	}
	return matrix.Options{
		Browser:    pick("browser", base.Browser),
		Language:   pick("language", base.Language),
		POS:        pick("pos", base.POS),
		HeaderLink: pick("header-link", base.HeaderLink),
		FooterLink: pick("footer-link", base.FooterLink),
		Env:        pick("env", base.Env),
	}
}

func mergeFree(base runner.FreeParams, overrides map[string]string) runner.FreeParams {
	if v, ok := overrides["origin"]; ok {
		base.Origin = v
	}
	if v, ok := overrides["destination"]; ok {
		base.Destination = v
	}
	if v, ok := overrides["departure-days"]; ok {
		fmt.Sscanf(v, "%d", &base.DepartureDays)
	}
	if v, ok := overrides["return-days"]; ok {
		fmt.Sscanf(v, "%d", &base.ReturnDays)
	}
	return base
}

func parallelCount(v string) int {
	if strings.EqualFold(v, "auto") {
		return runtime.NumCPU()
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		fail("invalid -n value %q", v)
	}
	return n
}

func statusWord(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}

func resolveRelative(anchor, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(anchor), path)
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", a...)
	os.Exit(2)
}

func writeOrDie(path string, fn func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		fail("create %s: %v", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		fail("write %s: %v", path, err)
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func filterByTags(in []plan.Entry, include, exclude []string) []plan.Entry {
	if len(include) == 0 && len(exclude) == 0 {
		return in
	}
	hasAny := func(e plan.Entry, tags []string) bool {
		for _, t := range tags {
			if e.HasTag(t) {
				return true
			}
		}
		return false
	}
	out := make([]plan.Entry, 0, len(in))
	for _, e := range in {
		if len(include) > 0 && !hasAny(e, include) {
			continue
		}
		if len(exclude) > 0 && hasAny(e, exclude) {
			continue
		}
		out = append(out, e)
	}
	return out
}
