// avqa-gen turns a case and a set of display-value selections into a
// runnable avqa command line, persisting the selection so the next
// invocation can restore it.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"avqa/internal/catalog"
	"avqa/internal/command"
	"avqa/internal/mapper"
	"avqa/internal/testdata"
)

type params map[string]string

func (p params) String() string { return "" }

func (p params) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected param=value, got %q", v)
	}
	p[strings.TrimSpace(key)] = strings.TrimSpace(value)
	return nil
}

func main() {
	selected := params{}
	var (
		configDir = flag.String("config", "config", "Directory with parameter and case catalogs")
		dataPath  = flag.String("data", "", "Path to the testdata JSON (default <config>/testdata.json)")
		caseID    = flag.String("case", "", "Case id (case_N or bare number)")
		list      = flag.Bool("list", false, "List the available cases")
		show      = flag.Bool("show", false, "Show the selected case's parameters and options")
		multiline = flag.Bool("multiline", false, "Render the command one flag per line")
		save      = flag.Bool("save", false, "Persist the selection for the next invocation")
		restore   = flag.Bool("restore", false, "Start from the previously saved selection")
		session   = flag.Bool("session", false, "Print the saved session and exit")

		verbose    = flag.Bool("verbose", false, "Enable the -v runner flag")
		showPrints = flag.Bool("show-prints", false, "Enable the -s runner flag")
		stopFirst  = flag.Bool("x", false, "Enable the -x runner flag")
		lastFailed = flag.Bool("lf", false, "Enable the --lf runner flag")
		allure     = flag.Bool("allure", false, "Enable the Allure report flag")
		parallel   = flag.Bool("parallel", false, "Enable parallel execution")
	)
	flag.Var(selected, "p", "Parameter selection as param=value (repeatable)")
	flag.Parse()

	cat := catalog.New(*configDir)
	if err := cat.Validate(); err != nil {
		fail("catalog: %v", err)
	}
	m := mapper.New(cat)
	if *dataPath == "" {
		*dataPath = filepath.Join(*configDir, "testdata.json")
	}
	store := testdata.NewStore(*dataPath)

	if *list {
		listCases(cat, m)
		return
	}
	if *session {
		printSession(store)
		return
	}

	if *caseID == "" {
		fail("missing --case (use --list to see the available cases)")
	}
	if !strings.HasPrefix(*caseID, "case_") {
		*caseID = "case_" + *caseID
	}
	if _, err := cat.Case(*caseID); err != nil {
		fail("%v", err)
	}

	if *show {
		showCase(cat, m, *caseID)
		return
	}

	if *restore {
		if sess := store.CurrentSession(); sess != nil && sess.CaseID == *caseID {
			for k, v := range sess.Parameters {
				if _, ok := selected[k]; !ok {
					selected[k] = v
				}
			}
		}
	}

	flags := map[string]bool{
		"verbose":               *verbose,
		"show_prints":           *showPrints,
		"stop_on_first_failure": *stopFirst,
		"last_failed":           *lastFailed,
		"allure_report":         *allure,
		"parallel_execution":    *parallel,
	}

	b := command.New(cat, m)
	if ok, msg := b.ValidateParameters(*caseID, selected); !ok {
		fail("%s", msg)
	}

	if *save {
		if err := store.SaveCompleteState(*caseID, selected, flags, testdata.Sections{}, ""); err != nil {
			fail("save selection: %v", err)
		}
	}

	if *multiline {
		fmt.Println(b.BuildMultiline(*caseID, selected, flags))
		return
	}
	fmt.Println(b.BuildCommand(*caseID, selected, flags))
}

func listCases(cat *catalog.Catalog, m *mapper.Mapper) {
	ids, err := cat.CaseIDs()
	if err != nil {
		fail("%v", err)
	}
	names, err := cat.CaseNames()
	if err != nil {
		fail("%v", err)
	}
	for _, id := range ids {
		fmt.Printf("%-8s %s\n", id, names[id])
		if d := m.Description(id); d != "" {
			fmt.Printf("         %s\n", d)
		}
	}
}

func showCase(cat *catalog.Catalog, m *mapper.Mapper, caseID string) {
	byCat := m.ParametersByCategory(caseID)
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	for _, c := range cats {
		fmt.Printf("%s:\n", c)
		for _, param := range byCat[c] {
			fmt.Printf("  %s (%s)\n", param, m.ParameterLabel(param))
			values, err := cat.DisplayValues(param)
			if err != nil {
				continue
			}
			for _, v := range values {
				fmt.Printf("    - %s\n", v)
			}
		}
	}
}

func printSession(store *testdata.Store) {
	sess := store.CurrentSession()
	if sess == nil || sess.CaseID == "" {
		fmt.Println("no saved session")
		return
	}
	fmt.Printf("case: %s\n", sess.CaseID)
	keys := make([]string, 0, len(sess.Parameters))
	for k := range sess.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %s\n", k, sess.Parameters[k])
	}
	for name, on := range sess.PytestFlags {
		if on {
			fmt.Printf("  flag %s\n", name)
		}
	}
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", a...)
	os.Exit(2)
}
