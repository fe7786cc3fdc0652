// Package matrix expands CLI selections and the catalogs into the concrete
// list of test combinations for a case. Resolution is pure and
// deterministic; the only run-time variability is the random-language
// sentinel, whose draw happens inside the runner, never here, so repeated
// expansions with the same inputs always produce the same set.
package matrix

import (
	"fmt"

	"avqa/internal/catalog"
)

// Options are the raw CLI selections. Empty means "not given"; the literal
// "all" and an unrecognized value both widen to the full catalog list.
type Options struct {
	Browser    string
	Language   string
	POS        string
	HeaderLink string
	FooterLink string
	Env        string
}

type LanguagePolicy int

const (
	// LanguageGeneric expands languages like any other parameter.
	LanguageGeneric LanguagePolicy = iota
	// LanguageRandomOrAll collapses an absent --language into a single
	// sentinel combo whose language is drawn at run time. Only an explicit
	// selection (or "all") expands the list.
	LanguageRandomOrAll
)

// Policy is the per-case expansion record. The redirect cases defer the
// language choice to run time; the POS case excludes POS options that
// depend on a language which has not been selected.
type Policy struct {
	Language    LanguagePolicy
	RestrictPOS bool
}

var casePolicies = map[string]Policy{
	"case_5": {RestrictPOS: true},
	"case_6": {Language: LanguageRandomOrAll},
	"case_7": {Language: LanguageRandomOrAll},
}

func PolicyFor(caseID string) Policy {
	return casePolicies[caseID]
}

// Language modes recorded with redirect-case results.
const (
	ModeRandom   = "Random"
	ModeSpecific = "Specific"
	ModeAll      = "All Languages"
)

// Combo is one fully resolved test instance.
type Combo struct {
	CaseID       string `json:"case_id"`
	Browser      string `json:"browser"`                 // command value, e.g. "chrome"
	Language     string `json:"language,omitempty"`      // display name; empty means draw at run time
	LanguageMode string `json:"language_mode,omitempty"` // set only for random-or-all cases
	POS          string `json:"pos,omitempty"`           // display name
	HeaderLink   string `json:"header_link,omitempty"`   // option key
	FooterLink   string `json:"footer_link,omitempty"`   // option key
	Env          string `json:"env"`                     // env key, e.g. "qa4"
	BaseURL      string `json:"base_url"`
}

// Key identifies a combo across runs, used for last-failed filtering.
func (c Combo) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		c.CaseID, c.Browser, c.Language, c.POS, c.HeaderLink, c.FooterLink, c.Env)
}

type Engine struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Expand resolves the full combination list for one case.
func (e *Engine) Expand(caseID string, opts Options) ([]Combo, error) {
	info, err := e.cat.Case(caseID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("unknown case %q", caseID)
	}
	applicable := map[string]bool{}
	for _, p := range info.ApplicableParameters {
		applicable[p] = true
	}
	policy := PolicyFor(caseID)

	browsers := []string{""}
	if applicable["browser"] {
		cands, err := e.candidates("browser", opts.Browser)
		if err != nil {
			return nil, err
		}
		browsers = commandValues(cands)
	}

	languages := []string{""}
	languageMode := ""
	if applicable["language"] {
		languages, languageMode, err = e.languageCandidates(policy, opts.Language)
		if err != nil {
			return nil, err
		}
	}

	posList := []string{""}
	if applicable["pos"] {
		posList, err = e.posCandidates(policy, opts.POS, languages)
		if err != nil {
			return nil, err
		}
	}

	headerLinks := []string{""}
	if applicable["header-link"] {
		cands, err := e.candidates("header-link", opts.HeaderLink)
		if err != nil {
			return nil, err
		}
		headerLinks = keys(cands)
	}

	footerLinks := []string{""}
	if applicable["footer-link"] {
		cands, err := e.candidates("footer-link", opts.FooterLink)
		if err != nil {
			return nil, err
		}
		footerLinks = keys(cands)
	}

	envs, err := e.envCandidates(info, opts.Env)
	if err != nil {
		return nil, err
	}

	var combos []Combo
	for _, br := range browsers {
		for _, lang := range languages {
			for _, pos := range posList {
				for _, hl := range headerLinks {
					for _, fl := range footerLinks {
						for _, env := range envs {
							combos = append(combos, Combo{
								CaseID:       caseID,
								Browser:      br,
								Language:     lang,
								LanguageMode: languageMode,
								POS:          pos,
								HeaderLink:   hl,
								FooterLink:   fl,
								Env:          env.key,
								BaseURL:      env.url,
							})
						}
					}
				}
			}
		}
	}
	return combos, nil
}

// candidates applies the generic resolution rule: absent or "all" expands to
// the full catalog list, a recognizable value narrows to that one option,
// and anything else silently widens back to the full list.
func (e *Engine) candidates(param, cliValue string) ([]*catalog.Option, error) {
	set, err := e.cat.Options(param)
	if err != nil {
		return nil, err
	}
	real := set.Real()
	if cliValue == "" || cliValue == catalog.AllKey {
		return real, nil
	}
	if m := set.Match(cliValue); m != nil {
		return []*catalog.Option{m}, nil
	}
	return real, nil
}

func (e *Engine) languageCandidates(policy Policy, cliValue string) ([]string, string, error) {
	if policy.Language == LanguageRandomOrAll && cliValue == "" {
		// One sentinel instance; the runner draws the language.
		return []string{""}, ModeRandom, nil
	}
	cands, err := e.candidates("language", cliValue)
	if err != nil {
		return nil, "", err
	}
	mode := ""
	if policy.Language == LanguageRandomOrAll {
		if len(cands) == 1 {
			mode = ModeSpecific
		} else {
			mode = ModeAll
		}
	}
	return displayNames(cands), mode, nil
}

// posCandidates resolves the POS list. A POS option that declares
// requires_language is only eligible when that language is the single
// selected one; with no (or multiple) languages in play, only unrestricted
// options remain. The CLI filter then applies within the eligible set.
func (e *Engine) posCandidates(policy Policy, cliValue string, languages []string) ([]string, error) {
	set, err := e.cat.Options("pos")
	if err != nil {
		return nil, err
	}
	eligible := set.Real()
	if policy.RestrictPOS {
		selectedLang := ""
		if len(languages) == 1 {
			selectedLang = languages[0]
		}
		var kept []*catalog.Option
		for _, o := range eligible {
			if o.RequiresLanguage == "" || o.RequiresLanguage == selectedLang {
				kept = append(kept, o)
			}
		}
		eligible = kept
	}
	if cliValue != "" && cliValue != catalog.AllKey {
		if m := set.Match(cliValue); m != nil {
			for _, o := range eligible {
				if o == m {
					return []string{m.DisplayName}, nil
				}
			}
		}
		// Unknown or ineligible selection falls back to the eligible set.
	}
	return displayNames(eligible), nil
}

type envURL struct {
	key string
	url string
}

// envCandidates intersects the case's env allow-list with the CLI
// selection. A CLI env outside the allow-list silently falls back to the
// full allow-list.
func (e *Engine) envCandidates(info *catalog.CaseInfo, cliValue string) ([]envURL, error) {
	set, err := e.cat.Options("env")
	if err != nil {
		return nil, err
	}
	allowed := info.EnvOptions
	selected := allowed
	if cliValue != "" && cliValue != catalog.AllKey {
		if m := set.Match(cliValue); m != nil {
			for _, key := range allowed {
				if m.Key == key {
					selected = []string{key}
					break
				}
			}
		}
	}
	out := make([]envURL, 0, len(selected))
	for _, key := range selected {
		opt := set.Get(key)
		if opt == nil || opt.URL == "" {
			return nil, fmt.Errorf("env %q has no URL in the parameter catalog", key)
		}
		out = append(out, envURL{key: key, url: opt.URL})
	}
	return out, nil
}

func commandValues(opts []*catalog.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.CommandValue
	}
	return out
}

func displayNames(opts []*catalog.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.DisplayName
	}
	return out
}

func keys(opts []*catalog.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Key
	}
	return out
}
