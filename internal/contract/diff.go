package contract

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpSig identifies one operation in a contract.
type OpSig struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// StatusChange records an operation both environments expose but with
// different status code sets.
type StatusChange struct {
	Method string   `json:"method"`
	Path   string   `json:"path"`
	A      []string `json:"a"`
	B      []string `json:"b"`
}

// DiffReport compares the contracts of two environments.
type DiffReport struct {
	Added         []OpSig        `json:"added"`          // present in B, not in A
	Removed       []OpSig        `json:"removed"`        // present in A, not in B
	ChangedStatus []StatusChange `json:"changed_status"` // same op, different status sets
}

// Empty reports whether the two contracts agree.
func (r DiffReport) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.ChangedStatus) == 0
}

// DiffDocs compares environment A's contract against environment B's.
func DiffDocs(a, b *openapi3.T) DiffReport {
	opsA := listOps(a)
	opsB := listOps(b)

	setA := toSet(opsA)
	setB := toSet(opsB)

	var added, removed []OpSig
	for _, op := range opsB {
		if !setA[op] {
			added = append(added, op)
		}
	}
	for _, op := range opsA {
		if !setB[op] {
			removed = append(removed, op)
		}
	}

	var changed []StatusChange
	for _, op := range opsA {
		if setB[op] {
			as := statusSet(a, op)
			bs := statusSet(b, op)
			if !equalStrSet(as, bs) {
				changed = append(changed, StatusChange{
					Method: op.Method,
					Path:   op.Path,
					A:      toSortedSlice(as),
					B:      toSortedSlice(bs),
				})
			}
		}
	}

	sortOps(added)
	sortOps(removed)
	sortChanges(changed)

	return DiffReport{
		Added:         added,
		Removed:       removed,
		ChangedStatus: changed,
	}
}

func listOps(doc *openapi3.T) []OpSig {
	var out []OpSig
	if doc == nil || doc.Paths == nil {
		return out
	}
	for p, pi := range doc.Paths.Map() {
		if pi == nil {
			continue
		}
		for method := range pi.Operations() {
			out = append(out, OpSig{Method: method, Path: p})
		}
	}
	return out
}

func statusSet(doc *openapi3.T, op OpSig) map[string]bool {
	set := map[string]bool{}
	if doc == nil || doc.Paths == nil {
		return set
	}
	pi := doc.Paths.Value(op.Path)
	if pi == nil {
		return set
	}
	operation := pi.GetOperation(op.Method)
	if operation == nil || operation.Responses == nil {
		return set
	}
	for code := range operation.Responses.Map() {
		set[code] = true
	}
	return set
}

func toSet(ops []OpSig) map[OpSig]bool {
	m := map[OpSig]bool{}
	for _, o := range ops {
		m[o] = true
	}
	return m
}

func equalStrSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func toSortedSlice(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortOps(ops []OpSig) {
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path == ops[j].Path {
			return ops[i].Method < ops[j].Method
		}
		return ops[i].Path < ops[j].Path
	})
}

func sortChanges(ch []StatusChange) {
	sort.Slice(ch, func(i, j int) bool {
		if ch[i].Path == ch[j].Path {
			return ch[i].Method < ch[j].Method
		}
		return ch[i].Path < ch[j].Path
	})
}
