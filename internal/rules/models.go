// Package rules holds the per-program eligibility rule sets and document
// requirement sets, cached for the process lifetime. Rule data arrives from
// upstream extraction pipelines and is treated as untrusted: malformed fields
// degrade to "unconstrained" rather than failing a program out of evaluation.
package rules

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt is an optional integer rule field. Upstream extractors emit numbers,
// numeric strings, or garbage; anything unparseable decodes as absent so a
// malformed bound never rejects a citizen (fail-open).
type FlexInt struct {
	value int
	set   bool
}

// Int builds a present FlexInt. Used by table fixtures and tests.
func Int(v int) FlexInt {
	return FlexInt{value: v, set: true}
}

// Value returns the integer and whether the field was present.
func (f FlexInt) Value() (int, bool) {
	return f.value, f.set
}

// IsSet reports whether the field carries a value.
func (f FlexInt) IsSet() bool {
	return f.set
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt{value: n, set: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		if parsed, err := strconv.Atoi(s); err == nil {
			*f = FlexInt{value: parsed, set: true}
		}
		// Unparseable string: leave absent.
		return nil
	}

	// Unexpected JSON shape (object, array, bool): leave absent.
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// FlexList is a rule field that upstream data encodes as either a single
// string or a list. Non-string and empty members are discarded on decode so
// every use site sees one canonical []string.
type FlexList []string

func (l *FlexList) UnmarshalJSON(data []byte) error {
	*l = nil
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			*l = FlexList{s}
		}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for _, item := range raw {
		var member string
		if err := json.Unmarshal(item, &member); err != nil {
			continue
		}
		if member = strings.TrimSpace(member); member != "" {
			*l = append(*l, member)
		}
	}
	return nil
}

// Normalized returns the members lowercased and trimmed, for case-insensitive
// membership tests.
func (l FlexList) Normalized() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, v := range l {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}

// Contains performs a case-insensitive membership test.
func (l FlexList) Contains(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, member := range l.Normalized() {
		if member == v {
			return true
		}
	}
	return false
}

// RuleSet is the structured eligibility rule set for one program. Absent
// fields mean "not constrained" - absent and zero are semantically different,
// so optional fields carry explicit presence.
type RuleSet struct {
	MinAge     FlexInt  `json:"min_age"`
	MaxAge     FlexInt  `json:"max_age"`
	Gender     FlexList `json:"gender"`
	State      FlexList `json:"state"`
	Occupation FlexList `json:"occupation"`
	MaxIncome  FlexInt  `json:"max_income"`
	Category   string   `json:"category"`
}

// IsEmpty reports whether no criterion is constrained. An empty rule set
// means "no constraints known - do not reject".
func (rs *RuleSet) IsEmpty() bool {
	if rs == nil {
		return true
	}
	return !rs.MinAge.IsSet() && !rs.MaxAge.IsSet() && !rs.MaxIncome.IsSet() &&
		len(rs.Gender) == 0 && len(rs.State) == 0 && len(rs.Occupation) == 0
}

// Requirement is one document a program demands, keyed externally by the
// normalized document key.
type Requirement struct {
	Mandatory   bool   `json:"mandatory"`
	Description string `json:"description"`
}

// DocumentSpec is a document entry as the rule source encodes it: either a
// bare display name (mandatory by default, matching the precomputed tables)
// or an object carrying an explicit mandatory flag.
type DocumentSpec struct {
	Name        string `json:"name"`
	Mandatory   bool   `json:"mandatory"`
	Description string `json:"description"`
}

func (d *DocumentSpec) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*d = DocumentSpec{Name: name, Mandatory: true, Description: name}
		return nil
	}

	type alias DocumentSpec
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Description == "" {
		obj.Description = obj.Name
	}
	*d = DocumentSpec(obj)
	return nil
}
