package dice

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Shorthands maps a case-insensitive named token (e.g. "BOON") to the dice
// notation it expands to.
type Shorthands map[string]string

// DefaultShorthands returns the built-in system shorthands.
func DefaultShorthands() Shorthands {
	return Shorthands{
		"FUDGE":      "4dF",
		"BOON":       "3d6kh2",
		"BANE":       "3d6kl2",
		"FLUX":       "1d6 - 1d6",
		"PERC":       "1d%",
		"PERCENTILE": "1d%",
	}
}

// Merge returns a new table holding s overlaid with other. Keys are
// upper-cased.
func (s Shorthands) Merge(other Shorthands) Shorthands {
	out := make(Shorthands, len(s)+len(other))
	for k, v := range s {
		out[strings.ToUpper(k)] = v
	}
	for k, v := range other {
		out[strings.ToUpper(k)] = v
	}
	return out
}

// LoadShorthands reads a YAML mapping of NAME: expansion entries and merges
// it over the defaults.
//
// Postcondition: Returns a table containing every default key or a non-nil error.
func LoadShorthands(path string) (Shorthands, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading shorthands file: %w", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing shorthands file %q: %w", path, err)
	}
	for name, expansion := range raw {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("shorthands file %q: empty shorthand name", path)
		}
		if strings.TrimSpace(expansion) == "" {
			return nil, fmt.Errorf("shorthands file %q: shorthand %q has an empty expansion", path, name)
		}
		if strings.Contains(strings.ToUpper(name), "FLUX") && !strings.EqualFold(name, "FLUX") {
			return nil, fmt.Errorf("shorthands file %q: %q collides with the flux mechanics", path, name)
		}
	}
	return DefaultShorthands().Merge(raw), nil
}

// expander performs the case-insensitive substitution for a table.
type expander struct {
	table Shorthands
	re    *regexp.Regexp
}

func newExpander(table Shorthands) *expander {
	if len(table) == 0 {
		return &expander{}
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, regexp.QuoteMeta(strings.ToUpper(k)))
	}
	// Longest first so PERCENTILE wins over PERC.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	upper := make(Shorthands, len(table))
	for k, v := range table {
		upper[strings.ToUpper(k)] = v
	}
	return &expander{
		table: upper,
		re:    regexp.MustCompile(`(?i)` + strings.Join(keys, "|")),
	}
}

func (e *expander) expand(text string) string {
	if e.re == nil {
		return text
	}
	return e.re.ReplaceAllStringFunc(text, func(m string) string {
		return e.table[strings.ToUpper(m)]
	})
}
