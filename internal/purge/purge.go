// Package purge loads the ordered list of regex substitutions used to redact
// sensitive content from collected report files.
package purge

import (
	_ "embed"
	"os"
	"os/user"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"devdiag/internal/errors"
	"devdiag/internal/recipe"
)

//go:embed purge.yml
var builtinPurge []byte

// Entry is one redaction rule: every match of Regex is replaced with Repl.
// Entries apply in list order to the accumulated result of earlier entries.
type Entry struct {
	Regex *regexp.Regexp
	Repl  string
}

// Load reads and validates a purge file. The USERNAME template variable is
// substituted with the current OS user name, or the empty string when it
// cannot be determined.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Fatalf("cannot read purge file %q: %v", path, err)
	}
	return Parse(data)
}

// Builtin returns the embedded default purge entries.
func Builtin() ([]Entry, error) {
	return Parse(builtinPurge)
}

// Parse substitutes template variables, decodes and validates purge YAML.
func Parse(data []byte) ([]Entry, error) {
	vars := map[string]string{"USERNAME": username()}
	text := recipe.Substitute(string(data), vars)

	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, errors.Validationf("cannot parse purge YAML: %v", err)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.Validationf("purge is not a list")
	}

	entryKeys := []string{"regex", "repl"}
	var entries []Entry
	for _, ev := range list {
		m, ok := ev.(map[string]any)
		if !ok {
			return nil, errors.Validationf("purge entry %v is not a mapping", ev)
		}
		if _, ok := m["regex"]; !ok {
			return nil, errors.Validationf("unknown purge entry with keys %v", sortedKeys(m))
		}
		for _, k := range sortedKeys(m) {
			if k != "regex" && k != "repl" {
				return nil, errors.Validationf("unknown purge key %q, expecting one of %v", k, entryKeys)
			}
		}

		pattern, ok := m["regex"].(string)
		if !ok {
			return nil, errors.Validationf(`purge entry argument "regex" is not a string`)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Validationf(
				`purge entry argument "regex" is not a valid regular expression: %v`, err)
		}

		repl, present := m["repl"]
		if !present || repl == nil || repl == "" {
			return nil, errors.Validationf(`purge entry for regex %q is missing "repl" argument`, pattern)
		}
		rs, ok := repl.(string)
		if !ok {
			return nil, errors.Validationf(`purge entry argument "repl" is not a string`)
		}

		entries = append(entries, Entry{Regex: re, Repl: rs})
	}
	return entries, nil
}

func username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
