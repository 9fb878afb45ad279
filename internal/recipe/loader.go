package recipe

import (
	"embed"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"devdiag/internal/errors"
)

//go:embed builtin/*.yml
var builtinFS embed.FS

// Source identifies a recipe file, either on disk or embedded in the binary.
type Source struct {
	Path    string // file path, or "builtin/<name>.yml" for embedded recipes
	Builtin bool
}

// Short returns the builtin short name (the file stem), or "" for disk files.
func (s Source) Short() string {
	if !s.Builtin {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(s.Path), ".yml")
}

func (s Source) read() ([]byte, error) {
	if s.Builtin {
		return builtinFS.ReadFile(s.Path)
	}
	return os.ReadFile(s.Path)
}

// Builtins returns the embedded recipe sources sorted by name.
func Builtins() []Source {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}
	sources := make([]Source, 0, len(entries))
	for _, e := range entries {
		sources = append(sources, Source{Path: "builtin/" + e.Name(), Builtin: true})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources
}

// ResolveSources maps -r/--recipe arguments to recipe sources. An argument
// naming an existing file wins; otherwise it must be a builtin short name.
// With no arguments all builtins are selected. The result is deduplicated and
// sorted by path.
func ResolveSources(requested []string, appendBuiltins bool) ([]Source, error) {
	builtins := Builtins()
	if len(requested) == 0 {
		return builtins, nil
	}

	byShort := make(map[string]Source, len(builtins))
	for _, b := range builtins {
		byShort[b.Short()] = b
	}

	var selected []Source
	for _, req := range requested {
		if abs, err := filepath.Abs(req); err == nil {
			if fi, err := os.Stat(abs); err == nil && fi.Mode().IsRegular() {
				selected = append(selected, Source{Path: abs})
				continue
			}
		}
		if b, ok := byShort[req]; ok {
			selected = append(selected, b)
			continue
		}
		return nil, errors.Fatalf("cannot find recipe %q", req)
	}
	if appendBuiltins {
		selected = append(selected, builtins...)
	}

	seen := make(map[string]bool, len(selected))
	uniq := selected[:0]
	for _, s := range selected {
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true
		uniq = append(uniq, s)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].Path < uniq[j].Path })
	return uniq, nil
}

// Load reads the source, substitutes template variables and parses the result.
func (s Source) Load(vars map[string]string) (*Recipe, error) {
	data, err := s.read()
	if err != nil {
		return nil, errors.Fatalf("cannot read recipe file %q: %v", s.Path, err)
	}
	rec, err := Parse([]byte(Substitute(string(data), vars)))
	if err != nil {
		return nil, err
	}
	rec.Path = s.Path
	rec.Builtin = s.Builtin
	return rec, nil
}

// Peek extracts the description and tags without validating, so that recipes
// failing validation can still be listed and tag-filtered.
func (s Source) Peek(vars map[string]string) (string, []string) {
	data, err := s.read()
	if err != nil {
		return "", nil
	}
	var loose struct {
		Description string   `yaml:"description"`
		Tags        []string `yaml:"tags"`
	}
	_ = yaml.Unmarshal([]byte(Substitute(string(data), vars)), &loose)
	return loose.Description, loose.Tags
}
