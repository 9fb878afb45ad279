package recipe

import (
	"regexp"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"devdiag/internal/errors"
)

// Closed key sets. Any key outside a set is a structural error.
var (
	recipeKeys = []string{"description", "tags", "output", "steps"}
	stepKeys   = []string{"name", "cmds", "output", "system", "port"}
	execKeys   = []string{"exec", "cmd", "output", "stderr", "timeout", "append"}
	fileKeys   = []string{"file", "path", "output"}
	envKeys    = []string{"env", "vars", "regex", "output", "append"}
	globKeys   = []string{"glob", "pattern", "path", "regex", "mtime", "recursive", "relative", "output"}

	systems = []string{"Linux", "Windows", "Darwin"}
)

// Parse decodes and validates recipe YAML, returning the typed recipe.
// Validation is fail-fast: the first violation is reported with the offending
// key and the step and command it belongs to.
func Parse(data []byte) (*Recipe, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Validationf("cannot parse recipe YAML: %v", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Validationf("recipe is not a mapping")
	}
	return parseRecipe(m)
}

func parseRecipe(m map[string]any) (*Recipe, error) {
	if key, ok := unknownKey(m, recipeKeys); ok {
		return nil, errors.Validationf("unknown recipe key %q, expecting one of %v", key, recipeKeys)
	}

	rec := &Recipe{}

	desc := m["description"]
	if isEmpty(desc) {
		return nil, errors.Validationf(`recipe is missing "description" key`)
	}
	s, ok := desc.(string)
	if !ok {
		return nil, errors.Validationf(`recipe "description" key is not a string`)
	}
	rec.Description = s

	if tags := m["tags"]; !isEmpty(tags) {
		list, ok := tags.([]any)
		if !ok {
			return nil, errors.Validationf(`recipe "tags" key is not a list`)
		}
		for _, tag := range list {
			ts, ok := tag.(string)
			if !ok {
				return nil, errors.Validationf("recipe tag value %v is not a string", tag)
			}
			rec.Tags = append(rec.Tags, ts)
		}
	}

	if out := m["output"]; !isEmpty(out) {
		s, ok := out.(string)
		if !ok {
			return nil, errors.Validationf(`recipe "output" key is not a string`)
		}
		rec.Output = s
	}

	steps := m["steps"]
	if isEmpty(steps) {
		return nil, errors.Validationf(`recipe is missing "steps" key`)
	}
	list, ok := steps.([]any)
	if !ok {
		return nil, errors.Validationf(`recipe "steps" key is not a list`)
	}
	for _, sv := range list {
		sm, ok := sv.(map[string]any)
		if !ok {
			return nil, errors.Validationf("recipe step %v is not a mapping", sv)
		}
		step, err := parseStep(sm)
		if err != nil {
			return nil, err
		}
		rec.Steps = append(rec.Steps, step)
	}
	return rec, nil
}

func parseStep(m map[string]any) (Step, error) {
	var step Step

	if key, ok := unknownKey(m, stepKeys); ok {
		return step, errors.Validationf("unknown recipe step key %q, expecting one of %v", key, stepKeys)
	}

	name := m["name"]
	if isEmpty(name) {
		return step, errors.Validationf(`recipe step is missing "name" key`)
	}
	ns, ok := name.(string)
	if !ok {
		return step, errors.Validationf(`recipe step "name" key is not a string`)
	}
	step.Name = ns

	if out := m["output"]; !isEmpty(out) {
		s, ok := out.(string)
		if !ok {
			return step, errors.StepValidationf(ns, `"output" key is not a string`)
		}
		step.Output = s
	}

	if sys := m["system"]; !isEmpty(sys) {
		s, ok := sys.(string)
		if !ok {
			return step, errors.StepValidationf(ns, `"system" key is not a string`)
		}
		if !slices.Contains(systems, s) {
			return step, errors.StepValidationf(ns,
				`unknown "system" key value %q, expecting "Linux", "Windows" or "Darwin"`, s)
		}
		step.System = s
	}

	if port, ok := m["port"]; ok && port != nil {
		b, ok := port.(bool)
		if !ok {
			return step, errors.StepValidationf(ns, `"port" key is not a bool`)
		}
		step.Port = b
	}

	cmds := m["cmds"]
	if isEmpty(cmds) {
		return step, errors.StepValidationf(ns, `missing "cmds" key`)
	}
	list, ok := cmds.([]any)
	if !ok {
		return step, errors.StepValidationf(ns, `"cmds" key is not a list`)
	}
	for _, cv := range list {
		cm, ok := cv.(map[string]any)
		if !ok {
			return step, errors.StepValidationf(ns, "command %v is not a mapping", cv)
		}
		cmd, err := parseCommand(ns, cm)
		if err != nil {
			return step, err
		}
		step.Cmds = append(step.Cmds, cmd)
	}
	return step, nil
}

func parseCommand(step string, m map[string]any) (Command, error) {
	switch {
	case hasKey(m, "exec"):
		return parseExec(step, m)
	case hasKey(m, "file"):
		return parseFile(step, m)
	case hasKey(m, "env"):
		return parseEnv(step, m)
	case hasKey(m, "glob"):
		return parseGlob(step, m)
	}
	return nil, errors.StepValidationf(step, "unknown command with keys %v", sortedKeys(m))
}

func parseExec(step string, m map[string]any) (Command, error) {
	if key, ok := unknownKey(m, execKeys); ok {
		return nil, errors.CommandValidationf(step, "exec",
			"unknown argument %q, expecting one of %v", key, execKeys)
	}

	var c ExecCmd
	cmd := m["cmd"]
	if isEmpty(cmd) {
		return nil, errors.CommandValidationf(step, "exec", `missing "cmd" argument`)
	}
	switch t := cmd.(type) {
	case string:
		c.Line = t
	case []any:
		for _, arg := range t {
			s, ok := arg.(string)
			if !ok {
				return nil, errors.CommandValidationf(step, "exec",
					`list entry %v in "cmd" argument is not a string`, arg)
			}
			c.Argv = append(c.Argv, s)
		}
	default:
		return nil, errors.CommandValidationf(step, "exec", `argument "cmd" is not a list or a string`)
	}

	var err error
	if c.Output, err = optString(step, "exec", m, "output"); err != nil {
		return nil, err
	}
	if c.Stderr, err = optString(step, "exec", m, "stderr"); err != nil {
		return nil, err
	}
	if c.Timeout, err = optInt(step, "exec", m, "timeout"); err != nil {
		return nil, err
	}
	if c.Append, err = optBool(step, "exec", m, "append"); err != nil {
		return nil, err
	}
	return c, nil
}

func parseFile(step string, m map[string]any) (Command, error) {
	if key, ok := unknownKey(m, fileKeys); ok {
		return nil, errors.CommandValidationf(step, "file",
			"unknown argument %q, expecting one of %v", key, fileKeys)
	}

	var c FileCmd
	path := m["path"]
	if isEmpty(path) {
		return nil, errors.CommandValidationf(step, "file", `missing "path" argument`)
	}
	s, ok := path.(string)
	if !ok {
		return nil, errors.CommandValidationf(step, "file", `argument "path" is not a string`)
	}
	c.Path = s

	var err error
	if c.Output, err = optString(step, "file", m, "output"); err != nil {
		return nil, err
	}
	return c, nil
}

func parseEnv(step string, m map[string]any) (Command, error) {
	if key, ok := unknownKey(m, envKeys); ok {
		return nil, errors.CommandValidationf(step, "env",
			"unknown argument %q, expecting one of %v", key, envKeys)
	}

	var c EnvCmd
	if isEmpty(m["vars"]) && isEmpty(m["regex"]) {
		return nil, errors.CommandValidationf(step, "env", `missing both "vars" and "regex" arguments`)
	}
	if vars := m["vars"]; !isEmpty(vars) {
		list, ok := vars.([]any)
		if !ok {
			return nil, errors.CommandValidationf(step, "env", `argument "vars" is not a list`)
		}
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				return nil, errors.CommandValidationf(step, "env",
					`list entry %v in "vars" argument is not a string`, v)
			}
			c.Vars = append(c.Vars, s)
		}
	}

	var err error
	if c.Regex, err = optRegex(step, "env", m, ""); err != nil {
		return nil, err
	}
	if c.Output, err = optString(step, "env", m, "output"); err != nil {
		return nil, err
	}
	if c.Append, err = optBool(step, "env", m, "append"); err != nil {
		return nil, err
	}
	return c, nil
}

func parseGlob(step string, m map[string]any) (Command, error) {
	if key, ok := unknownKey(m, globKeys); ok {
		return nil, errors.CommandValidationf(step, "glob",
			"unknown argument %q, expecting one of %v", key, globKeys)
	}

	var c GlobCmd
	pattern := m["pattern"]
	if isEmpty(pattern) {
		return nil, errors.CommandValidationf(step, "glob", `missing "pattern" argument`)
	}
	ps, ok := pattern.(string)
	if !ok {
		return nil, errors.CommandValidationf(step, "glob", `argument "pattern" is not a string`)
	}
	c.Pattern = ps

	path := m["path"]
	if isEmpty(path) {
		return nil, errors.CommandValidationf(step, "glob", `missing "path" argument`)
	}
	ss, ok := path.(string)
	if !ok {
		return nil, errors.CommandValidationf(step, "glob", `argument "path" is not a string`)
	}
	c.Path = ss

	var err error
	// Content matching runs in multiline mode so that ^ and $ anchor to lines,
	// as a line-oriented content filter expects.
	if c.Regex, err = optRegex(step, "glob", m, "(?m)"); err != nil {
		return nil, err
	}
	if c.Mtime, err = optBool(step, "glob", m, "mtime"); err != nil {
		return nil, err
	}
	if c.Recursive, err = optBool(step, "glob", m, "recursive"); err != nil {
		return nil, err
	}
	if c.Relative, err = optBool(step, "glob", m, "relative"); err != nil {
		return nil, err
	}
	if c.Output, err = optString(step, "glob", m, "output"); err != nil {
		return nil, err
	}
	return c, nil
}

func optString(step, cmd string, m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.CommandValidationf(step, cmd, "argument %q is not a string", key)
	}
	return s, nil
}

func optBool(step, cmd string, m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.CommandValidationf(step, cmd, "argument %q is not a bool", key)
	}
	return b, nil
}

func optInt(step, cmd string, m map[string]any, key string) (int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, nil
	}
	i, ok := v.(int)
	if !ok {
		return 0, errors.CommandValidationf(step, cmd, "argument %q is not an integer", key)
	}
	if i <= 0 {
		return 0, errors.CommandValidationf(step, cmd, "argument %q must be a positive integer", key)
	}
	return i, nil
}

// optRegex compiles the "regex" argument, prepending flags such as "(?m)".
func optRegex(step, cmd string, m map[string]any, flags string) (*regexp.Regexp, error) {
	s, err := optString(step, cmd, m, "regex")
	if err != nil || s == "" {
		return nil, err
	}
	re, rerr := regexp.Compile(flags + s)
	if rerr != nil {
		return nil, errors.CommandValidationf(step, cmd,
			`argument "regex" is not a valid regular expression: %v`, rerr)
	}
	return re, nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	return false
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func unknownKey(m map[string]any, allowed []string) (string, bool) {
	for _, k := range sortedKeys(m) {
		if !slices.Contains(allowed, k) {
			return k, true
		}
	}
	return "", false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
