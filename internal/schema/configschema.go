package schema

import "strings"

// ConfigOption is one recognized built-in config path, e.g.
// "process.cpus" or "docker.enabled" (spec.md §4.6's config-schema
// checker). Grounded on the teacher's internal/config/config.go
// struct-of-structs nesting (Config.Index.MaxFileSize,
// Config.Search.Ranking.Enabled, ...), generalized here to a path-indexed
// tree of recognized option names and declared value types instead of a
// compiled Go struct, since config-schema membership needs to be checked
// dynamically against parsed dotted paths rather than unmarshaled.
type ConfigOption struct {
	Path string
	Type FieldType
}

// ConfigSchema is the static, built-in tree of config scopes the config
// validator recognizes without needing any external schema document
// (spec.md §4.6, §6: "the config language's own built-in option surface,
// distinct from the script's param schema").
type ConfigSchema struct {
	options map[string]ConfigOption
}

// BuiltinConfigSchema is the process-wide static schema instance; built
// once at package init since its content is fixed (spec.md §6 lists the
// built-in config scopes as part of the language surface, not something
// that varies per workspace).
var BuiltinConfigSchema = newConfigSchema()

func newConfigSchema() *ConfigSchema {
	s := &ConfigSchema{options: make(map[string]ConfigOption)}
	for _, opt := range builtinOptions {
		s.options[opt.Path] = opt
	}
	return s
}

// Lookup reports whether path is a recognized built-in config option,
// after stripping the scopes the checker treats permissively (spec.md
// §4.6): a `profiles.<name>.` prefix is stripped first since profile
// names are user-defined, and `env.*`, `params.*`, `process.ext.*` are
// always accepted without a declared type (escape hatches for
// user-defined environment variables, script params, and executor
// extensions).
func (s *ConfigSchema) Lookup(path string) (ConfigOption, bool) {
	path = StripProfilePrefix(path)
	if isPermissivePrefix(path) {
		return ConfigOption{Path: path, Type: FieldDynamic}, true
	}
	opt, ok := s.options[path]
	return opt, ok
}

// StripProfilePrefix removes a leading `profiles.<name>.` scope, since
// profile names are user-defined and not part of the option surface
// itself.
func StripProfilePrefix(path string) string {
	const prefix = "profiles."
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return path
	}
	rest := path[len(prefix):]
	for i, c := range rest {
		if c == '.' {
			return rest[i+1:]
		}
	}
	return rest
}

// EnvVarName reports whether path begins with the `env.` scope and, if
// so, returns the remainder (the environment variable name, possibly
// itself dotted).
func EnvVarName(path string) (string, bool) {
	const prefix = "env."
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return "", false
	}
	return path[len(prefix):], true
}

// isPermissivePrefix reports whether path is always accepted without a
// declared type: `params.*` and `process.ext.*` unconditionally, and
// `env.*` only when the variable name itself is a single segment (spec.md
// §4.6: "env is skipped (single-segment env names only)") — a
// multi-segment env name like `env.PATH.SUB` is not a valid shell
// variable name and is instead reported by the config checker.
func isPermissivePrefix(path string) bool {
	if name, ok := EnvVarName(path); ok {
		return !strings.Contains(name, ".")
	}
	for _, p := range []string{"params.", "process.ext."} {
		if len(path) >= len(p) && path[:len(p)] == p {
			return true
		}
	}
	return false
}

// Names returns every recognized option path, used as "did you mean"
// suggestion candidates.
func (s *ConfigSchema) Names() []string {
	out := make([]string, 0, len(s.options))
	for n := range s.options {
		out = append(out, n)
	}
	return out
}

var builtinOptions = []ConfigOption{
	{"process.executor", FieldString},
	{"process.cpus", FieldInt},
	{"process.memory", FieldString},
	{"process.time", FieldString},
	{"process.disk", FieldString},
	{"process.container", FieldString},
	{"process.errorStrategy", FieldString},
	{"process.maxRetries", FieldInt},
	{"process.maxForks", FieldInt},
	{"process.queue", FieldString},
	{"process.publishDir", FieldDynamic},
	{"process.scratch", FieldDynamic},
	{"process.cache", FieldDynamic},

	{"executor.name", FieldString},
	{"executor.queueSize", FieldInt},
	{"executor.submitRateLimit", FieldString},
	{"executor.pollInterval", FieldString},
	{"executor.cpus", FieldInt},
	{"executor.memory", FieldString},

	{"docker.enabled", FieldBool},
	{"docker.runOptions", FieldString},
	{"docker.registry", FieldString},
	{"docker.temp", FieldString},

	{"singularity.enabled", FieldBool},
	{"singularity.autoMounts", FieldBool},
	{"singularity.cacheDir", FieldString},

	{"conda.enabled", FieldBool},
	{"conda.cacheDir", FieldString},
	{"conda.useMamba", FieldBool},

	{"manifest.name", FieldString},
	{"manifest.author", FieldString},
	{"manifest.description", FieldString},
	{"manifest.version", FieldString},
	{"manifest.mainScript", FieldString},
	{"manifest.defaultBranch", FieldString},
	{"manifest.nextflowVersion", FieldString},

	{"report.enabled", FieldBool},
	{"report.file", FieldString},
	{"report.overwrite", FieldBool},

	{"trace.enabled", FieldBool},
	{"trace.file", FieldString},
	{"trace.fields", FieldString},

	{"timeline.enabled", FieldBool},
	{"timeline.file", FieldString},

	{"dag.enabled", FieldBool},
	{"dag.file", FieldString},

	{"workDir", FieldString},
	{"resume", FieldBool},
}
