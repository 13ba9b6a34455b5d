package config

// Validator applies smart defaults to a parsed Config, catching
// out-of-range values a hand-edited .wflsp.kdl/.wflsp.toml might carry
// without failing startup over them — grounded on the teacher's
// Validator.ValidateAndSetDefaults, generalized from "validate or
// return an error" to "clamp to a safe value", since an operating
// config (unlike the script language's own config schema) should never
// stop the coordinator from starting.
type Validator struct{}

// ValidateAndSetDefaults clamps cfg's fields to sane ranges in place.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) {
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = DefaultDebounceMs
	}
	if cfg.DebounceMs > 60_000 {
		cfg.DebounceMs = 60_000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "INFO"
	}
	if cfg.Excludes == nil {
		cfg.Excludes = defaultExcludes()
	}
}
