package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// loadKDL parses a .wflsp.kdl file, expected shape:
//
//	debounce_ms 1000
//	suppress_future_warnings false
//	log_level "INFO"
//	exclude {
//	    "**/work/**"
//	    "**/results/**"
//	}
func loadKDL(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := Defaults()
	var sawExclude bool
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "debounce_ms":
			if v, ok := firstIntArg(n); ok {
				cfg.DebounceMs = v
			}
		case "suppress_future_warnings":
			if b, ok := firstBoolArg(n); ok {
				cfg.SuppressFutureWarnings = b
			}
		case "log_level":
			if s, ok := firstStringArg(n); ok {
				cfg.LogLevel = s
			}
		case "respect_gitignore":
			if b, ok := firstBoolArg(n); ok {
				cfg.RespectGitignore = b
			}
		case "exclude":
			cfg.Excludes = collectStringArgs(n)
			sawExclude = true
		}
	}
	if sawExclude {
		cfg.Excludes = dedupe(cfg.Excludes)
	}
	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads a node's string list either from inline
// arguments (exclude "a" "b") or from block-form children whose node
// name is itself the string value (exclude { "a" b })..
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// dedupe is an alias kept local to this file's call sites; the actual
// implementation is DeduplicatePatterns in build_artifact_detector.go,
// shared with BuildArtifactDetector's own output.
func dedupe(patterns []string) []string {
	return DeduplicatePatterns(patterns)
}
