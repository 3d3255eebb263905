package config

import (
	"fmt"
	"strings"
)

// ConfigError aggregates everything wrong with a config file.
type ConfigError struct {
	Path string
	// Missing holds unresolved variables: "VAR" for ${VAR}, and
	// "VAR: message" for ${VAR:?message}.
	Missing []string
	Errors  []string // "key: problem" entries from Validate
}

func (e *ConfigError) Error() string {
	problems := e.Problems()
	if len(problems) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d problem", e.Path, len(problems))
	if len(problems) > 1 {
		b.WriteString("s")
	}
	for _, p := range problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

// Problems returns one line per unresolved variable, then one per
// validation error.
func (e *ConfigError) Problems() []string {
	out := make([]string, 0, len(e.Missing)+len(e.Errors))
	for _, m := range e.Missing {
		name, msg, ok := strings.Cut(m, ": ")
		if ok {
			out = append(out, fmt.Sprintf("${%s} is not set: %s", name, msg))
			continue
		}
		out = append(out, fmt.Sprintf("${%s} is not set", name))
	}
	return append(out, e.Errors...)
}

// HasErrors reports whether anything is wrong.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
