package trace

import (
	"fmt"
	"strings"
)

// Level is the --trace-level setting.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // reserved for crash dumps, emits nothing on its own
	LevelPhase        // commands, requests, lint stages
	LevelDetail       // plus per-file spans
	LevelDebug        // plus per-tag events
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// finest is the finest scope each level lets through; 0 lets nothing.
var finest = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopeStage,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeTag,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value, case-insensitively.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(finest) {
		return false
	}
	return scope != 0 && scope <= finest[l]
}
