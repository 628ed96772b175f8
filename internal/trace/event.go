package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Kind is what happened.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

// kindMarks are the text format prefixes.
var kindMarks = [...]string{
	KindSpanBegin: "→",
	KindSpanEnd:   "←",
	KindPoint:     "•",
	KindHeartbeat: "♡",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how coarse an event is; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command, HTTP request
	ScopeStage                   // extract, syntax, tag_match, ...
	ScopeFile                    // one document of a multi-file run
	ScopeTag                     // per-tag detail
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopeStage:  "stage",
	ScopeFile:   "file",
	ScopeTag:    "tag",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // "lint", "tag_match", "POST /api/v1/lint", ...
	Detail   string
	Extra    map[string]string
}

// Format is the trace output encoding.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

// FormatAuto defers the choice to the output path: *.ndjson and *.json get
// NDJSON, anything else text.
const FormatAuto Format = 255

// ParseFormat converts a --trace-format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// Resolve turns FormatAuto into a concrete format for output path.
func (f Format) Resolve(path string) Format {
	switch {
	case f != FormatAuto:
		return f
	case strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".json"):
		return FormatNDJSON
	}
	return FormatText
}

// Append encodes ev as one line and appends it to dst.
func (ev *Event) Append(dst []byte, format Format) []byte {
	if format == FormatNDJSON {
		return ev.appendJSON(dst)
	}
	return ev.appendText(dst)
}

// appendText renders
//
//	[15:04:05.000]   ← stage tag_match (done) {depth=3, errors=2}
//
// Child events are indented once.
func (ev *Event) appendText(dst []byte) []byte {
	dst = append(dst, '[')
	dst = ev.Time.AppendFormat(dst, "15:04:05.000")
	dst = append(dst, "] "...)
	if ev.ParentID != 0 {
		dst = append(dst, "  "...)
	}
	if int(ev.Kind) < len(kindMarks) && kindMarks[ev.Kind] != "" {
		dst = append(dst, kindMarks[ev.Kind]...)
		dst = append(dst, ' ')
	}
	dst = append(dst, ev.Scope.String()...)
	dst = append(dst, ' ')
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	if len(ev.Extra) > 0 {
		dst = append(dst, " {"...)
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = append(dst, k...)
			dst = append(dst, '=')
			dst = append(dst, ev.Extra[k]...)
		}
		dst = append(dst, '}')
	}
	return append(dst, '\n')
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func (ev *Event) appendJSON(dst []byte) []byte {
	// только строки и числа, Marshal не падает
	data, _ := json.Marshal(wireEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	dst = append(dst, data...)
	return append(dst, '\n')
}
