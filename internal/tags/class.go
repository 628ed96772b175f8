package tags

import "fmt"

// Class is the shape of a tag occurrence.
type Class uint8

const (
	BlockOpen Class = iota
	BlockClose
	Expression
	Comment
)

var classNames = [...]string{
	BlockOpen:  "block_open",
	BlockClose: "block_close",
	Expression: "expression",
	Comment:    "comment",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

// MarshalText encodes the class as its wire name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Occurrence is one tag found on a line.
type Occurrence struct {
	Class Class
	// Name is the lowercased tag name; for closers it is the base name
	// ("if" for "endif"). Expressions and comments keep their first word.
	Name string
	// Prefix is a recognized dialect prefix ("p", "tr", "tc", "r").
	Prefix string
	// ForeignPrefix is a prefix-shaped word the dialect does not know.
	// It does not take part in matching.
	ForeignPrefix string
	Line          int    // 1-based
	Column        int    // 1-based, in runes
	Offset        int    // byte offset of Raw within the line
	Raw           string // whole tag including delimiters
	Args          string // text after the name
}

// HasPrefix reports whether the tag carries any prefix, recognized or not.
func (o Occurrence) HasPrefix() bool {
	return o.Prefix != "" || o.ForeignPrefix != ""
}

// OpenName returns the opener as written in diagnostics: "if", "pif".
func (o Occurrence) OpenName() string {
	return o.Prefix + o.Name
}

// CloseName returns the matching closer: "endif", "pendif".
func (o Occurrence) CloseName() string {
	return o.Prefix + "end" + o.Name
}

// Markup renders a block tag the way it is written in a template:
// "{% endif %}", "{%p endif %}".
func Markup(prefix, name string) string {
	if prefix == "" {
		return "{% " + name + " %}"
	}
	return "{%" + prefix + " " + name + " %}"
}
