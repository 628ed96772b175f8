package diagfmt

import (
	"fmt"
	"io"

	"doclint/internal/tags"
)

// TagOutput is one occurrence in the JSON tag dump.
type TagOutput struct {
	Line          int        `json:"line"`
	Column        int        `json:"column"`
	Class         tags.Class `json:"class"`
	Name          string     `json:"name"`
	Prefix        string     `json:"prefix,omitempty"`
	ForeignPrefix string     `json:"foreign_prefix,omitempty"`
	Args          string     `json:"args,omitempty"`
	Raw           string     `json:"raw"`
}

// TagsPretty выводит вхождения тегов по одному на строку
func TagsPretty(w io.Writer, occs []tags.Occurrence) error {
	for i, o := range occs {
		name := o.Name
		if o.Class == tags.BlockClose {
			name = "end" + name
		}
		if _, err := fmt.Fprintf(w, "%3d: %-11s %-12s at %d:%d %q", i+1, o.Class, name, o.Line, o.Column, o.Raw); err != nil {
			return err
		}
		switch {
		case o.Prefix != "":
			fmt.Fprintf(w, " (prefix: %s)", o.Prefix)
		case o.ForeignPrefix != "":
			fmt.Fprintf(w, " (unknown prefix: %s)", o.ForeignPrefix)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// TagsJSON выводит вхождения тегов в JSON
func TagsJSON(w io.Writer, occs []tags.Occurrence, opts JSONOpts) error {
	out := make([]TagOutput, 0, len(occs))
	for _, o := range occs {
		out = append(out, TagOutput{
			Line:          o.Line,
			Column:        o.Column,
			Class:         o.Class,
			Name:          o.Name,
			Prefix:        o.Prefix,
			ForeignPrefix: o.ForeignPrefix,
			Args:          o.Args,
			Raw:           o.Raw,
		})
	}
	return encode(w, out, opts)
}
