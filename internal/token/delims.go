package token

import "fmt"

// Delimiters are the open/close markers of the three tag shapes.
type Delimiters struct {
	VarOpen      string `toml:"var_open"`
	VarClose     string `toml:"var_close"`
	BlockOpen    string `toml:"block_open"`
	BlockClose   string `toml:"block_close"`
	CommentOpen  string `toml:"comment_open"`
	CommentClose string `toml:"comment_close"`
}

// DefaultDelimiters returns the Jinja delimiters.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		VarOpen:      "{{",
		VarClose:     "}}",
		BlockOpen:    "{%",
		BlockClose:   "%}",
		CommentOpen:  "{#",
		CommentClose: "#}",
	}
}

// Validate checks that every delimiter is set and the three openers are distinct.
func (d Delimiters) Validate() error {
	all := map[string]string{
		"var_open": d.VarOpen, "var_close": d.VarClose,
		"block_open": d.BlockOpen, "block_close": d.BlockClose,
		"comment_open": d.CommentOpen, "comment_close": d.CommentClose,
	}
	for name, v := range all {
		if v == "" {
			return fmt.Errorf("delimiter %s is empty", name)
		}
	}
	if d.VarOpen == d.BlockOpen || d.VarOpen == d.CommentOpen || d.BlockOpen == d.CommentOpen {
		return fmt.Errorf("opening delimiters must be distinct: %q %q %q", d.VarOpen, d.BlockOpen, d.CommentOpen)
	}
	return nil
}

// Openers returns the opening delimiters in a fixed order: var, block, comment.
func (d Delimiters) Openers() [3]string {
	return [3]string{d.VarOpen, d.BlockOpen, d.CommentOpen}
}
