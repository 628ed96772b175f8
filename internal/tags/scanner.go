package tags

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"doclint/internal/dialect"
	"doclint/internal/token"
)

// Scanner finds tag occurrences line by line. It is immutable after
// construction and safe for concurrent use.
type Scanner struct {
	re      *regexp.Regexp
	vocab   Vocabulary
	block   dialect.Rules
	expr    dialect.Rules
	comment dialect.Rules
}

// NewScanner compiles the tag pattern for delims.
func NewScanner(delims token.Delimiters, vocab Vocabulary, prefixes dialect.Set) (*Scanner, error) {
	if err := delims.Validate(); err != nil {
		return nil, err
	}
	q := regexp.QuoteMeta
	pattern := fmt.Sprintf(`%s(.*?)%s|%s(.*?)%s|%s(.*?)%s`,
		q(delims.VarOpen), q(delims.VarClose),
		q(delims.BlockOpen), q(delims.BlockClose),
		q(delims.CommentOpen), q(delims.CommentClose),
	)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile tag pattern: %w", err)
	}
	return &Scanner{
		re:      re,
		vocab:   vocab,
		block:   dialect.Rules{Set: prefixes, AllowForeign: true, Known: vocab.Known},
		expr:    dialect.Rules{Set: prefixes},
		comment: dialect.Rules{Set: prefixes, AllowForeign: true},
	}, nil
}

// MustScanner is NewScanner for delimiters known to be valid.
func MustScanner(delims token.Delimiters, vocab Vocabulary, prefixes dialect.Set) *Scanner {
	s, err := NewScanner(delims, vocab, prefixes)
	if err != nil {
		panic(err)
	}
	return s
}

// Vocabulary returns the vocabulary the scanner was built with.
func (s *Scanner) Vocabulary() Vocabulary { return s.vocab }

// ScanLine returns the occurrences on one line, left to right.
func (s *Scanner) ScanLine(line string, lineNo int) []Occurrence {
	matches := s.re.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		occ := Occurrence{
			Line:   lineNo,
			Column: utf8.RuneCountInString(line[:m[0]]) + 1,
			Offset: m[0],
			Raw:    line[m[0]:m[1]],
		}
		switch {
		case m[2] >= 0:
			occ.Class = Expression
			s.fill(&occ, s.expr, line[m[2]:m[3]])
		case m[4] >= 0:
			occ.Class = BlockOpen
			s.fill(&occ, s.block, line[m[4]:m[5]])
			if base, ok := strings.CutPrefix(occ.Name, "end"); ok && base != "" {
				occ.Class = BlockClose
				occ.Name = base
			}
		default:
			occ.Class = Comment
			s.fill(&occ, s.comment, line[m[6]:m[7]])
		}
		out = append(out, occ)
	}
	return out
}

func (s *Scanner) fill(occ *Occurrence, rules dialect.Rules, body string) {
	body = trimControl(body)
	sp := rules.SplitPrefix(body)
	occ.Prefix = sp.Prefix
	occ.ForeignPrefix = sp.Foreign
	occ.Name = strings.ToLower(sp.Name)
	occ.Args = strings.TrimSpace(sp.Args)
}

// trimControl drops the whitespace control markers "{%-", "-%}", "{%+".
func trimControl(body string) string {
	if body != "" && (body[0] == '-' || body[0] == '+') {
		body = body[1:]
	}
	if n := len(body); n > 0 && (body[n-1] == '-' || body[n-1] == '+') {
		body = body[:n-1]
	}
	return body
}

// ScanText scans every line in order. Tags inside a raw section are literal
// text and are skipped; the raw and endraw tags themselves are kept.
func (s *Scanner) ScanText(lines []string) []Occurrence {
	var out []Occurrence
	inRaw := false
	for i, line := range lines {
		for _, occ := range s.ScanLine(line, i+1) {
			switch {
			case inRaw:
				if occ.Class == BlockClose && occ.Name == "raw" {
					inRaw = false
					out = append(out, occ)
				}
			case occ.Class == BlockOpen && occ.Name == "raw":
				inRaw = true
				out = append(out, occ)
			default:
				out = append(out, occ)
			}
		}
	}
	return out
}

// Count returns the number of tags of every class in lines.
func (s *Scanner) Count(lines []string) int {
	return len(s.ScanText(lines))
}
