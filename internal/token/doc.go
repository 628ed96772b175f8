// Package token defines lexical token kinds for template markup.
// Invariants:
//   - Token.Text is a slice of the original text (no copies).
//   - Token.Span matches Text exactly (Begin..End), except for synthetic
//     closing tokens which have an empty span at the point of recovery.
//   - Text outside tags is a single Data token per run; a whole comment is a
//     single Comment token.
//   - Tag names (if, for, endif, ...) are identifiers; only the word
//     operators of the expression grammar are keywords.
package token
