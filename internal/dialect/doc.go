// Package dialect models the short tag prefixes that rich-document templating
// extensions put in front of a tag name ("{%p if %}", "{%tr for %}", "{{r x }}").
//
// A prefix scopes the tag to a structural unit of the host document
// (paragraph, table row, table cell, text run). The linter keeps the prefix
// next to the tag name: a closing tag only matches an opening tag with the
// same prefix. Prefixes outside the configured Set are recorded as foreign
// and otherwise ignored.
package dialect
