package parser

import (
	"fmt"
	"strings"
	"testing"

	"doclint/internal/diag"
	"doclint/internal/dialect"
	"doclint/internal/source"
)

func parseText(t *testing.T, src string, maxErrors int) ([]diag.Diagnostic, Result, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("doc", []byte(src)))
	bag := diag.NewBag(100)
	res := ParseFile(file, Options{
		Reporter:  diag.BagReporter{Bag: bag},
		Prefixes:  dialect.Docxtpl(),
		MaxErrors: maxErrors,
	})
	return bag.Items(), res, fs
}

func diagnosticsSummary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func TestValidTemplates(t *testing.T) {
	inputs := []string{
		"Hello {{ name }}",
		"{{ user.name|upper }}",
		"{{ items[0].price * 1.2 }}",
		"{{ a if b else c }}",
		"{{ a, b }}",
		"{{ x.0 }}",
		"{{ -x ** 2 }}",
		"{{ 'a' ~ b }}",
		"{{ 'a' 'b' }}",
		"{{ a[1:2] }}{{ a[::2] }}{{ a[1:] }}",
		"{{ {'a': 1, 'b': [1, 2]} }}",
		"{{ f(*args, **kw) }}",
		"{{ '%.2f'|format(amount) }}",
		"{{ x|default('n/a', true) }}",
		"{{ x is divisibleby 3 }}",
		"{{ x is not none }}",
		"{{ p }}",
		"{{ r if x else y }}",
		"{{r rich_text }}",
		"{{p subdoc }}",
		"{% if x is not none and y > 2 %}",
		"{% if x not in y %}",
		"{% elif not a or b %}",
		"{% else %}",
		"{% for k, v in d.items() if v %}",
		"{% for (a, b) in pairs %}",
		"{% for i in range(3) recursive %}",
		"{% set total = price * qty %}",
		"{% set ns.count = ns.count + 1 %}",
		"{% set body %}",
		"{% set body | upper %}",
		"{%p if show %}",
		"{%tr for r in rows %}",
		"{%tc endfor %}",
		"{% macro field(name, value='') %}",
		"{% call(u) list(users) %}",
		"{% filter upper|trim %}",
		"{% with a = 1, b = 2 %}",
		"{% block content scoped %}",
		"{% endblock content %}",
		"{% include 'footer.html' ignore missing with context %}",
		"{% import 'forms.html' as forms %}",
		"{% from 'f.html' import input as i, area %}",
		"{% extends 'base.html' %}",
		"{% cellbg color %}{% colspan n %}{% hm %}{% vm %}",
		"{% endfor %}",
		"{% unknowntag whatever %}",
		"{# {{ broken #}",
		"{% raw %}{{ broken {% endraw %}",
		"{%- if x -%}{{- y -}}{%- endif -%}",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			diags, _, _ := parseText(t, src, 0)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(diags))
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"empty_print", "{{ }}", diag.SynEmptyTag},
		{"empty_block", "{% %}", diag.SynEmptyTag},
		{"no_tag_name", "{% 'x' %}", diag.SynUnexpectedToken},
		{"for_without_in", "{% for x items %}", diag.SynForMissingIn},
		{"if_without_condition", "{% if %}", diag.SynExpectExpression},
		{"missing_operand", "{{ a + }}", diag.SynExpectExpression},
		{"trailing_tokens", "{{ a b }}", diag.SynTrailingTokens},
		{"end_with_args", "{% endif x %}", diag.SynTrailingTokens},
		{"unclosed_paren", "{{ (a + b }}", diag.SynUnclosedParen},
		{"unclosed_bracket", "{{ [1, 2 }}", diag.SynUnclosedBracket},
		{"set_without_target", "{% set = 1 %}", diag.SynExpectIdentifier},
		{"set_without_value", "{% set x = %}", diag.SynExpectExpression},
		{"macro_without_params", "{% macro f %}", diag.SynUnexpectedToken},
		{"import_without_as", "{% import 'x.html' %}", diag.SynExpectKeyword},
		{"from_without_import", "{% from 'x' foo %}", diag.SynExpectKeyword},
		{"empty_filter", "{{ x| }}", diag.SynExpectIdentifier},
		{"dot_without_name", "{{ x.'a' }}", diag.SynExpectIdentifier},
		{"unterminated_tag", "{{ name", diag.LexUnterminatedTag},
		{"unterminated_string", "{{ 'abc }}", diag.LexUnterminatedString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags, res, _ := parseText(t, tt.src, 0)
			if len(diags) != 1 {
				t.Fatalf("want exactly one diagnostic, got %s", diagnosticsSummary(diags))
			}
			if diags[0].Code != tt.code {
				t.Fatalf("want %s, got %s", tt.code.ID(), diagnosticsSummary(diags))
			}
			if res.Errors != 1 {
				t.Fatalf("Result.Errors: want 1, got %d", res.Errors)
			}
		})
	}
}

func TestResyncAfterBrokenTag(t *testing.T) {
	diags, res, _ := parseText(t, "{{ a + }} ok {% for x items %} {{ fine }} {% if %}", 0)
	if len(diags) != 3 {
		t.Fatalf("want 3 diagnostics, got %s", diagnosticsSummary(diags))
	}
	if res.Tags != 4 {
		t.Fatalf("want 4 tags, got %d", res.Tags)
	}
}

func TestErrorPosition(t *testing.T) {
	diags, _, fs := parseText(t, "line1\n{{ a + }}", 0)
	if len(diags) != 1 {
		t.Fatalf("want one diagnostic, got %s", diagnosticsSummary(diags))
	}
	start, _ := fs.Resolve(diags[0].Primary)
	if start.Line != 2 || start.Col != 8 {
		t.Fatalf("want 2:8, got %d:%d", start.Line, start.Col)
	}
	if !strings.Contains(diags[0].Message, "end of print statement") {
		t.Fatalf("unexpected message %q", diags[0].Message)
	}
}

func TestMaxErrors(t *testing.T) {
	src := strings.Repeat("{{ }}\n", 5)
	diags, res, _ := parseText(t, src, 2)
	if len(diags) != 2 {
		t.Fatalf("want 2 diagnostics, got %s", diagnosticsSummary(diags))
	}
	if !res.Truncated {
		t.Fatal("expected Truncated to be set")
	}
}

func TestTagCount(t *testing.T) {
	_, res, _ := parseText(t, "a {{ x }} {% if y %}{# c #} b", 0)
	if res.Tags != 3 {
		t.Fatalf("want 3 tags, got %d", res.Tags)
	}
}
