package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ResponseFormat selects how the HTTP API returns a result.
type ResponseFormat string

const (
	FormatPDF  ResponseFormat = "pdf"
	FormatJSON ResponseFormat = "json"
)

// Options are the per-request switches. JSON names match the public API.
type Options struct {
	Verbose              bool           `json:"verbose" toml:"verbose"`
	CheckUndefinedVars   bool           `json:"check_undefined_vars" toml:"check_undefined_vars"`
	MaxLineLength        int            `json:"max_line_length" toml:"max_line_length" validate:"min=1,max=10000"`
	FailOnWarnings       bool           `json:"fail_on_warnings" toml:"fail_on_warnings"`
	CheckTagMatching     bool           `json:"check_tag_matching" toml:"check_tag_matching"`
	CheckNestedStructure bool           `json:"check_nested_structure" toml:"check_nested_structure"`
	ResponseFormat       ResponseFormat `json:"response_format" toml:"response_format" validate:"oneof=pdf json"`
}

// DefaultOptions returns the options used when a request sends none.
func DefaultOptions() Options {
	return Options{
		CheckUndefinedVars:   true,
		MaxLineLength:        200,
		CheckTagMatching:     true,
		CheckNestedStructure: true,
		ResponseFormat:       FormatPDF,
	}
}

// ErrMalformedOptions wraps JSON decoding failures in ParseOptions.
var ErrMalformedOptions = errors.New("malformed options JSON")

// OptionError describes one rejected field.
type OptionError struct {
	Field string
	Rule  string
	Param string
	Value any
}

func (e OptionError) String() string {
	switch e.Rule {
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", e.Field, e.Param, e.Value)
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", e.Field, e.Param, e.Value)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", e.Field, e.Param, e.Value)
	}
	return fmt.Sprintf("%s failed %s validation", e.Field, e.Rule)
}

// OptionsError is returned by Validate when any field is out of range.
type OptionsError struct {
	Problems []OptionError
}

func (e *OptionsError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return "invalid options: " + strings.Join(parts, "; ")
}

var optionsValidator = newOptionsValidator()

func newOptionsValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// имена полей в ошибках как в JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks value ranges. The error, if any, is an *OptionsError.
func (o Options) Validate() error {
	err := optionsValidator.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate options: %w", err)
	}
	out := &OptionsError{Problems: make([]OptionError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Problems = append(out.Problems, OptionError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}

// ParseOptions decodes JSON over DefaultOptions and validates the result.
// Blank input yields the defaults. Unknown keys are ignored.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if len(bytes.TrimSpace(data)) == 0 {
		return opts, nil
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("%w: %w", ErrMalformedOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return DefaultOptions(), err
	}
	return opts, nil
}
