package lint

import (
	"fmt"

	"doclint/internal/dialect"
	"doclint/internal/tags"
	"doclint/internal/token"
)

// Config is the shared, read-only part of the linter setup. One Config
// serves any number of concurrent runs.
type Config struct {
	Delims   token.Delimiters
	Vocab    tags.Vocabulary
	Prefixes dialect.Set

	MaxDepth        int // глубина вложенности, после которой NestedError
	ComplexExprLen  int // длина выражения с разделителями для ComplexExpression
	PreviewLen      int // символов в template_preview
	ContextLines    int // строк контекста вокруг синтаксической ошибки
	MaxSyntaxErrors int
	LongLineContext int // символов строки в контексте LongLine
}

// DefaultConfig returns the docxtpl setup.
func DefaultConfig() Config {
	return Config{
		Delims:          token.DefaultDelimiters(),
		Vocab:           tags.DefaultVocabulary(),
		Prefixes:        dialect.Docxtpl(),
		MaxDepth:        10,
		ComplexExprLen:  50,
		PreviewLen:      500,
		ContextLines:    2,
		MaxSyntaxErrors: 20,
		LongLineContext: 100,
	}
}

func (c Config) validate() error {
	if err := c.Delims.Validate(); err != nil {
		return err
	}
	switch {
	case c.MaxDepth < 1:
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	case c.ComplexExprLen < 1:
		return fmt.Errorf("complex expression length must be positive, got %d", c.ComplexExprLen)
	case c.PreviewLen < 0, c.ContextLines < 0, c.MaxSyntaxErrors < 0, c.LongLineContext < 0:
		return fmt.Errorf("negative limit in lint config")
	}
	return nil
}
