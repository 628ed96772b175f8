package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name                   string
		text                   string
		errors, warnings, tags int
		want                   float64
	}{
		{"clean", "x", 0, 0, 0, 100},
		{"bonus capped", "x", 1, 0, 20, 95},
		{"bonus", "x", 1, 1, 2, 84},
		{"floor", "x", 10, 0, 0, 0},
		{"blank", "  \n\t", 0, 0, 5, 0},
		{"empty", "", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, completeness(tt.text, tt.errors, tt.warnings, tt.tags))
		})
	}
}

func TestCompletenessMonotone(t *testing.T) {
	for tags := 0; tags <= 8; tags += 4 {
		for e := 0; e < 10; e++ {
			for w := 0; w < 10; w++ {
				s := completeness("x", e, w, tags)
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 100.0)
				assert.LessOrEqual(t, completeness("x", e+1, w, tags), s)
				assert.LessOrEqual(t, completeness("x", e, w+1, tags), s)
			}
		}
	}
}
