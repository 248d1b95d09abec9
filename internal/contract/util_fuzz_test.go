package contract

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// FuzzTruncateName checks that truncated names never exceed the requested width.
func FuzzTruncateName(f *testing.F) {
	seeds := []struct {
		name  string
		width int
	}{
		{"Followers", 5},
		{"", 0},
		{"Подписчики канала", 8},
		{"a", -1},
	}
	for _, seed := range seeds {
		f.Add(seed.name, seed.width)
	}

	f.Fuzz(func(t *testing.T, name string, width int) {
		if !utf8.ValidString(name) {
			return
		}
		got := TruncateName(name, width)
		if width > 3 {
			assert.LessOrEqual(t, utf8.RuneCountInString(got), width)
		} else {
			assert.Equal(t, name, got)
		}
	})
}

// FuzzParseBoolString checks that parsing never panics and only known words succeed.
func FuzzParseBoolString(f *testing.F) {
	for _, s := range []string{"yes", "no", "1", "0", "TRUE", "", "maybe"} {
		f.Add(s)
	}

	f.Fuzz(func(_ *testing.T, s string) {
		_, _ = ParseBoolString(s)
	})
}
