package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	short := "short body"
	assert.Equal(t, short, tp.TruncateText(short, 100))

	long := strings.Repeat("a", 200)
	truncated := tp.TruncateText(long, 50)
	assert.True(t, strings.HasPrefix(truncated, strings.Repeat("a", 50)))
	assert.True(t, strings.HasSuffix(truncated, "[... Content truncated due to size limits ...]"))

	// maxSize <= 0 disables truncation
	assert.Equal(t, long, tp.TruncateText(long, 0))
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	// "héllo" repeated; cutting mid-rune must not leave a broken sequence
	text := strings.Repeat("héllo ", 20)
	for max := 1; max < 20; max++ {
		truncated := tp.TruncateText(text, max)
		assert.True(t, utf8.ValidString(truncated), "maxSize=%d", max)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	clean := "perfectly fine text"
	assert.Equal(t, clean, tp.SanitizeUTF8(clean))

	dirty := "bad\xffbyte"
	assert.Equal(t, "badbyte", tp.SanitizeUTF8(dirty))
	assert.True(t, utf8.ValidString(tp.SanitizeUTF8(dirty)))
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	long := strings.Repeat("x", 100) + "\xff"
	processed := tp.ProcessText(long, 50)
	assert.True(t, utf8.ValidString(processed))
	assert.True(t, strings.HasSuffix(processed, "[... Content truncated due to size limits ...]"))
}
