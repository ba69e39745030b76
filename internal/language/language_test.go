package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeShortAndLong(t *testing.T) {
	for _, l := range Core {
		got, err := Normalize(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)

		got, err = Normalize(l.Long())
		require.NoError(t, err)
		assert.Equal(t, l, got, "long code %q should normalize to %q", l.Long(), l)
	}
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	got, err := Normalize("EN-US")
	require.NoError(t, err)
	assert.Equal(t, EN, got)

	got, err = Normalize("CHS")
	require.NoError(t, err)
	assert.Equal(t, CHS, got)
}

func TestNormalizeRejectsUnknown(t *testing.T) {
	for _, code := range []string{"", "xx", "en-gb", "english", "all", "md5"} {
		_, err := Normalize(code)
		assert.ErrorIs(t, err, ErrNotSupported, "code %q", code)
	}
}

func TestPairsAreBijective(t *testing.T) {
	seenLong := make(map[string]Language)
	for _, l := range Core {
		long := l.Long()
		require.NotEmpty(t, long, "language %q has no long code", l)
		prev, dup := seenLong[long]
		require.False(t, dup, "long code %q claimed by both %q and %q", long, prev, l)
		seenLong[long] = l
	}
	assert.Len(t, seenLong, len(Core))
}

func TestColumn(t *testing.T) {
	assert.Equal(t, "en_text", EN.Column())
	assert.Equal(t, "chs_text", CHS.Column())
}

func TestIsDictToken(t *testing.T) {
	assert.True(t, IsDictToken("all"))
	assert.True(t, IsDictToken("md5"))
	assert.False(t, IsDictToken("en"))
}
