package tokens

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestApproxCount(t *testing.T) {
	a := Approx{RunesPerToken: 4}
	require.Equal(t, 0, a.Count(""))
	require.Equal(t, 1, a.Count("abc"))
	require.Equal(t, 1, a.Count("abcd"))
	require.Equal(t, 2, a.Count("abcde"))
	require.Equal(t, 1, a.Count("日本語"), "runes, not bytes")
}

func TestApproxTruncate(t *testing.T) {
	a := Approx{RunesPerToken: 2}
	require.Equal(t, "", a.Truncate("abcdef", 0))
	require.Equal(t, "", a.Truncate("abcdef", -3))
	require.Equal(t, "abcd", a.Truncate("abcdef", 2))
	require.Equal(t, "abcdef", a.Truncate("abcdef", 3))
	require.Equal(t, "abcdef", a.Truncate("abcdef", 10))
	require.Equal(t, "日本", a.Truncate("日本語です", 1))
}

func TestApproxTruncateFitsCount(t *testing.T) {
	a := Approx{}
	text := strings.Repeat("word ", 500)
	for _, limit := range []int{1, 7, 100, 624} {
		require.LessOrEqual(t, a.Count(a.Truncate(text, limit)), limit)
	}
}

func TestApproxZeroValueDefaults(t *testing.T) {
	var a Approx
	require.Equal(t, 2, a.Count("12345678"))
}

func newCL100k(t *testing.T) *Tiktoken {
	t.Helper()
	tk, err := NewTiktoken("cl100k_base")
	require.NoError(t, err)
	return tk
}

func TestTiktokenCount(t *testing.T) {
	tk := newCL100k(t)
	require.Equal(t, 0, tk.Count(""))
	require.Equal(t, 2, tk.Count("hello world"))
}

func TestTiktokenTruncate(t *testing.T) {
	tk := newCL100k(t)
	require.Equal(t, "", tk.Truncate("hello world", 0))
	require.Equal(t, "", tk.Truncate("hello world", -1))
	require.Equal(t, "hello world", tk.Truncate("hello world", 2))
	require.Equal(t, "hello world", tk.Truncate("hello world", 50))
	require.Equal(t, "hello", tk.Truncate("hello world", 1))
}

func TestTiktokenTruncateKeepsWholeRunes(t *testing.T) {
	tk := newCL100k(t)
	text := strings.Repeat("日本語のテキスト🙂 ", 20)
	for limit := 1; limit <= tk.Count(text); limit++ {
		got := tk.Truncate(text, limit)
		require.True(t, utf8.ValidString(got), "limit %d produced %q", limit, got)
		require.True(t, strings.HasPrefix(text, got), "limit %d", limit)
	}
}

func TestNewTiktokenUnknownEncoding(t *testing.T) {
	_, err := NewTiktoken("not-an-encoding")
	require.Error(t, err)
}

func TestTrimPartialRune(t *testing.T) {
	full := "ab日"
	require.Equal(t, "ab", trimPartialRune(full[:3]))
	require.Equal(t, "ab", trimPartialRune(full[:4]))
	require.Equal(t, full, trimPartialRune(full))
	require.Equal(t, "x�", trimPartialRune("x�"))
}
