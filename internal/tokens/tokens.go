// Package tokens counts and truncates prompt text against a model budget.
package tokens

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var loaderOnce sync.Once

// Counter measures text in model tokens.
type Counter interface {
	Count(text string) int
	// Truncate returns the longest prefix of text that fits in limit tokens.
	Truncate(text string, limit int) string
}

// Tiktoken counts with a real BPE encoding such as cl100k_base.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads the named encoding from the BPE ranks embedded in the
// binary, so no download happens at startup.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

func (t *Tiktoken) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

func (t *Tiktoken) Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	toks := t.enc.Encode(text, nil, nil)
	if len(toks) <= limit {
		return text
	}
	return trimPartialRune(t.enc.Decode(toks[:limit]))
}

// trimPartialRune drops trailing bytes left over when a token boundary falls
// inside a multi-byte character.
func trimPartialRune(s string) string {
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

// Approx estimates a fixed number of runes per token. Used when no encoding
// can be loaded.
type Approx struct {
	RunesPerToken int
}

func (a Approx) rpt() int {
	if a.RunesPerToken <= 0 {
		return 4
	}
	return a.RunesPerToken
}

func (a Approx) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + a.rpt() - 1) / a.rpt()
}

func (a Approx) Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	maxRunes := limit * a.rpt()
	i := 0
	for pos := range text {
		if i == maxRunes {
			return text[:pos]
		}
		i++
	}
	return text
}
