// Package share encodes a (mood, seed) activation as a query string so a
// rendering can be reproduced from a link.
package share

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/san-kum/moodcanvas/internal/seed"
)

// DefaultMood is used when a link carries no mood.
const DefaultMood = "Calm"

// Link is the reproducible part of an activation.
type Link struct {
	Mood string `json:"mood"`
	Seed uint32 `json:"seed"`
}

// New returns a link for mood with a fresh random seed.
func New(mood string) Link {
	if mood == "" {
		mood = DefaultMood
	}
	return Link{Mood: mood, Seed: seed.Random()}
}

// Reseed keeps the mood and draws a new seed.
func (l Link) Reseed() Link {
	return New(l.Mood)
}

// Encode returns the query form, e.g. "mood=Calm&seed=42".
func (l Link) Encode() string {
	v := url.Values{}
	v.Set("mood", l.Mood)
	v.Set("seed", strconv.FormatUint(uint64(l.Seed), 10))
	return v.Encode()
}

func (l Link) String() string {
	return "?" + l.Encode()
}

// URL attaches the link query to base, replacing any existing query.
func (l Link) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.RawQuery = l.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// Parse reads a link from a full URL, a "?query" or a bare query. A missing
// mood becomes DefaultMood; a missing, zero or non-numeric seed is replaced by
// a random one.
func Parse(raw string) Link {
	return ParseWith(raw, seed.Random)
}

// ParseWith is Parse with a caller-supplied seed source.
func ParseWith(raw string, random func() uint32) Link {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}
	// ParseQuery keeps every pair it could decode.
	q, _ := url.ParseQuery(raw)
	return FromValues(q, random)
}

// FromValues applies the link defaults to already parsed query values.
func FromValues(q url.Values, random func() uint32) Link {
	l := Link{Mood: q.Get("mood"), Seed: seed.Parse(q.Get("seed"))}
	if l.Mood == "" {
		l.Mood = DefaultMood
	}
	if l.Seed == 0 {
		l.Seed = random()
	}
	return l
}
