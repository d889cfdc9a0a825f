package slug

import (
	"strings"
	"unicode"
)

// labelMaxLength is the RFC 1035 ceiling for a single domain label.
const labelMaxLength = 63

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength int
	separator string
}

func defaultConfig() *config {
	return &config{
		maxLength: 0, // no limit
		separator: "-",
	}
}

// MaxLength truncates the slug to at most n runes.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Separator sets the string used in place of runs of non-alphanumeric
// characters. Default is "-"; an empty separator collapses words together.
func Separator(s string) Option {
	return func(c *config) {
		c.separator = s
	}
}

// Make converts a free-form name into a lowercase slug of ASCII letters and
// digits. Runs of other characters collapse into one separator; common Latin
// diacritics fold to their ASCII equivalents.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var b strings.Builder
	b.Grow(len(s))

	lastWasSep := true // suppress a leading separator
	runeCount := 0

	for _, r := range s {
		if cfg.maxLength > 0 && runeCount >= cfg.maxLength {
			break
		}

		r = unicode.ToLower(r)

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			runeCount++
			continue
		}

		if folded, ok := foldDiacritic(r); ok {
			b.WriteRune(folded)
			lastWasSep = false
			runeCount++
			continue
		}

		if !lastWasSep && cfg.separator != "" {
			if cfg.maxLength > 0 && runeCount+len(cfg.separator) > cfg.maxLength {
				break
			}
			b.WriteString(cfg.separator)
			lastWasSep = true
			runeCount += len([]rune(cfg.separator))
		}
	}

	return strings.TrimSuffix(b.String(), cfg.separator)
}

// Label converts a name into a valid domain label: lowercase alphanumerics
// only, at most 63 characters. Returns "" when nothing usable remains.
func Label(s string) string {
	return Make(s, Separator(""), MaxLength(labelMaxLength))
}

// foldDiacritic maps common Latin diacritics to ASCII equivalents. Covers the
// major European languages; anything unmapped is treated as a separator.
func foldDiacritic(r rune) (rune, bool) {
	folded, ok := diacriticMap[r]
	return folded, ok
}

var diacriticMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ă': 'a', 'ą': 'a',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'ď': 'd', 'đ': 'd',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ė': 'e', 'ę': 'e', 'ě': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'į': 'i',
	'ľ': 'l', 'ł': 'l',
	'ñ': 'n', 'ń': 'n', 'ň': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o', 'ő': 'o',
	'ŕ': 'r', 'ř': 'r',
	'ś': 's', 'š': 's', 'ş': 's', 'ș': 's', 'ß': 's',
	'ť': 't', 'ţ': 't', 'ț': 't',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ů': 'u', 'ű': 'u', 'ų': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ź': 'z', 'ż': 'z', 'ž': 'z',
	'æ': 'a', 'œ': 'o',
}
