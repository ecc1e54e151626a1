package moderation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// hashtagStopwords are marketplace filler words that make useless
// hashtags. Tokens of two runes or fewer are dropped separately.
var hashtagStopwords = map[string]struct{}{
	"продам":     {},
	"продаю":     {},
	"продається": {},
	"куплю":      {},
	"купую":      {},
	"віддам":     {},
	"новий":      {},
	"нова":       {},
	"нове":       {},
	"нові":       {},
	"бу":         {},
	"стан":       {},
	"стані":      {},
	"гарний":     {},
	"гарному":    {},
	"ідеальний":  {},
	"грн":        {},
	"гривень":    {},
	"шт":         {},
	"терміново":  {},
	"дешево":     {},
	"недорого":   {},
}

// DeriveHashtags turns the listing description into channel hashtags:
// the text is tokenized, lowercased, stripped of stopwords and short
// tokens, deduped in order of first appearance and capped at limit.
// An empty description or a limit of 0 yields no hashtags.
func DeriveHashtags(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(tokens))
	tags := make([]string, 0, limit)
	for _, token := range tokens {
		if utf8.RuneCountInString(token) <= 2 {
			continue
		}
		if _, stop := hashtagStopwords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		tags = append(tags, "#"+token)
		if len(tags) == limit {
			break
		}
	}
	return tags
}
