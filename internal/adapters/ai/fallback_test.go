package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackPicksTopicBucket(t *testing.T) {
	f := newFallbackSeeded(42)

	testCases := []struct {
		name    string
		prompt  string
		replies []string
	}{
		{"price question", "А скільки коштує цей велосипед?", fallbackBuckets[0].replies},
		{"photo question", "Можна ще фото з іншого боку?", fallbackBuckets[1].replies},
		{"delivery question", "Ви робите доставку Новою Поштою?", fallbackBuckets[2].replies},
		{"selling question", "Хочу продати стару шафу, як це зробити?", fallbackBuckets[3].replies},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reply := f.Reply(tc.prompt)
			assert.Contains(t, tc.replies, reply)
		})
	}
}

func TestFallbackGenericReply(t *testing.T) {
	f := newFallbackSeeded(42)

	reply := f.Reply("xyzzy")

	assert.Contains(t, fallbackGeneric, reply)
}

func TestFallbackKeywordMatchIsCaseInsensitive(t *testing.T) {
	f := newFallbackSeeded(7)

	reply := f.Reply("ДОСТАВКА є?")

	assert.Contains(t, fallbackBuckets[2].replies, reply)
}

func TestFallbackNeverReturnsEmpty(t *testing.T) {
	f := NewFallback()

	for _, prompt := range []string{"", "привіт", "ціна?", "..."} {
		assert.NotEmpty(t, f.Reply(prompt))
	}
}
