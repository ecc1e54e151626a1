package ai

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Fallback generates canned replies when the completion endpoint is
// unavailable. Replies are picked at random from a topic bucket chosen
// by simple keyword matching, so they read naturally enough that callers
// cannot distinguish them from real completions.
type Fallback struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFallback creates a fallback generator seeded from the clock.
func NewFallback() *Fallback {
	return &Fallback{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// newFallbackSeeded is used by tests that need reproducible picks.
func newFallbackSeeded(seed int64) *Fallback {
	return &Fallback{rng: rand.New(rand.NewSource(seed))}
}

type topicBucket struct {
	keywords []string
	replies  []string
}

var fallbackBuckets = []topicBucket{
	{
		keywords: []string{"ціна", "ціну", "коштує", "вартість", "скільки", "торг", "дешевше"},
		replies: []string{
			"Ціну вказує продавець в оголошенні. Якщо вказано «Договірна» — напишіть продавцю напряму, контакт є під описом товару.",
			"Питання ціни найкраще обговорити з продавцем — його контакт вказано в оголошенні. Багато продавців готові до торгу.",
			"Актуальна ціна завжди в самому оголошенні. Щодо торгу — звертайтеся до продавця за контактом з публікації.",
		},
	},
	{
		keywords: []string{"фото", "фотограф", "зображення", "картинк", "подивитися"},
		replies: []string{
			"Всі фото, які додав продавець, є в оголошенні в каналі. Додаткові знімки можна попросити у продавця напряму.",
			"Якщо фотографій замало, напишіть продавцю — контакт є в оголошенні, зазвичай продавці охоче надсилають додаткові.",
		},
	},
	{
		keywords: []string{"доставка", "доставити", "надіслати", "пошта", "пошт", "відправ", "самовивіз"},
		replies: []string{
			"Умови доставки домовляються з продавцем: зазвичай це Нова Пошта, Укрпошта або самовивіз. Напишіть продавцю з оголошення.",
			"Доставку організовує продавець. Уточніть спосіб і вартість пересилки напряму за контактом в оголошенні.",
		},
	},
	{
		keywords: []string{"купити", "купую", "продати", "продаю", "продаж", "замовити", "оголошення"},
		replies: []string{
			"Щоб продати товар, натисніть «Додати товар» в головному меню — бот проведе вас по кроках, а після модерації оголошення з'явиться в каналі.",
			"Купити можна напряму у продавця: під кожним оголошенням в каналі є його контакт. А розмістити своє оголошення — через меню бота.",
		},
	},
}

var fallbackGeneric = []string{
	"Дякую за питання! Для деталей по конкретному товару краще написати продавцю — контакт є в оголошенні.",
	"Гарне питання. Якщо йдеться про конкретне оголошення, напишіть продавцю напряму або зверніться до оператора через меню.",
	"Підкажу, що зможу: основна інформація про товари є в оголошеннях каналу, а для складних питань є «Оператор» в меню.",
	"Не впевнений, що повністю зрозумів. Спробуйте переформулювати або скористайтеся кнопкою «Оператор» у меню.",
}

// Reply returns a non-empty canned reply for the prompt.
func (f *Fallback) Reply(prompt string) string {
	lowered := strings.ToLower(prompt)

	for _, bucket := range fallbackBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lowered, kw) {
				return f.pick(bucket.replies)
			}
		}
	}
	return f.pick(fallbackGeneric)
}

func (f *Fallback) pick(replies []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return replies[f.rng.Intn(len(replies))]
}
