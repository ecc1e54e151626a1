package messages

import (
	"fmt"
	"html"
	"strings"

	"github.com/lithammer/dedent"
)

// Main menu labels. The router matches incoming text against these, so
// they must stay byte-identical to what the reply keyboard sends.
const (
	MenuAddProduct    = "🛍 Додати товар"
	MenuMyProducts    = "📦 Мої товари"
	MenuAIChat        = "🤖 AI-помічник"
	MenuFAQ           = "❓ FAQ"
	MenuOperator      = "👨‍💻 Оператор"
	MenuPersonalOffer = "💬 Персональна пропозиція"
	MenuBackToMain    = "⬅️ Головне меню"
)

// Wizard control labels.
const (
	BtnNext   = "➡️ Далі"
	BtnSkip   = "⏭ Пропустити"
	BtnCancel = "❌ Скасувати"
)

// Esc escapes user-provided text for HTML parse mode.
func Esc(s string) string {
	return html.EscapeString(s)
}

func trimmed(s string) string {
	return strings.TrimSpace(dedent.Dedent(s))
}

// --- Main menu ---

func Welcome(firstName string) string {
	return fmt.Sprintf(trimmed(`
		Привіт, %s! 👋

		Це бот барахолки: тут можна виставити товар на продаж або знайти щось для себе в нашому каналі.

		Оберіть дію в меню нижче.`), Esc(firstName))
}

var MainMenuShort = "Головне меню. Оберіть дію 👇"

// --- Listing wizard ---

var (
	WizardAskName = trimmed(`
		<b>Крок 1 з 5.</b> Напишіть назву товару.

		Наприклад: «Дитячий велосипед 16"» або «Куртка зимова, р. М».`)

	WizardAskPrice = trimmed(`
		<b>Крок 2 з 5.</b> Вкажіть ціну.

		Можна числом у гривнях або текстом, наприклад «Договірна».`)

	WizardAskPhotos = trimmed(`
		<b>Крок 3 з 5.</b> Надішліть до 5 фото товару.

		Коли фото додано, натисніть «➡️ Далі». Якщо фото немає, натисніть «⏭ Пропустити».`)

	WizardAskLocation = trimmed(`
		<b>Крок 4 з 5.</b> Надішліть геолокацію, щоб покупці бачили, звідки товар.

		Натисніть кнопку нижче або «⏭ Пропустити».`)

	WizardAskDescription = trimmed(`
		<b>Крок 5 з 5.</b> Додайте опис: стан, розмір, комплектація, причина продажу.

		Від 10 до 1000 символів, або натисніть «⏭ Пропустити».`)

	ErrNameLength = "Назва має бути від 3 до 100 символів. Спробуйте ще раз."

	ErrPriceLength = "Ціна має бути непорожньою і не довшою за 50 символів. Спробуйте ще раз."

	ErrDescriptionLength = "Опис має бути від 10 до 1000 символів, або натисніть «⏭ Пропустити»."

	WizardPhotoLimitReached = "Досягнуто ліміт у 5 фото. Натисніть «➡️ Далі», щоб продовжити."

	WizardNeedPhotoOrSkip = "Надішліть фото, натисніть «➡️ Далі» або «⏭ Пропустити»."

	WizardNeedLocationOrSkip = "Надішліть геолокацію кнопкою нижче або натисніть «⏭ Пропустити»."

	WizardCancelled = "Створення оголошення скасовано."

	WizardSubmitted = trimmed(`
		Дякуємо! 🎉

		Ваше оголошення відправлено на модерацію. Щойно адміністратор його перевірить, ви отримаєте сповіщення.`)

	WizardConfirmTitle = "<b>Перевірте оголошення перед відправкою:</b>"

	BtnConfirmSubmit = "✅ Відправити на модерацію"
	BtnConfirmCancel = "❌ Скасувати"

	WizardUseButtons = "Скористайтеся кнопками під повідомленням, щоб підтвердити або скасувати."
)

func WizardPhotoAccepted(count, max int) string {
	return fmt.Sprintf("Фото %d з %d додано. Надішліть ще або натисніть «➡️ Далі».", count, max)
}

func WizardPendingLimit(limit int) string {
	return fmt.Sprintf(trimmed(`
		У вас вже %d оголошень на модерації — це максимум.

		Зачекайте, поки адміністратор перевірить попередні, і спробуйте знову.`), limit)
}

// --- Moderation ---

var (
	ModerationBtnApprove = "✅ Опублікувати"
	ModerationBtnReject  = "❌ Відхилити"
	ModerationBtnSold    = "💰 Продано"

	ModerationAlreadyHandled = "Вже оброблено"

	SoldBadge = "✅ ПРОДАНО"
)

func ListingApprovedForSeller(name, link string) string {
	if link != "" {
		return fmt.Sprintf("Ваше оголошення «%s» опубліковано в каналі! 🎉\n\n%s", Esc(name), link)
	}
	return fmt.Sprintf("Ваше оголошення «%s» опубліковано в каналі! 🎉", Esc(name))
}

func ListingRejectedForSeller(name string) string {
	return fmt.Sprintf(trimmed(`
		На жаль, ваше оголошення «%s» відхилено модератором.

		Перевірте, чи відповідає воно правилам каналу, і спробуйте подати знову.`), Esc(name))
}

func ListingSoldForSeller(name string) string {
	return fmt.Sprintf("Оголошення «%s» позначено як продане. Вітаємо з продажем! 🤝", Esc(name))
}

func PublishFailedForAdmin(listingID int64) string {
	return fmt.Sprintf("⚠️ Не вдалося опублікувати оголошення #%d в канал. Воно залишилося на модерації.", listingID)
}

// --- AI assistant ---

var (
	AIChatIntro = trimmed(`
		🤖 Ви спілкуєтесь з AI-помічником барахолки.

		Запитуйте про товари, ціни, фото чи доставку. Щоб вийти, натисніть «⬅️ Головне меню».`)

	AIChatEnded = "Ви вийшли з режиму AI-помічника."
)

// --- Human handoff ---

var (
	OperatorRequested = trimmed(`
		Запит передано оператору. 🙋

		Напишіть своє питання тут — щойно оператор підключиться, він його побачить.`)

	OperatorBtnOpenChat = "💬 Відкрити чат"

	OperatorChatStartedForUser = "Оператор на зв'язку! Пишіть, він читає цей чат."

	OperatorChatEnded = "Чат з оператором завершено. Дякуємо за звернення!"

	OperatorChatEndedForAdmin = "Чат з користувачем завершено."

	OperatorNoActiveChat = "Активного чату немає."

	RelayDelivered = "✔️ Доставлено"
)

func OperatorCard(displayName string, chatID int64, question string) string {
	text := fmt.Sprintf("🙋 <b>Запит оператору</b>\n\nВід: %s (<code>%d</code>)", Esc(displayName), chatID)
	if question != "" {
		text += "\n\nПерше повідомлення:\n" + Esc(question)
	}
	return text
}

func OperatorChatStartedForAdmin(displayName string) string {
	return fmt.Sprintf("Чат з %s відкрито. Усі ваші повідомлення пересилаються користувачу. Завершити: /stopchat", Esc(displayName))
}

// --- FAQ ---

var (
	FAQEmpty = "Поки що тут порожньо. Поставте питання оператору або AI-помічнику!"

	FAQTitle = "❓ <b>Часті питання</b>"

	FAQAskQuestion = "Надішліть текст питання для FAQ."

	FAQAskAnswer = "Тепер надішліть відповідь на це питання."

	FAQSaved = "Питання збережено у FAQ. ✅"

	FAQAskDeleteID = "Надішліть номер питання, яке треба видалити."

	FAQDeleted = "Питання видалено з FAQ."

	FAQDeleteNotFound = "Питання з таким номером не знайдено."

	FAQInvalidID = "Потрібен номер питання числом. Спробуйте ще раз."
)

// --- Personal offer ---

var (
	PersonalOfferPrompt = trimmed(`
		💬 Опишіть, що саме ви шукаєте або пропонуєте.

		Повідомлення буде передано адміністратору.`)

	PersonalOfferSent = "Дякуємо! Вашу пропозицію передано адміністратору."
)

func PersonalOfferForAdmin(displayName string, chatID int64, text string) string {
	return fmt.Sprintf("💬 <b>Персональна пропозиція</b>\n\nВід: %s (<code>%d</code>)\n\n%s", Esc(displayName), chatID, Esc(text))
}

// --- Admin panel ---

var (
	AdminAccessDenied = "Ця команда доступна лише адміністратору."

	AdminMenuTitle = "🛠 <b>Панель адміністратора</b>"

	AdminBtnStats   = "📊 Статистика"
	AdminBtnPending = "📝 На модерації"
	AdminBtnUsers   = "👥 Користувачі"
	AdminBtnBlock   = "🚫 Блокування"
	AdminBtnFAQ     = "❓ Керування FAQ"

	AdminBtnFAQAdd    = "➕ Додати питання"
	AdminBtnFAQDelete = "🗑 Видалити питання"
	AdminBtnFAQList   = "📋 Список питань"

	AdminNoPending = "Оголошень на модерації немає."

	AdminBlockPrompt = trimmed(`
		Надішліть chat ID або @username користувача.

		Якщо користувач заблокований, його буде розблоковано, і навпаки.`)

	AdminUserNotFound = "Користувача не знайдено."

	BtnBlockUser   = "🚫 Заблокувати"
	BtnUnblockUser = "✅ Розблокувати"
)

func AdminStats(users, pending, approved, sold int) string {
	return fmt.Sprintf(trimmed(`
		📊 <b>Статистика</b>

		Користувачів: %d
		На модерації: %d
		Опубліковано: %d
		Продано: %d`), users, pending, approved, sold)
}

func AdminUserBlocked(displayName string) string {
	return fmt.Sprintf("Користувача %s заблоковано.", Esc(displayName))
}

func AdminUserUnblocked(displayName string) string {
	return fmt.Sprintf("Користувача %s розблоковано.", Esc(displayName))
}

// --- Router fallbacks and errors ---

var (
	YouAreBlocked = "Ваш доступ до бота обмежено адміністратором."

	UnknownAction = "Невідома дія"

	UnknownText = "Не зрозумів 🤔 Скористайтеся меню нижче або командою /start."

	StrayPhoto = "Гарне фото! Якщо хочете продати товар, натисніть «🛍 Додати товар»."

	StrayLocation = "Геолокацію отримано, але зараз вона не потрібна. Скористайтеся меню."

	SomethingWentWrong = "Щось пішло не так 😔 Спробуйте ще раз або поверніться в головне меню: /start"

	NothingToCancel = "Зараз немає активної дії, яку можна скасувати."

	ActionCancelled = "Дію скасовано. Повертаємось у головне меню."
)
