package messages

import (
	"BazarBot/internal/core/ports"
)

// MainMenuRows is the persistent reply keyboard every idle chat sees.
func MainMenuRows() [][]ports.Button {
	return [][]ports.Button{
		Row(TextBtn(MenuAddProduct), TextBtn(MenuMyProducts)),
		Row(TextBtn(MenuAIChat), TextBtn(MenuFAQ)),
		Row(TextBtn(MenuOperator), TextBtn(MenuPersonalOffer)),
	}
}

// CancelRow is the keyboard for wizard steps that only accept free text.
func CancelRow() [][]ports.Button {
	return [][]ports.Button{
		Row(TextBtn(BtnCancel)),
	}
}

// SkipCancelRows is the keyboard for optional wizard steps.
func SkipCancelRows() [][]ports.Button {
	return [][]ports.Button{
		Row(TextBtn(BtnSkip)),
		Row(TextBtn(BtnCancel)),
	}
}

// PhotoStepRows is the keyboard for the photo-collection step.
func PhotoStepRows() [][]ports.Button {
	return [][]ports.Button{
		Row(TextBtn(BtnNext), TextBtn(BtnSkip)),
		Row(TextBtn(BtnCancel)),
	}
}

// LocationStepRows is the keyboard for the geolocation step.
func LocationStepRows() [][]ports.Button {
	return [][]ports.Button{
		Row(LocationBtn("📍 Надіслати геолокацію")),
		Row(TextBtn(BtnSkip)),
		Row(TextBtn(BtnCancel)),
	}
}

// AIChatRows is the keyboard shown while the AI assistant mode is active.
func AIChatRows() [][]ports.Button {
	return [][]ports.Button{
		Row(TextBtn(MenuBackToMain)),
	}
}
