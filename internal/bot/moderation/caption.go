package moderation

import (
	"BazarBot/internal/bot/messages"
	"BazarBot/internal/core/domain"
	"fmt"
	"strings"
)

// channelCaption renders the public channel post (HTML parse mode).
func channelCaption(l *domain.Listing, hashtagLimit int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", messages.Esc(l.ProductName)))
	if l.Description != "" {
		sb.WriteString("\n" + messages.Esc(l.Description) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\n💰 Ціна: %s", messages.Esc(l.Price)))

	if l.Location != nil {
		sb.WriteString(fmt.Sprintf(
			"\n📍 <a href=\"https://maps.google.com/?q=%f,%f\">Локація</a>",
			l.Location.Latitude, l.Location.Longitude,
		))
	}

	if l.SellerUsername != "" {
		sb.WriteString(fmt.Sprintf("\n👤 Продавець: @%s", messages.Esc(l.SellerUsername)))
	}

	if tags := DeriveHashtags(l.Description, hashtagLimit); len(tags) > 0 {
		sb.WriteString("\n\n" + strings.Join(tags, " "))
	}

	return sb.String()
}

// reviewCard renders the admin moderation card.
func reviewCard(l *domain.Listing, hashtagLimit int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📝 <b>Оголошення #%d на модерацію</b>\n\n", l.ID))
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", messages.Esc(l.ProductName)))
	sb.WriteString(fmt.Sprintf("Ціна: %s\n", messages.Esc(l.Price)))
	if l.Description != "" {
		sb.WriteString("\n" + messages.Esc(l.Description) + "\n")
	}
	sb.WriteString(fmt.Sprintf("\nФото: %d", len(l.Photos)))
	if l.Location != nil {
		sb.WriteString("\nГеолокація: є")
	}

	seller := "—"
	if l.SellerUsername != "" {
		seller = "@" + messages.Esc(l.SellerUsername)
	}
	sb.WriteString(fmt.Sprintf("\nПродавець: %s (<code>%d</code>)", seller, l.SellerChatID))

	if tags := DeriveHashtags(l.Description, hashtagLimit); len(tags) > 0 {
		sb.WriteString("\n\n" + strings.Join(tags, " "))
	}

	return sb.String()
}
