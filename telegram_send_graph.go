package main

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"
)

// Telegram recompresses large photos badly, bigger charts go out as documents.
const maxSizePhoto = 150000

// sendGraphVisualization sends a rendered chart with a caption.
// HTML charts are always sent as documents.
func (b *telegramBot) sendGraphVisualization(graph []byte, format chartFormat, kind, subject, caption string, chatID int64) {
	file := tgbotapi.FileBytes{
		Name:  chartFileName(kind, subject, string(format), time.Now()),
		Bytes: graph,
	}

	var msg tgbotapi.Chattable
	if format == formatPNG && len(graph) < maxSizePhoto {
		photo := tgbotapi.NewPhotoUpload(chatID, file)
		photo.Caption = caption
		msg = photo
	} else {
		doc := tgbotapi.NewDocumentUpload(chatID, file)
		doc.Caption = caption
		msg = doc
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Str("kind", kind).Str("subject", subject).Msg("cannot send chart")
		b.reply(chatID, fmt.Sprintf("Could not send the %s chart: %v", kind, err))
	}
}
