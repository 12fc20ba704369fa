package main

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"

	"github.com/pivolan/telecom_charts/domain/models"
)

// sender is the part of the bot API the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramBot struct {
	api       sender
	fileURL   func(fileID string) (string, error)
	store     *SessionStore
	publicURL string
	client    *http.Client
}

func newTelegramBot(token string, store *SessionStore, publicURL string) (*telegramBot, *tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, nil, fmt.Errorf("telegram: %w", err)
	}
	log.Info().Str("account", api.Self.UserName).Msg("telegram bot authorized")
	return &telegramBot{
		api:       api,
		fileURL:   api.GetFileDirectURL,
		store:     store,
		publicURL: strings.TrimRight(publicURL, "/"),
		client:    &http.Client{Timeout: 2 * time.Minute},
	}, api, nil
}

// run consumes updates until the channel is closed.
func (b *telegramBot) run(api *tgbotapi.BotAPI) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("telegram updates: %w", err)
	}
	for update := range updates {
		if update.Message == nil {
			continue
		}
		go b.handleMessage(update.Message)
	}
	return nil
}

func (b *telegramBot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	switch {
	case message.Document != nil:
		b.handleDocument(chatID, message.Document.FileID, message.Document.FileName)
	case message.IsCommand():
		b.handleCommand(chatID, message.Command(), message.CommandArguments())
	case message.Text != "":
		b.handleText(chatID, message.Text)
	}
}

func (b *telegramBot) Notify(chatID int64, text string) {
	b.reply(chatID, text)
}

func (b *telegramBot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("telegram send failed")
	}
}

func (b *telegramBot) replyPre(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "<pre>\n"+escapeHTML(text)+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("telegram send failed")
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func (b *telegramBot) uploadLink(id string) string {
	return b.publicURL + "/?id=" + id
}

// handleText treats plain text as a selection update for the active view.
func (b *telegramBot) handleText(chatID int64, text string) {
	id := b.store.ForChat(chatID)
	state, _ := b.store.State(id)
	switch state.Mode {
	case models.ModeMarket:
		b.handleMarket(chatID, text)
	case models.ModeProfile:
		b.handleProfile(chatID, text)
	default:
		b.reply(chatID, welcomeText(b.uploadLink(id)))
	}
}

func (b *telegramBot) handleDocument(chatID int64, fileID, fileName string) {
	id := b.store.ForChat(chatID)
	fileURL, err := b.fileURL(fileID)
	if err != nil {
		log.Warn().Err(err).Int64("chat", chatID).Msg("cannot get file url")
		b.reply(chatID, "Error on upload file, if file too big try another method, upload by this link: "+b.uploadLink(id))
		return
	}
	files, err := b.download(b.store.Dir(id), fileName, fileURL)
	if err != nil {
		log.Warn().Err(err).Int64("chat", chatID).Str("file", fileName).Msg("upload rejected")
		b.reply(chatID, "Cannot use "+fileName+": "+err.Error())
		return
	}
	if err := b.store.AddFiles(id, files...); err != nil {
		b.reply(chatID, err.Error())
		return
	}
	state, _ := b.store.State(id)
	names := make([]string, len(state.Files))
	for i, f := range state.Files {
		names[i] = filepath.Base(f)
	}
	log.Info().Int64("chat", chatID).Int("files", len(files)).Msg("telegram upload")
	b.reply(chatID, fmt.Sprintf("Got it. Files in this session:\n%s\n\nUse /market or /profile to build a chart.", strings.Join(names, "\n")))
}

func (b *telegramBot) download(dir, fileName, fileURL string) ([]string, error) {
	resp, err := b.client.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return saveUpload(dir, fileName, io.LimitReader(resp.Body, maxUploadSize))
}

func welcomeText(link string) string {
	return `Hi! I draw telecom market charts from your spreadsheets.

Market share: send the market share workbook (.xlsx or .xls) and run /market.
Company profiles: send one "Company Profile Sheet <Company>.xlsx" per operator (a zip is fine) and run /profile.

Large files can be uploaded here: ` + link + `

Commands:
/market - market share pie or bar chart for a country
/profile - compare a metric across companies, QoQ or YoY
/files - list uploaded files
/reset - forget files and selections`
}
