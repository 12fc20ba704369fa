package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pivolan/telecom_charts/domain/models"
	"github.com/pivolan/telecom_charts/metrics"
	"github.com/pivolan/telecom_charts/plot"
)

func (b *telegramBot) handleCommand(chatID int64, command, args string) {
	switch command {
	case "start", "help":
		id := b.store.ForChat(chatID)
		b.reply(chatID, welcomeText(b.uploadLink(id)))
	case "market":
		b.handleMarket(chatID, args)
	case "profile":
		b.handleProfile(chatID, args)
	case "files":
		b.handleFiles(chatID)
	case "reset":
		id := b.store.ForChat(chatID)
		if err := b.store.Reset(id); err != nil {
			log.Warn().Err(err).Int64("chat", chatID).Msg("reset failed")
		}
		b.reply(chatID, "Session cleared. Send new files to start again.")
	default:
		b.reply(chatID, "Unknown command. Use /market, /profile, /files or /reset")
	}
}

func (b *telegramBot) handleFiles(chatID int64) {
	state, _ := b.store.State(b.store.ForChat(chatID))
	if len(state.Files) == 0 {
		b.reply(chatID, "No files yet. Send a workbook to this chat.")
		return
	}
	names := make([]string, len(state.Files))
	for i, f := range state.Files {
		names[i] = filepath.Base(f)
	}
	b.reply(chatID, strings.Join(names, "\n"))
}

// selectionFormat pops the output format from the parsed arguments.
func selectionFormat(kv map[string]string) (chartFormat, error) {
	v := kv["format"]
	delete(kv, "format")
	return parseFormat(v)
}

func (b *telegramBot) handleMarket(chatID int64, args string) {
	id := b.store.ForChat(chatID)
	state, _ := b.store.State(id)
	if len(state.Files) == 0 {
		b.reply(chatID, "Send the market share workbook first.")
		return
	}

	sel := state.Market
	if sel.Metric == "" {
		sel = defaultMarketSelection()
	}
	kv := parseSelectionArgs(args)
	format, err := selectionFormat(kv)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	b.store.Update(id, func(st *models.ViewState) { st.Mode = models.ModeMarket })
	if len(kv) == 0 && sel.Country == "" {
		b.reply(chatID, "Reply with your selection, one option per line:\n\n"+marketUsage())
		return
	}
	if err := applyMarketArgs(&sel, kv); err != nil {
		b.reply(chatID, selectionMessage(err)+"\n\n"+marketUsage())
		return
	}
	b.store.Update(id, func(st *models.ViewState) { st.Market = sel })

	report, err := buildMarketChart(state.Files, sel, format)
	if err != nil {
		log.Info().Err(err).Int64("chat", chatID).Str("country", sel.Country).Msg("market chart rejected")
		b.reply(chatID, metrics.UserMessage(err))
		return
	}
	b.sendGraphVisualization(report.Chart, format, "market", report.Result.Country, plot.ShareTitle(report.Result, sel), chatID)
	b.replyPre(chatID, GenerateShareTable(report.Result))
}

func (b *telegramBot) handleProfile(chatID int64, args string) {
	id := b.store.ForChat(chatID)
	state, _ := b.store.State(id)
	if len(state.Files) == 0 {
		b.reply(chatID, "Send the company profile workbooks first.")
		return
	}

	sel := state.Profile
	if sel.Mode == "" {
		sel = defaultProfileSelection()
	}
	kv := parseSelectionArgs(args)
	format, err := selectionFormat(kv)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	b.store.Update(id, func(st *models.ViewState) { st.Mode = models.ModeProfile })
	if len(kv) == 0 && sel.Metric == "" {
		names, err := profileMetrics(state.Files)
		if err != nil {
			b.reply(chatID, metrics.UserMessage(err))
			return
		}
		b.reply(chatID, "Metrics found in your files:\n"+strings.Join(names, "\n")+
			"\n\nReply with your selection, one option per line:\n\n"+profileUsage())
		return
	}
	if err := applyProfileArgs(&sel, kv); err != nil {
		b.reply(chatID, selectionMessage(err)+"\n\n"+profileUsage())
		return
	}
	b.store.Update(id, func(st *models.ViewState) { st.Profile = sel })

	report, err := buildProfileChart(state.Files, sel, format)
	if err != nil {
		log.Info().Err(err).Int64("chat", chatID).Str("metric", sel.Metric).Msg("profile chart rejected")
		b.reply(chatID, metrics.UserMessage(err))
		return
	}
	cmp := report.Comparison
	subject := sel.Corporation
	if subject == "" {
		subject = cmp.Metric
	}
	b.sendGraphVisualization(report.Chart, format, "profile", subject, plot.ComparisonTitle(sel.Corporation, cmp), chatID)
	b.replyPre(chatID, GenerateComparisonTable(cmp))
	if len(cmp.Failures) > 0 {
		b.reply(chatID, fmt.Sprintf("%d of %d files were skipped, see the table above.",
			len(cmp.Failures), len(cmp.Failures)+len(cmp.Rows)))
	}
}
