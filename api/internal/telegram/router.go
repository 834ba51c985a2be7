package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"buggloo/api/internal/identify"
	"buggloo/api/internal/store"
)

type Router struct {
	Bot  *tgbotapi.BotAPI
	Svc  *identify.Service
	Repo *store.IdentifyRepo

	// Display/cache-key models per engine.
	OpenAIModel string
	GeminiModel string
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	if txt := strings.TrimSpace(upd.Message.Text); txt != "" {
		r.handleChatMessage(cid, txt)
	}
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send me a photo of an insect and I'll identify it.\n"+
			"After that, just ask questions about it.\nCommands: /health, /engine, /reset")
	case "health":
		r.send(cid, "✅ OK")
	case "reset":
		clearConversation(cid)
		r.send(cid, "Conversation cleared.")
	case "engine":
		args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(upd.Message.Text, "/engine")))
		if len(args) == 0 {
			r.send(cid, "Current engine: "+getEngine(cid)+"\nUsage:\n/engine gpt\n/engine gemini")
			return
		}
		name := strings.ToLower(args[0])
		switch name {
		case "gpt", "gemini":
			setEngine(cid, name)
			r.send(cid, "✅ Engine: "+name)
		default:
			r.send(cid, "Unknown engine. Available: gpt | gemini")
		}
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) send(chatID int64, text string) {
	_, _ = r.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, _ = r.Bot.Send(msg)
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, "⚠️ "+err.Error())
}

// modelFor maps an engine name to the configured model string used in
// cache keys and result footers.
func (r *Router) modelFor(engine string) string {
	if engine == "gemini" {
		return r.GeminiModel
	}
	return r.OpenAIModel
}
