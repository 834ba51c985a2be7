package telegram

import (
	"strings"
	"sync"
)

// Per-chat state lives here, client-side of the pipeline: the pipeline
// itself is stateless and the bot is just another caller carrying its
// own transcript forward.

const maxTranscript = 6000 // keep the prompt bounded

var (
	chatEngine   sync.Map // chatID -> "gpt" | "gemini"
	lastSubject  sync.Map // chatID -> common name of last identified subject
	conversation sync.Map // chatID -> transcript string
)

func setEngine(chatID int64, name string) { chatEngine.Store(chatID, name) }
func getEngine(chatID int64) string {
	if v, ok := chatEngine.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return "gpt"
}

func setSubject(chatID int64, name string) {
	if strings.TrimSpace(name) != "" {
		lastSubject.Store(chatID, name)
	}
}

func getSubject(chatID int64) string {
	if v, ok := lastSubject.Load(chatID); ok {
		s, _ := v.(string)
		return s
	}
	return ""
}

func appendConversation(chatID int64, userMsg, reply string) {
	prev := getConversation(chatID)
	var b strings.Builder
	b.WriteString(prev)
	b.WriteString("User: ")
	b.WriteString(userMsg)
	b.WriteString("\nAssistant: ")
	b.WriteString(reply)
	b.WriteString("\n")
	s := b.String()
	if len(s) > maxTranscript {
		s = s[len(s)-maxTranscript:]
	}
	conversation.Store(chatID, s)
}

func getConversation(chatID int64) string {
	if v, ok := conversation.Load(chatID); ok {
		s, _ := v.(string)
		return s
	}
	return ""
}

func clearConversation(chatID int64) {
	conversation.Delete(chatID)
	lastSubject.Delete(chatID)
}
