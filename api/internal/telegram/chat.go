package telegram

import (
	"context"
	"time"
)

// handleChatMessage runs the follow-up flow: the bot carries the
// transcript and the last identified subject, hands both to the service,
// and appends the exchange afterwards.
func (r *Router) handleChatMessage(cid int64, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	reply, err := r.Svc.Chat(ctx, getEngine(cid), getConversation(cid), text, getSubject(cid))
	if err != nil {
		r.sendError(cid, err)
		return
	}
	appendConversation(cid, text, reply)
	r.send(cid, reply)
}
