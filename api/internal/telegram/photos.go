package telegram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"buggloo/api/internal/insect"
	"buggloo/api/internal/store"
)

const cacheMaxAge = 30 * 24 * time.Hour

var httpc = &http.Client{Timeout: 60 * time.Second}

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	r.send(cid, "Got the photo, identifying…")

	// largest preview
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	img, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	engine := getEngine(cid)
	model := r.modelFor(engine)
	hash := imageHash(img)

	// cached answer first
	if r.Repo != nil {
		if row, err := r.Repo.FindByHash(ctx, hash, engine, model, cacheMaxAge); err == nil {
			r.deliver(cid, &row.Insect)
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Printf("cache lookup: %v", err)
		}
	}

	out, err := r.Svc.Identify(ctx, engine, img)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	switch out.Kind {
	case insect.Identified, insect.NotAnInsect:
		if r.Repo != nil {
			if err := r.Repo.Upsert(ctx, cid, hash, engine, model, out.Insect); err != nil {
				log.Printf("cache upsert: %v", err)
			}
		}
		r.deliver(cid, out.Insect)
	case insect.Failed:
		r.send(cid, "⚠️ Identification failed: "+out.Reason)
	}
}

func (r *Router) deliver(cid int64, ins *insect.Insect) {
	if ins.IsInsect != nil && *ins.IsInsect {
		setSubject(cid, ins.CommonName)
	}
	r.sendMarkdown(cid, FormatInsect(ins))
}

func download(url string) ([]byte, error) {
	resp, err := httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func imageHash(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
