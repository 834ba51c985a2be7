package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"buggloo/api/internal/insect"
)

var ErrNotFound = sql.ErrNoRows

// IdentifyRepo caches identification answers keyed by image hash, engine
// and model, so re-sending the same photo does not cost another model
// call. The pipeline itself never touches this cache; callers decide.
type IdentifyRepo struct{ DB *sql.DB }

func NewIdentifyRepo(db *sql.DB) *IdentifyRepo { return &IdentifyRepo{DB: db} }

type IdentifiedRow struct {
	ID        int64
	CreatedAt time.Time
	ChatID    int64
	ImageHash string
	Engine    string
	Model     string
	Insect    insect.Insect
	IsInsect  bool
}

// FindByHash returns the freshest cached answer for (image_hash, engine,
// model). With maxAge > 0 stale rows count as missing.
func (r *IdentifyRepo) FindByHash(ctx context.Context, imageHash, engine, model string, maxAge time.Duration) (*IdentifiedRow, error) {
	const q = `
select id, created_at,
       coalesce(chat_id,0) as chat_id,
       image_hash, engine, model,
       result_json, is_insect
from identifications
where image_hash = $1 and engine = $2 and model = $3
order by created_at desc
limit 1`
	row := r.DB.QueryRowContext(ctx, q, imageHash, engine, model)

	var (
		id       int64
		ts       time.Time
		chatID   int64
		imgHash  string
		engName  string
		mdl      string
		js       []byte
		isInsect bool
	)
	if err := row.Scan(&id, &ts, &chatID, &imgHash, &engName, &mdl, &js, &isInsect); err != nil {
		return nil, err
	}
	if maxAge > 0 && time.Since(ts) > maxAge {
		return nil, ErrNotFound
	}
	var ins insect.Insect
	if err := json.Unmarshal(js, &ins); err != nil {
		// broken cached JSON counts as a miss
		return nil, ErrNotFound
	}
	return &IdentifiedRow{
		ID:        id,
		CreatedAt: ts,
		ChatID:    chatID,
		ImageHash: imgHash,
		Engine:    engName,
		Model:     mdl,
		Insect:    ins,
		IsInsect:  isInsect,
	}, nil
}

// Upsert stores one answer; a second answer for the same key overwrites
// the previous one.
func (r *IdentifyRepo) Upsert(ctx context.Context, chatID int64, imageHash, engine, model string, ins *insect.Insect) error {
	js, _ := json.Marshal(ins)
	isInsect := ins.IsInsect != nil && *ins.IsInsect
	const q = `
insert into identifications (
  chat_id, image_hash, engine, model, common_name, result_json, is_insect
) values ($1,$2,$3,$4,$5,$6,$7)
on conflict (image_hash, engine, model) do update
set chat_id = excluded.chat_id,
    common_name = excluded.common_name,
    result_json = excluded.result_json,
    is_insect = excluded.is_insect`
	_, err := r.DB.ExecContext(ctx, q, chatID, imageHash, engine, model, ins.CommonName, js, isInsect)
	return err
}

// PurgeOlderThan removes stale cache rows.
func (r *IdentifyRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	const q = `delete from identifications where created_at < $1`
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}
