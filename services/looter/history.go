package looter

import (
	"context"
	"database/sql"
	"time"

	"primelooter/services/looter/db"
)

// ClaimEvent is one terminal per-item outcome. The ledger exists so
// `primelooter codes history` can answer "what happened last run"
// without grepping logs.
type ClaimEvent struct {
	OccurredAt time.Time
	GameTitle  string
	ItemTitle  string
	OfferId    string
	Outcome    Outcome
	ClaimCode  string
}

// History is an append-only sqlite ledger of claim outcomes.
type History struct {
	db *sql.DB
}

func NewHistory(database *sql.DB) (*History, error) {
	_, err := database.Exec(db.Schema)
	if err != nil {
		return nil, err
	}
	return &History{db: database}, nil
}

func OpenHistory(path string) (*History, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return NewHistory(database)
}

func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) Record(ctx context.Context, e ClaimEvent) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	_, err := h.db.ExecContext(
		ctx,
		`INSERT INTO claim_events
			(occurred_at, game_title, item_title, offer_id, outcome, claim_code)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.OccurredAt.Unix(),
		e.GameTitle,
		e.ItemTitle,
		e.OfferId,
		string(e.Outcome),
		e.ClaimCode,
	)
	return err
}

// Recent returns up to limit events, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]ClaimEvent, error) {
	rows, err := h.db.QueryContext(
		ctx,
		`SELECT occurred_at, game_title, item_title, offer_id, outcome, claim_code
		FROM claim_events
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ClaimEvent
	for rows.Next() {
		var e ClaimEvent
		var occurredAt int64
		var outcome string
		err = rows.Scan(&occurredAt, &e.GameTitle, &e.ItemTitle, &e.OfferId, &outcome, &e.ClaimCode)
		if err != nil {
			return nil, err
		}
		e.OccurredAt = time.Unix(occurredAt, 0)
		e.Outcome = Outcome(outcome)
		events = append(events, e)
	}
	return events, rows.Err()
}
