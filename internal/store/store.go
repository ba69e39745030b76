// Package store owns the durable localization tables: i18n_dict (one row per
// game+item, one column per core language) and the derived i18n_texts index
// (one row per non-empty game+item+language). i18n_texts is written only by
// InsertBatch so the two tables cannot drift apart.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/UIGF-org/UIGF-API/internal/language"
)

var (
	// ErrNotFound is returned by singular point lookups with no matching row.
	ErrNotFound = errors.New("localization entry not found")
	// ErrTxFailed wraps any transactional failure after rollback.
	ErrTxFailed = errors.New("store transaction failed")
)

// Entry is one i18n_dict row with the full per-language text bundle.
// A missing translation is the empty string, never an absent key.
type Entry struct {
	GameID int
	ItemID string
	Texts  map[language.Language]string
}

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

// allColumns is "chs_text, cht_text, ..., vi_text" in language.Core order.
var allColumns = func() string {
	cols := make([]string, len(language.Core))
	for i, l := range language.Core {
		cols[i] = l.Column()
	}
	return strings.Join(cols, ", ")
}()

// Clear deletes every row for the game from both tables in one transaction.
func (r *Repo) Clear(ctx context.Context, gameID int) error {
	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM i18n_texts WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("%w: clear i18n_texts: %v", ErrTxFailed, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM i18n_dict WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("%w: clear i18n_dict: %v", ErrTxFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTxFailed, err)
	}
	return nil
}

// InsertBatch upserts one i18n_dict row per item (absent languages default to
// "") plus one i18n_texts row per non-empty field, all in a single
// transaction. On any failure the whole batch is rolled back; the caller does
// not retry. The inserted entries are returned for cache mirroring.
func (r *Repo) InsertBatch(ctx context.Context, gameID int, mapping map[string]map[string]string) ([]Entry, error) {
	upsertDict := fmt.Sprintf(`
INSERT INTO i18n_dict (game_id, item_id, %s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (game_id, item_id) DO UPDATE SET %s`, allColumns, dictConflictSet())

	const upsertText = `
INSERT INTO i18n_texts (game_id, item_id, lang, text)
VALUES ($1, $2, $3, $4)
ON CONFLICT (game_id, item_id, lang) DO UPDATE SET text = EXCLUDED.text`

	tx, err := r.pg.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}
	defer tx.Rollback(ctx)

	entries := make([]Entry, 0, len(mapping))
	batch := &pgx.Batch{}
	for itemID, translation := range mapping {
		e := Entry{GameID: gameID, ItemID: itemID, Texts: make(map[language.Language]string, len(language.Core))}
		args := make([]any, 0, 2+len(language.Core))
		args = append(args, gameID, itemID)
		for _, l := range language.Core {
			text := translation[string(l)]
			e.Texts[l] = text
			args = append(args, text)
		}
		batch.Queue(upsertDict, args...)
		for _, l := range language.Core {
			if text := e.Texts[l]; text != "" {
				batch.Queue(upsertText, gameID, itemID, string(l), text)
			}
		}
		entries = append(entries, e)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = err
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = err
	}
	if batchErr != nil {
		return nil, fmt.Errorf("%w: insert batch: %v", ErrTxFailed, batchErr)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ErrTxFailed, err)
	}
	return entries, nil
}

func dictConflictSet() string {
	set := make([]string, len(language.Core))
	for i, l := range language.Core {
		col := l.Column()
		set[i] = col + " = EXCLUDED." + col
	}
	return strings.Join(set, ", ")
}

// TextToID resolves one text in one language column to its item id.
func (r *Repo) TextToID(ctx context.Context, gameID int, lang language.Language, text string) (string, error) {
	q := fmt.Sprintf(`SELECT item_id FROM i18n_dict WHERE game_id = $1 AND %s = $2 LIMIT 1`, lang.Column())
	var itemID string
	if err := r.pg.QueryRow(ctx, q, gameID, text).Scan(&itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return itemID, nil
}

// IDToText resolves one item id to its text in one language column.
func (r *Repo) IDToText(ctx context.Context, gameID int, lang language.Language, itemID string) (string, error) {
	q := fmt.Sprintf(`SELECT %s FROM i18n_dict WHERE game_id = $1 AND item_id = $2 LIMIT 1`, lang.Column())
	var text string
	if err := r.pg.QueryRow(ctx, q, gameID, itemID).Scan(&text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return text, nil
}

// TextsToIDs is the set-membership form of TextToID. Empty texts are never
// keys of the result: an empty column means no localization, not a name.
func (r *Repo) TextsToIDs(ctx context.Context, gameID int, lang language.Language, texts []string) (map[string]string, error) {
	q := fmt.Sprintf(`SELECT %s, item_id FROM i18n_dict WHERE game_id = $1 AND %s = ANY($2)`,
		lang.Column(), lang.Column())
	rows, err := r.pg.Query(ctx, q, gameID, texts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var text, itemID string
		if err := rows.Scan(&text, &itemID); err != nil {
			return nil, err
		}
		if text != "" {
			out[text] = itemID
		}
	}
	return out, rows.Err()
}

// IDsToTexts is the set-membership form of IDToText.
func (r *Repo) IDsToTexts(ctx context.Context, gameID int, lang language.Language, itemIDs []string) (map[string]string, error) {
	q := fmt.Sprintf(`SELECT item_id, %s FROM i18n_dict WHERE game_id = $1 AND item_id = ANY($2)`, lang.Column())
	rows, err := r.pg.Query(ctx, q, gameID, itemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var itemID, text string
		if err := rows.Scan(&itemID, &text); err != nil {
			return nil, err
		}
		out[itemID] = text
	}
	return out, rows.Err()
}

// IdentifyText returns every entry whose text in any core language column
// equals text, with the full bundle so the caller can tell which columns hit.
func (r *Repo) IdentifyText(ctx context.Context, gameID int, text string) ([]Entry, error) {
	or := make([]string, len(language.Core))
	for i, l := range language.Core {
		or[i] = l.Column() + " = $2"
	}
	q := fmt.Sprintf(`SELECT game_id, item_id, %s FROM i18n_dict WHERE game_id = $1 AND (%s)`,
		allColumns, strings.Join(or, " OR "))

	rows, err := r.pg.Query(ctx, q, gameID, text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LanguageTexts returns item_id -> text for one game and language column,
// including empty texts; the materializer filters those out.
func (r *Repo) LanguageTexts(ctx context.Context, gameID int, lang language.Language) (map[string]string, error) {
	q := fmt.Sprintf(`SELECT item_id, %s FROM i18n_dict WHERE game_id = $1`, lang.Column())
	rows, err := r.pg.Query(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var itemID, text string
		if err := rows.Scan(&itemID, &text); err != nil {
			return nil, err
		}
		out[itemID] = text
	}
	return out, rows.Err()
}

func scanEntry(row pgx.Row) (Entry, error) {
	e := Entry{Texts: make(map[language.Language]string, len(language.Core))}
	texts := make([]string, len(language.Core))
	dest := make([]any, 0, 2+len(language.Core))
	dest = append(dest, &e.GameID, &e.ItemID)
	for i := range texts {
		dest = append(dest, &texts[i])
	}
	if err := row.Scan(dest...); err != nil {
		return Entry{}, err
	}
	for i, l := range language.Core {
		e.Texts[l] = texts[i]
	}
	return e, nil
}
