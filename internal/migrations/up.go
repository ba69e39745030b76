// All migrations in one file; order is defined by the list in migrations.go.
package migrations

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// 1 — schema_version + i18n_dict
func UpI18nDict(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INT PRIMARY KEY,
			name    TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS i18n_dict (
			game_id  SMALLINT NOT NULL,
			item_id  TEXT NOT NULL,
			chs_text TEXT NOT NULL DEFAULT '',
			cht_text TEXT NOT NULL DEFAULT '',
			de_text  TEXT NOT NULL DEFAULT '',
			en_text  TEXT NOT NULL DEFAULT '',
			es_text  TEXT NOT NULL DEFAULT '',
			fr_text  TEXT NOT NULL DEFAULT '',
			id_text  TEXT NOT NULL DEFAULT '',
			jp_text  TEXT NOT NULL DEFAULT '',
			kr_text  TEXT NOT NULL DEFAULT '',
			pt_text  TEXT NOT NULL DEFAULT '',
			ru_text  TEXT NOT NULL DEFAULT '',
			th_text  TEXT NOT NULL DEFAULT '',
			vi_text  TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (game_id, item_id)
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_i18n_dict_en ON i18n_dict (game_id, en_text)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (1, 'create_i18n_dict')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}

// 2 — i18n_texts (derived text -> id index, one row per non-empty language)
func UpI18nTexts(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS i18n_texts (
			id      BIGSERIAL PRIMARY KEY,
			game_id SMALLINT NOT NULL,
			item_id TEXT NOT NULL,
			lang    TEXT NOT NULL,
			text    TEXT NOT NULL,
			UNIQUE (game_id, item_id, lang)
		)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_i18n_texts_lookup ON i18n_texts (game_id, lang, text)
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO schema_version (version, name) VALUES (2, 'create_i18n_texts')
		ON CONFLICT (version) DO NOTHING
	`)
	return err
}
