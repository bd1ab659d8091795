package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// prefsRepo implements Prefs on the prefs table.
type prefsRepo struct {
	db *sql.DB
}

func (r *prefsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := builder().
		Select("value").
		From(builder().Table("prefs")).
		Where(entsql.EQ("key", key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get pref %s: %w", key, err)
	}
	return value, true, nil
}

func (r *prefsRepo) Set(ctx context.Context, key, value string) error {
	query, args := builder().
		Insert("prefs").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UnixNano()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}

func (r *prefsRepo) Remove(ctx context.Context, key string) error {
	query, args := builder().
		Delete("prefs").
		Where(entsql.EQ("key", key)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove pref %s: %w", key, err)
	}
	return nil
}
