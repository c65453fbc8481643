package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	shoppingdb "meal-planner/internal/shopping/db"
)

// Keys of the app_state table.
const (
	StateKeyChecked       = "checked-items"
	StateKeyStaples       = "staples"
	StateKeyShowStaples   = "show-staples"
	StateKeyHighIronFocus = "high-iron-focus"
)

// StateRepository persists user toggles as JSON values in app_state.
type StateRepository struct {
	queries *shoppingdb.Queries
}

// NewStateRepository creates a new StateRepository.
func NewStateRepository(d *sql.DB) *StateRepository {
	return &StateRepository{queries: shoppingdb.New(d)}
}

// WithTx returns a StateRepository bound to tx.
func (r *StateRepository) WithTx(tx *sql.Tx) *StateRepository {
	return &StateRepository{queries: r.queries.WithTx(tx)}
}

// Checked loads the check state. A missing key is an empty set.
func (r *StateRepository) Checked(ctx context.Context) (CheckState, error) {
	keys, ok, err := r.loadKeys(ctx, StateKeyChecked)
	if err != nil || !ok {
		return CheckState{}, err
	}
	return NewKeySet(keys...), nil
}

// SaveChecked replaces the check state.
func (r *StateRepository) SaveChecked(ctx context.Context, checked CheckState) error {
	return r.put(ctx, StateKeyChecked, checked.Slice())
}

// Staples loads the staple set. A missing key is an empty set.
func (r *StateRepository) Staples(ctx context.Context) (StapleSet, error) {
	keys, ok, err := r.loadKeys(ctx, StateKeyStaples)
	if err != nil || !ok {
		return StapleSet{}, err
	}
	return NewKeySet(keys...), nil
}

// SaveStaples replaces the staple set.
func (r *StateRepository) SaveStaples(ctx context.Context, staples StapleSet) error {
	return r.put(ctx, StateKeyStaples, staples.Slice())
}

// ShowStaples reports whether staples are listed. Defaults to false.
func (r *StateRepository) ShowStaples(ctx context.Context) (bool, error) {
	return r.flag(ctx, StateKeyShowStaples)
}

// SetShowStaples stores the show-staples flag.
func (r *StateRepository) SetShowStaples(ctx context.Context, show bool) error {
	return r.put(ctx, StateKeyShowStaples, show)
}

// HighIronFocus reports whether the recipe browser favors high-iron recipes.
func (r *StateRepository) HighIronFocus(ctx context.Context) (bool, error) {
	return r.flag(ctx, StateKeyHighIronFocus)
}

// SetHighIronFocus stores the high-iron focus flag.
func (r *StateRepository) SetHighIronFocus(ctx context.Context, focus bool) error {
	return r.put(ctx, StateKeyHighIronFocus, focus)
}

func (r *StateRepository) flag(ctx context.Context, key string) (bool, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, fmt.Errorf("failed to unmarshal state %s: %w", key, err)
	}
	return v, nil
}

func (r *StateRepository) loadKeys(ctx context.Context, key string) ([]string, bool, error) {
	raw, ok, err := r.get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal state %s: %w", key, err)
	}
	return keys, true, nil
}

func (r *StateRepository) get(ctx context.Context, key string) (string, bool, error) {
	row, err := r.queries.GetState(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get state %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (r *StateRepository) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal state %s: %w", key, err)
	}
	if err := r.queries.UpsertState(ctx, shoppingdb.UpsertStateParams{
		Key:       key,
		Value:     string(data),
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}
