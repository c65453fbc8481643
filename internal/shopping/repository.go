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

// Repository keeps a history of exported shopping lists.
type Repository struct {
	queries *shoppingdb.Queries
	db      *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: shoppingdb.New(d),
		db:      d,
	}
}

// Save stores an exported list and returns its id.
func (r *Repository) Save(ctx context.Context, items []AggregatedItem, checklist string) (int64, error) {
	if items == nil {
		items = []AggregatedItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	id, err := r.queries.InsertShoppingList(ctx, shoppingdb.InsertShoppingListParams{
		Items:     string(itemsJSON),
		Checklist: checklist,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return id, nil
}

// Latest returns the most recent export, or nil when there is none.
func (r *Repository) Latest(ctx context.Context) (*ShoppingList, error) {
	dbList, err := r.queries.GetLatestShoppingList(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest shopping list: %w", err)
	}
	return toShoppingList(dbList)
}

// List returns up to limit exports, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]ShoppingList, error) {
	if limit <= 0 {
		limit = 10
	}
	dbLists, err := r.queries.ListShoppingLists(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}

	lists := make([]ShoppingList, 0, len(dbLists))
	for _, l := range dbLists {
		sl, err := toShoppingList(l)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *sl)
	}
	return lists, nil
}

func toShoppingList(l shoppingdb.ShoppingList) (*ShoppingList, error) {
	var items []AggregatedItem
	if err := json.Unmarshal([]byte(l.Items), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &ShoppingList{
		ID:        l.ID,
		Items:     items,
		Checklist: l.Checklist,
		CreatedAt: l.CreatedAt,
	}, nil
}
