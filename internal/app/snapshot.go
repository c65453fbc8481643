package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/shopping"
	"meal-planner/internal/storage"
)

// Snapshot captures the whole persisted state.
func (a *App) Snapshot(ctx context.Context) (storage.Snapshot, error) {
	recipes, err := a.recipeRepo.List(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	plan, err := a.planRepo.Load(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	staples, err := a.stateRepo.Staples(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	show, err := a.stateRepo.ShowStaples(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	checked, err := a.stateRepo.Checked(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}
	focus, err := a.stateRepo.HighIronFocus(ctx)
	if err != nil {
		return storage.Snapshot{}, err
	}

	return storage.Snapshot{
		Recipes:       recipes,
		MealPlan:      plan,
		HighIronFocus: focus,
		Staples:       staples.Slice(),
		ShowStaples:   show,
		CheckedItems:  checked.Slice(),
	}, nil
}

// Restore replaces the persisted state with snap in one transaction. Every
// recipe is validated first; a failed write leaves the old state in place.
func (a *App) Restore(ctx context.Context, snap storage.Snapshot) error {
	for i, rec := range snap.Recipes {
		if rec.ID == "" {
			return fmt.Errorf("snapshot recipe %d has no id", i)
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("snapshot recipe %s: %w", rec.ID, err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	recipes := a.recipeRepo.WithTx(tx)
	state := a.stateRepo.WithTx(tx)

	existing, err := recipes.List(ctx)
	if err != nil {
		return err
	}
	keep := make(map[string]struct{}, len(snap.Recipes))
	for _, rec := range snap.Recipes {
		keep[rec.ID] = struct{}{}
	}
	for _, rec := range existing {
		if _, ok := keep[rec.ID]; ok {
			continue
		}
		if err := recipes.Delete(ctx, rec.ID); err != nil {
			return err
		}
	}
	for _, rec := range snap.Recipes {
		if err := recipes.Save(ctx, rec); err != nil {
			return err
		}
	}

	if err := a.planRepo.WithTx(tx).Replace(ctx, snap.MealPlan); err != nil {
		return err
	}
	if err := state.SaveStaples(ctx, shopping.NewKeySet(snap.Staples...)); err != nil {
		return err
	}
	if err := state.SetShowStaples(ctx, snap.ShowStaples); err != nil {
		return err
	}
	if err := state.SaveChecked(ctx, shopping.NewKeySet(snap.CheckedItems...)); err != nil {
		return err
	}
	if err := state.SetHighIronFocus(ctx, snap.HighIronFocus); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit restore: %w", err)
	}
	a.logger.Info("state restored", zap.Int("recipes", len(snap.Recipes)))
	return nil
}

// SaveSnapshot writes the current state to the snapshot store. An empty
// name is replaced by a timestamped one, which is returned. An existing
// snapshot is only replaced when overwrite is set.
func (a *App) SaveSnapshot(ctx context.Context, name string, overwrite bool) (string, error) {
	if a.snapshots == nil {
		return "", ErrNoSnapshots
	}
	if name == "" {
		name = storage.DefaultName(time.Now())
	}
	if !overwrite && a.snapshots.Exists(name) {
		return "", fmt.Errorf("%w: %s", ErrSnapshotExists, name)
	}
	snap, err := a.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if err := a.snapshots.Save(name, snap); err != nil {
		return "", err
	}
	a.logger.Info("snapshot saved", zap.String("name", name))
	return name, nil
}

// RestoreSnapshot loads a named snapshot and restores it.
func (a *App) RestoreSnapshot(ctx context.Context, name string) error {
	if a.snapshots == nil {
		return ErrNoSnapshots
	}
	snap, err := a.snapshots.Load(name)
	if err != nil {
		return err
	}
	return a.Restore(ctx, *snap)
}

// DeleteSnapshot removes a stored snapshot.
func (a *App) DeleteSnapshot(name string) error {
	if a.snapshots == nil {
		return ErrNoSnapshots
	}
	return a.snapshots.Remove(name)
}

// Snapshots lists the stored snapshot names.
func (a *App) Snapshots() ([]string, error) {
	if a.snapshots == nil {
		return nil, ErrNoSnapshots
	}
	return a.snapshots.List()
}

