package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	metricsdb "meal-planner/internal/metrics/metrics_db"
)

// Operation names recorded by the app.
const (
	OpShoppingList = "shopping_list"
	OpExport       = "export"
	OpImport       = "import"
)

// ExecutionMetric records one computation of the shopping list or a related
// operation.
type ExecutionMetric struct {
	Operation   string
	RecipeCount int
	ItemCount   int
	LatencyMS   int64
	Timestamp   time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	err := s.queries.InsertExecutionMetric(ctx, metricsdb.InsertExecutionMetricParams{
		Operation:   m.Operation,
		RecipeCount: int64(m.RecipeCount),
		ItemCount:   int64(m.ItemCount),
		LatencyMs:   m.LatencyMS,
		Timestamp:   ts.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record metric %s: %w", m.Operation, err)
	}
	return nil
}

// Since builds a metric for an operation that started at start.
func Since(operation string, start time.Time, recipes, items int) ExecutionMetric {
	return ExecutionMetric{
		Operation:   operation,
		RecipeCount: recipes,
		ItemCount:   items,
		LatencyMS:   time.Since(start).Milliseconds(),
		Timestamp:   time.Now().UTC(),
	}
}

// DailyActivity summarizes one day of recorded operations.
type DailyActivity struct {
	Date         string
	Runs         int
	Items        int
	AvgLatencyMS float64
}

// GetDailyActivity retrieves activity for the last N days, newest first.
func (s *Store) GetDailyActivity(ctx context.Context, days int) ([]DailyActivity, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyActivity(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}

	results := make([]DailyActivity, 0, len(rows))
	for _, r := range rows {
		a := DailyActivity{Runs: int(r.Runs)}

		switch day := r.Day.(type) {
		case string:
			a.Date = day
		case []byte:
			a.Date = string(day)
		default:
			a.Date = "Unknown"
		}
		if r.Items.Valid {
			a.Items = int(r.Items.Float64)
		}
		if r.AvgLatencyMs.Valid {
			a.AvgLatencyMS = r.AvgLatencyMs.Float64
		}
		results = append(results, a)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	n, err := s.queries.CleanupExecutionMetrics(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return n, nil
}
