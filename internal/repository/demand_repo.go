package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tgo/gridsense/internal/forecast"
	"github.com/tgo/gridsense/internal/model"
)

// DemandRepository reads the power consumption fact table.
type DemandRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDemandRepository(db *gorm.DB) *DemandRepository {
	return &DemandRepository{db: db, now: time.Now}
}

// DailyConsumption returns the most recent daily consumption totals for
// the scope, newest first, bounded above by today. Every filter value is
// a bound parameter; nothing is interpolated into the SQL text.
func (r *DemandRepository) DailyConsumption(ctx context.Context, scope forecast.Scope, limit int) ([]forecast.DailyTotal, error) {
	query := r.db.WithContext(ctx).
		Model(&model.DemandRecord{}).
		Select("date, SUM(consumption_mega_units) AS consumption_mega_units").
		Where("date <= ?", r.now().UTC().Format("2006-01-02"))

	if scope.State != nil {
		query = query.Where("state = ?", *scope.State)
	}
	if scope.Region != nil {
		query = query.Where("region = ?", *scope.Region)
	}
	if scope.PowerSupplier != nil {
		query = query.Where("power_supplier = ?", *scope.PowerSupplier)
	}

	var rows []struct {
		Date                 time.Time
		ConsumptionMegaUnits float64
	}
	if err := query.Group("date").Order("date DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]forecast.DailyTotal, len(rows))
	for i, row := range rows {
		totals[i] = forecast.DailyTotal{
			Date:                 row.Date,
			ConsumptionMegaUnits: row.ConsumptionMegaUnits,
		}
	}
	return totals, nil
}

// ColumnInfo describes one fact-table column for prompt construction.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableSchema introspects the fact table's columns.
func (r *DemandRepository) TableSchema(ctx context.Context) ([]ColumnInfo, error) {
	types, err := r.db.WithContext(ctx).Migrator().ColumnTypes(&model.DemandRecord{})
	if err != nil {
		return nil, fmt.Errorf("introspect table: %w", err)
	}
	columns := make([]ColumnInfo, len(types))
	for i, ct := range types {
		columns[i] = ColumnInfo{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}
	return columns, nil
}

// FormatSchema renders the schema the way the orchestration layer embeds
// it into prompts: "name:TYPE, name:TYPE, ...".
func FormatSchema(table string, columns []ColumnInfo) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c.Name + ":" + strings.ToUpper(c.Type)
	}
	return fmt.Sprintf("Schema for `%s`:\n\n%s", table, strings.Join(parts, ", "))
}

// RunSelect executes a caller-supplied read-only query and returns the
// rows as generic maps. Only SELECT (or WITH ... SELECT) statements are
// accepted.
func (r *DemandRepository) RunSelect(ctx context.Context, sqlQuery string) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(sqlQuery)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return nil, fmt.Errorf("only SELECT statements are allowed")
	}
	if strings.Contains(trimmed, ";") {
		return nil, fmt.Errorf("multiple statements are not allowed")
	}

	var rows []map[string]any
	if err := r.db.WithContext(ctx).Raw(trimmed).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
