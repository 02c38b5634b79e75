package pricingrule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	"github.com/barrio-app/Barrio-PricingService/pkg/dbmetrics"
	"github.com/barrio-app/Barrio-PricingService/pkg/psqlbuilder"
)

var ruleColumns = []string{
	"id",
	"business_id",
	"name",
	"service_ids",
	"days_of_week",
	"time_start",
	"time_end",
	"valid_from",
	"valid_until",
	"discount_type",
	"discount_percent",
	"discount_amount",
	"priority",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с правилами динамического ценообразования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое правило ценообразования
func (r *Repository) Create(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("pricing_rules").
		Columns(
			"business_id",
			"name",
			"service_ids",
			"days_of_week",
			"time_start",
			"time_end",
			"valid_from",
			"valid_until",
			"discount_type",
			"discount_percent",
			"discount_amount",
			"priority",
			"is_active",
		).
		Values(
			rule.BusinessID,
			rule.Name,
			pq.Array(rule.ServiceIDs),
			pq.Array(intsToInt64s(rule.DaysOfWeek)),
			rule.TimeStart,
			rule.TimeEnd,
			rule.ValidFrom,
			rule.ValidUntil,
			rule.DiscountType,
			rule.DiscountPercent,
			rule.DiscountAmount,
			rule.Priority,
			rule.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("pricing_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// GetByBusinessID получает все правила бизнеса (включая неактивные)
// Используется для управления правилами менеджерами
func (r *Repository) GetByBusinessID(ctx context.Context, businessID int64) ([]*domain.PricingRule, error) {
	return r.getByBusiness(ctx, businessID, false)
}

// GetActiveByBusinessID получает только активные правила бизнеса
// Используется движком расчёта цены
func (r *Repository) GetActiveByBusinessID(ctx context.Context, businessID int64) ([]*domain.PricingRule, error) {
	return r.getByBusiness(ctx, businessID, true)
}

func (r *Repository) getByBusiness(ctx context.Context, businessID int64, onlyActive bool) ([]*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("pricing_rules").
		Where(squirrel.Eq{"business_id": businessID}).
		// Порядок по убыванию приоритета, при равенстве - по возрастанию id
		// (правила, созданные раньше, идут первыми)
		OrderBy("priority DESC, id ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.PricingRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: getByBusiness - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getByBusiness - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Update обновляет правило ценообразования
func (r *Repository) Update(ctx context.Context, id int64, rule *domain.PricingRule) (*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("pricing_rules").
		Set("name", rule.Name).
		Set("service_ids", pq.Array(rule.ServiceIDs)).
		Set("days_of_week", pq.Array(intsToInt64s(rule.DaysOfWeek))).
		Set("time_start", rule.TimeStart).
		Set("time_end", rule.TimeEnd).
		Set("valid_from", rule.ValidFrom).
		Set("valid_until", rule.ValidUntil).
		Set("discount_type", rule.DiscountType).
		Set("discount_percent", rule.DiscountPercent).
		Set("discount_amount", rule.DiscountAmount).
		Set("priority", rule.Priority).
		Set("is_active", rule.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rule.ID = id
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// Delete удаляет правило ценообразования
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("pricing_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRule сканирует одну строку результата в domain.PricingRule
func scanRule(row rowScanner) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var serviceIDs pq.Int64Array
	var daysOfWeek pq.Int64Array
	var validFrom, validUntil sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.BusinessID,
		&rule.Name,
		&serviceIDs,
		&daysOfWeek,
		&rule.TimeStart,
		&rule.TimeEnd,
		&validFrom,
		&validUntil,
		&rule.DiscountType,
		&rule.DiscountPercent,
		&rule.DiscountAmount,
		&rule.Priority,
		&rule.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.ServiceIDs = []int64(serviceIDs)
	rule.DaysOfWeek = int64sToInts(daysOfWeek)
	if validFrom.Valid {
		rule.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		rule.ValidUntil = &validUntil.Time
	}
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

func intsToInt64s(values []int) []int64 {
	result := make([]int64, len(values))
	for i, v := range values {
		result[i] = int64(v)
	}
	return result
}

func int64sToInts(values []int64) []int {
	result := make([]int, len(values))
	for i, v := range values {
		result[i] = int(v)
	}
	return result
}
