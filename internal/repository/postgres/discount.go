package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vendra/pricing-service/internal/domain"
	"github.com/vendra/pricing-service/pkg/database"
)

// DiscountRepository implements repository.DiscountRepository using
// PostgreSQL.
type DiscountRepository struct {
	db database.DBTX
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(db database.DBTX) *DiscountRepository {
	return &DiscountRepository{db: db}
}

const discountColumns = `
	id, shop_id, name, type, method, code, value_type, value, priority,
	product_ids, collection_ids, buy_quantity, get_quantity,
	usage_limit, usage_limit_per_customer,
	customer_selection, customer_ids, customer_group_ids,
	starts_at, ends_at, is_active, created_at, updated_at`

// FindActiveDiscounts returns the shop's active discounts ordered by
// ascending priority. Automatic discounts always match; code discounts only
// when the code equals the supplied one exactly (the comparison is the
// column's case-sensitive equality, no normalization).
func (r *DiscountRepository) FindActiveDiscounts(ctx context.Context, shopID, code string) ([]domain.DiscountDefinition, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discounts
		WHERE shop_id = $1
		  AND is_active = TRUE
		  AND (method = 'automatic' OR ($2 <> '' AND method = 'code' AND code = $2))
		ORDER BY priority ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query, shopID, code)
	if err != nil {
		return nil, fmt.Errorf("query active discounts: %w", err)
	}
	defer rows.Close()

	var discounts []domain.DiscountDefinition
	for rows.Next() {
		var (
			d               domain.DiscountDefinition
			productsJSON    []byte
			collectionsJSON []byte
			customersJSON   []byte
			groupsJSON      []byte
		)

		if err := rows.Scan(
			&d.ID,
			&d.ShopID,
			&d.Name,
			&d.Type,
			&d.Method,
			&d.Code,
			&d.ValueType,
			&d.Value,
			&d.Priority,
			&productsJSON,
			&collectionsJSON,
			&d.BuyQuantity,
			&d.GetQuantity,
			&d.UsageLimit,
			&d.UsageLimitPerCustomer,
			&d.CustomerSelection,
			&customersJSON,
			&groupsJSON,
			&d.StartsAt,
			&d.EndsAt,
			&d.IsActive,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan discount row: %w", err)
		}

		if err := unmarshalIDList(productsJSON, &d.ProductIDs); err != nil {
			return nil, fmt.Errorf("unmarshal product_ids: %w", err)
		}
		if err := unmarshalIDList(collectionsJSON, &d.CollectionIDs); err != nil {
			return nil, fmt.Errorf("unmarshal collection_ids: %w", err)
		}
		if err := unmarshalIDList(customersJSON, &d.CustomerIDs); err != nil {
			return nil, fmt.Errorf("unmarshal customer_ids: %w", err)
		}
		if err := unmarshalIDList(groupsJSON, &d.CustomerGroupIDs); err != nil {
			return nil, fmt.Errorf("unmarshal customer_group_ids: %w", err)
		}

		discounts = append(discounts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount rows: %w", err)
	}

	if discounts == nil {
		discounts = []domain.DiscountDefinition{}
	}

	return discounts, nil
}

// TotalUsageCount counts all recorded usages of a discount.
func (r *DiscountRepository) TotalUsageCount(ctx context.Context, discountID string) (int, error) {
	query := `SELECT COUNT(*) FROM discount_usages WHERE discount_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, discountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count discount usages: %w", err)
	}

	return count, nil
}

// UsageCountForCustomer counts one customer's recorded usages of a discount.
func (r *DiscountRepository) UsageCountForCustomer(ctx context.Context, discountID, customerID string) (int, error) {
	query := `SELECT COUNT(*) FROM discount_usages WHERE discount_id = $1 AND customer_id = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, discountID, customerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count customer discount usages: %w", err)
	}

	return count, nil
}

// unmarshalIDList decodes a JSON array column, treating NULL as empty.
func unmarshalIDList(data []byte, dst *[]string) error {
	if data != nil {
		if err := json.Unmarshal(data, dst); err != nil {
			return err
		}
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}
