package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendra/pricing-service/internal/domain"
	"github.com/vendra/pricing-service/pkg/database"
)

func setupRepo(t *testing.T) (pgxmock.PgxPoolIface, *DiscountRepository) {
	t.Helper()

	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewDiscountRepository(mock)
}

func discountRowColumns() []string {
	return []string{
		"id", "shop_id", "name", "type", "method", "code", "value_type", "value", "priority",
		"product_ids", "collection_ids", "buy_quantity", "get_quantity",
		"usage_limit", "usage_limit_per_customer",
		"customer_selection", "customer_ids", "customer_group_ids",
		"starts_at", "ends_at", "is_active", "created_at", "updated_at",
	}
}

func TestFindActiveDiscounts(t *testing.T) {
	mock, repo := setupRepo(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	starts := now.Add(-time.Hour)

	rows := pgxmock.NewRows(discountRowColumns()).
		AddRow(
			"disc-1", "shop-1", "Summer Sale", domain.DiscountTypeProduct, domain.DiscountMethodAutomatic,
			"", domain.ValueTypePercentage, int64(2000), 1,
			[]byte(`["prod-1","prod-2"]`), []byte(`[]`), 0, 0,
			0, 0,
			domain.CustomerSelectionAll, []byte(`[]`), []byte(`[]`),
			&starts, nil, true, now, now,
		).
		AddRow(
			"disc-2", "shop-1", "WELCOME10", domain.DiscountTypeOrder, domain.DiscountMethodCode,
			"WELCOME10", domain.ValueTypeFixedAmount, int64(1000), 2,
			nil, nil, 0, 0,
			100, 1,
			domain.CustomerSelectionAll, nil, nil,
			nil, nil, true, now, now,
		)

	mock.ExpectQuery("SELECT(.|\n)+FROM discounts").
		WithArgs("shop-1", "WELCOME10").
		WillReturnRows(rows)

	discounts, err := repo.FindActiveDiscounts(context.Background(), "shop-1", "WELCOME10")
	require.NoError(t, err)
	require.Len(t, discounts, 2)

	assert.Equal(t, "disc-1", discounts[0].ID)
	assert.Equal(t, []string{"prod-1", "prod-2"}, discounts[0].ProductIDs)
	assert.Equal(t, int64(2000), discounts[0].Value)
	require.NotNil(t, discounts[0].StartsAt)
	assert.True(t, discounts[0].StartsAt.Equal(starts))

	assert.Equal(t, "disc-2", discounts[1].ID)
	assert.Equal(t, "WELCOME10", discounts[1].Code)
	assert.Empty(t, discounts[1].ProductIDs)
	assert.Equal(t, 100, discounts[1].UsageLimit)
	assert.Nil(t, discounts[1].EndsAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveDiscounts_Empty(t *testing.T) {
	mock, repo := setupRepo(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM discounts").
		WithArgs("shop-1", "").
		WillReturnRows(pgxmock.NewRows(discountRowColumns()))

	discounts, err := repo.FindActiveDiscounts(context.Background(), "shop-1", "")
	require.NoError(t, err)
	assert.NotNil(t, discounts)
	assert.Empty(t, discounts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveDiscounts_QueryError(t *testing.T) {
	mock, repo := setupRepo(t)

	mock.ExpectQuery("SELECT(.|\n)+FROM discounts").
		WithArgs("shop-1", "").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.FindActiveDiscounts(context.Background(), "shop-1", "")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalUsageCount(t *testing.T) {
	mock, repo := setupRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM discount_usages WHERE discount_id = \$1`).
		WithArgs("disc-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.TotalUsageCount(context.Background(), "disc-1")
	require.NoError(t, err)
	assert.Equal(t, 42, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsageCountForCustomer(t *testing.T) {
	mock, repo := setupRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM discount_usages WHERE discount_id = \$1 AND customer_id = \$2`).
		WithArgs("disc-1", "cust-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.UsageCountForCustomer(context.Background(), "disc-1", "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}
