package dataprocessing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

func augmentedLine(orderID, product string, qty int64, price string, at time.Time, city string) domain.AugmentedOrderLine {
	row := domain.AugmentedOrderLine{
		OrderLine: orderLine(orderID, product, qty, price, at, ""),
		Month:     int(at.Month()),
		Date:      at.Format(domain.DateLayout),
		Hour:      at.Hour(),
		Minute:    at.Minute(),
		City:      city,
	}
	if city != "" {
		row.State = city[len(city)-3 : len(city)-1]
	}
	return row
}

func day(month, d, hour int) time.Time {
	return time.Date(2019, time.Month(month), d, hour, 0, 0, 0, time.UTC)
}

func TestGroupSum_MonthSortedBySales(t *testing.T) {
	// December holds 100 of sales, March 300
	table := domain.AugmentedTable{Rows: []domain.AugmentedOrderLine{
		augmentedLine("1", "iPhone", 1, "300", day(3, 1, 10), "Boston (MA)"),
		augmentedLine("2", "Wired Headphones", 4, "25", day(12, 5, 11), "Dallas (TX)"),
	}}

	byMonth, err := GroupSum(table, domain.ColumnMonth)
	require.NoError(t, err)
	require.Len(t, byMonth, 2)
	assert.Equal(t, "3", byMonth[0].Key)
	assert.Equal(t, "12", byMonth[1].Key)

	sorted, err := SortBy(byMonth, domain.ColumnSales)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(sorted[0].Sales))
	assert.True(t, decimal.NewFromInt(300).Equal(sorted[1].Sales))
	assert.Equal(t, "12", sorted[0].Key)
	assert.Equal(t, "3", sorted[1].Key)

	assert.Equal(t, "3", byMonth[0].Key, "SortBy must not reorder its input")
}

func TestGroupSum_NumericKeyOrder(t *testing.T) {
	table := domain.AugmentedTable{Rows: []domain.AugmentedOrderLine{
		augmentedLine("1", "iPhone", 1, "700", day(1, 1, 20), ""),
		augmentedLine("2", "iPhone", 1, "700", day(1, 1, 9), ""),
		augmentedLine("3", "iPhone", 1, "700", day(1, 1, 10), ""),
		augmentedLine("4", "iPhone", 1, "700", day(1, 1, 9), ""),
	}}

	byHour, err := GroupSum(table, domain.ColumnHour)
	require.NoError(t, err)

	keys := make([]string, len(byHour))
	for i, g := range byHour {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"9", "10", "20"}, keys)
	assert.Equal(t, 2, byHour[0].Count)
	assert.Equal(t, int64(18), byHour[0].Hour)
}

func TestGroupSum_SumsEveryColumn(t *testing.T) {
	table := domain.AugmentedTable{Rows: []domain.AugmentedOrderLine{
		augmentedLine("1", "AAA Batteries (4-pack)", 3, "2.99", day(4, 2, 8), "Dallas (TX)"),
		augmentedLine("2", "AAA Batteries (4-pack)", 2, "3.01", day(5, 2, 9), "Austin (TX)"),
		augmentedLine("3", "iPhone", 1, "700", day(4, 2, 10), "Dallas (TX)"),
	}}

	byProduct, err := GroupSum(table, domain.ColumnProduct)
	require.NoError(t, err)
	require.Len(t, byProduct, 2)

	batteries := byProduct[0]
	assert.Equal(t, "AAA Batteries (4-pack)", batteries.Key)
	assert.Equal(t, int64(5), batteries.QuantityOrdered)
	assert.True(t, decimal.RequireFromString("6").Equal(batteries.PriceEach))
	assert.True(t, decimal.RequireFromString("14.99").Equal(batteries.Sales))
	assert.Equal(t, int64(9), batteries.Month)
	assert.Equal(t, int64(17), batteries.Hour)
	assert.Equal(t, 2, batteries.Count)
	assert.True(t, decimal.RequireFromString("3").Equal(batteries.MeanPrice()))

	byState, err := GroupSum(table, domain.ColumnState)
	require.NoError(t, err)
	require.Len(t, byState, 1)
	assert.Equal(t, "TX", byState[0].Key)
	assert.Equal(t, 3, byState[0].Count)
}

func TestGroupSum_SkipsUnmatchedCity(t *testing.T) {
	table := domain.AugmentedTable{Rows: []domain.AugmentedOrderLine{
		augmentedLine("1", "iPhone", 1, "700", day(1, 1, 9), ""),
		augmentedLine("2", "iPhone", 1, "700", day(1, 1, 9), "Boston (MA)"),
	}}

	byCity, err := GroupSum(table, domain.ColumnCity)
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Boston (MA)", byCity[0].Key)

	keys, err := GroupKeys(table, domain.ColumnCity)
	require.NoError(t, err)
	assert.Equal(t, []string{"Boston (MA)"}, keys)
}

func TestGroupKeys_MatchesGroupSumOrder(t *testing.T) {
	table := domain.AugmentedTable{Rows: []domain.AugmentedOrderLine{
		augmentedLine("1", "iPhone", 1, "700", day(11, 1, 9), ""),
		augmentedLine("2", "iPhone", 1, "700", day(2, 1, 9), ""),
		augmentedLine("3", "iPhone", 1, "700", day(11, 3, 9), ""),
	}}

	for _, column := range []string{domain.ColumnMonth, domain.ColumnDate, domain.ColumnOrderID} {
		keys, err := GroupKeys(table, column)
		require.NoError(t, err)
		groups, err := GroupSum(table, column)
		require.NoError(t, err)

		require.Len(t, keys, len(groups), column)
		for i := range keys {
			assert.Equal(t, groups[i].Key, keys[i], column)
		}
	}
}

func TestGroupSum_UnknownColumn(t *testing.T) {
	_, err := GroupSum(domain.AugmentedTable{}, domain.ColumnPriceEach)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = GroupKeys(domain.AugmentedTable{}, "Customer")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSortBy(t *testing.T) {
	results := []GroupTotals{
		{Key: "a", QuantityOrdered: 5, Sales: decimal.NewFromInt(10), Count: 3},
		{Key: "b", QuantityOrdered: 1, Sales: decimal.NewFromInt(10), Count: 1},
		{Key: "c", QuantityOrdered: 3, Sales: decimal.NewFromInt(5), Count: 2},
	}

	tests := []struct {
		column string
		want   []string
	}{
		{domain.ColumnSales, []string{"c", "a", "b"}},
		{domain.ColumnQuantityOrdered, []string{"b", "c", "a"}},
		{domain.ColumnCount, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			sorted, err := SortBy(results, tt.column)
			require.NoError(t, err)

			got := make([]string, len(sorted))
			for i, g := range sorted {
				got[i] = g.Key
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SortBy(results, domain.ColumnHour)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSalesOnDate(t *testing.T) {
	table := domain.AugmentedTable{Rows: []domain.AugmentedOrderLine{
		augmentedLine("1", "iPhone", 1, "700", day(12, 4, 9), ""),
		augmentedLine("2", "Wired Headphones", 2, "11.99", day(12, 4, 20), ""),
		augmentedLine("3", "iPhone", 1, "700", day(12, 5, 9), ""),
	}}

	total, err := SalesOnDate(table, "2019-12-04")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("723.98").Equal(total))

	total, err = SalesOnDate(table, "2019-01-01")
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = SalesOnDate(table, "12/04/19")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
