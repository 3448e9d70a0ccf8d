package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/dataprocessing"
	apperrors "salescli/internal/errors"
	"salescli/internal/shared/testutil"
	"salescli/pkg/contracts/domain"
)

func line(orderID, product string, qty int64, price string, at time.Time, address string) domain.OrderLine {
	return domain.OrderLine{
		OrderID:         orderID,
		Product:         product,
		QuantityOrdered: qty,
		PriceEach:       decimal.RequireFromString(price),
		OrderDate:       at,
		PurchaseAddress: address,
	}
}

func sampleTable(t *testing.T) domain.AugmentedTable {
	t.Helper()

	clean := domain.CleanTable{Rows: []domain.OrderLine{
		line("1", "iPhone", 1, "700", time.Date(2019, 12, 4, 19, 5, 0, 0, time.UTC), "944 Walnut St, Boston, MA 02215"),
		line("1", "Lightning Charging Cable", 1, "14.95", time.Date(2019, 12, 4, 19, 5, 0, 0, time.UTC), "944 Walnut St, Boston, MA 02215"),
		line("2", "AAA Batteries (4-pack)", 4, "2.99", time.Date(2019, 4, 19, 12, 30, 0, 0, time.UTC), "917 1st St, Dallas, TX 75001"),
		line("3", "AAA Batteries (4-pack)", 2, "2.99", time.Date(2019, 4, 20, 19, 45, 0, 0, time.UTC), "917 1st St, Dallas, TX 75001"),
		line("4", "iPhone", 1, "700", time.Date(2019, 12, 5, 11, 0, 0, 0, time.UTC), "1 Main St, San Francisco, CA 94016"),
		line("4", "Lightning Charging Cable", 1, "14.95", time.Date(2019, 12, 5, 11, 0, 0, 0, time.UTC), "1 Main St, San Francisco, CA 94016"),
		line("5", "Wired Headphones", 1, "11.99", time.Date(2019, 12, 6, 12, 0, 0, 0, time.UTC), "no address"),
	}}

	table, _ := dataprocessing.Augment(context.Background(), clean)
	return table
}

func TestBuild(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	r, err := NewBuilder(logger, Options{TopPairs: 10, PeakHours: 2, SalesDate: "2019-12-04"}).
		Build(context.Background(), sampleTable(t))
	require.NoError(t, err)

	assert.Equal(t, 7, r.Rows)
	assert.Equal(t, "12", r.BestMonth.Key)
	assert.True(t, decimal.RequireFromString("1441.89").Equal(r.BestMonth.Sales))
	assert.Equal(t, "2019-12-04", r.BestDate.Key)
	assert.Equal(t, "Boston (MA)", r.BestCity.Key)
	assert.Equal(t, "AAA Batteries (4-pack)", r.BestProduct.Key)
	assert.Equal(t, int64(6), r.BestProduct.QuantityOrdered)
	assert.True(t, decimal.RequireFromString("714.95").Equal(r.SalesOnDate))

	require.Len(t, r.PeakHours, 2)
	assert.Equal(t, "19", r.PeakHours[0].Key)
	assert.Equal(t, 3, r.PeakHours[0].Count)
	assert.Equal(t, "11", r.PeakHours[1].Key, "ties keep hour order")

	require.Len(t, r.TopPairs, 1)
	assert.Equal(t, "Lightning Charging Cable, iPhone", r.TopPairs[0].Pair.String())
	assert.Equal(t, 2, r.TopPairs[0].Count)

	require.Len(t, r.GroupedCounts, 1)
	assert.Equal(t, 2, r.GroupedCounts[0].Count)

	assert.Len(t, r.ByMonth, 2)
	assert.Len(t, r.ByCity, 3, "unmatched address has no city group")

	assert.True(t, handler.ContainsMessage("report built"))
}

func TestBuild_Defaults(t *testing.T) {
	b := NewBuilder(nil, Options{})
	assert.Equal(t, Options{TopPairs: 0, PeakHours: 2, SalesDate: "2019-12-04"}, b.options)

	b = NewBuilder(nil, Options{TopPairs: -3})
	assert.Zero(t, b.options.TopPairs)
}

func TestBuild_TopPairsLimit(t *testing.T) {
	var rows []domain.OrderLine
	at := time.Date(2019, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("%d", 100+i)
		rows = append(rows,
			line(id, fmt.Sprintf("Product %02d A", i), 1, "1.00", at, "1 A St, Austin, TX 73301"),
			line(id, fmt.Sprintf("Product %02d B", i), 1, "1.00", at, "1 A St, Austin, TX 73301"))
	}
	table, _ := dataprocessing.Augment(context.Background(), domain.CleanTable{Rows: rows})

	tests := []struct {
		name string
		top  int
		want int
	}{
		{name: "all", top: 0, want: 12},
		{name: "ten", top: 10, want: 10},
		{name: "one", top: 1, want: 1},
		{name: "more than exist", top: 50, want: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Build(context.Background(), table, Options{TopPairs: tt.top})
			require.NoError(t, err)
			assert.Len(t, r.TopPairs, tt.want)
			assert.Equal(t, "Product 00 A, Product 00 B", r.TopPairs[0].Pair.String())
		})
	}
}

func TestBuild_TiesPickFirstKey(t *testing.T) {
	clean := domain.CleanTable{Rows: []domain.OrderLine{
		line("1", "iPhone", 1, "700", time.Date(2019, 3, 1, 9, 0, 0, 0, time.UTC), "1 A St, Austin, TX 73301"),
		line("2", "iPhone", 1, "700", time.Date(2019, 1, 1, 9, 0, 0, 0, time.UTC), "1 A St, Austin, TX 73301"),
	}}
	table, _ := dataprocessing.Augment(context.Background(), clean)

	r, err := Build(context.Background(), table, Options{})
	require.NoError(t, err)
	assert.Equal(t, "1", r.BestMonth.Key)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(context.Background(), domain.AugmentedTable{}, Options{})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = Build(context.Background(), sampleTable(t), Options{SalesDate: "04/12/2019"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, sampleTable(t), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrint(t *testing.T) {
	r, err := Build(context.Background(), sampleTable(t), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Best month for sales: December, earned 1441.89")
	assert.Contains(t, out, "Best date for sales: 2019-12-04, earned 714.95")
	assert.Contains(t, out, "Sales on 2019-12-04: 714.95")
	assert.Contains(t, out, "Best city for sales: Boston (MA), earned 714.95")
	assert.Contains(t, out, "Best hours for advertising: 19:00 (3 orders), 11:00 (2 orders)")
	assert.Contains(t, out, "Best-selling product: AAA Batteries (4-pack), 6 units at a mean price of 2.99")
	assert.True(t, strings.HasSuffix(out, "Lightning Charging Cable, iPhone  2\n"))
}

func TestPrintPairs(t *testing.T) {
	pairs := []dataprocessing.PairCount{
		{Pair: dataprocessing.ProductPair{First: "A", Second: "B"}, Count: 3},
		{Pair: dataprocessing.ProductPair{First: "C", Second: "D"}, Count: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintPairs(&buf, pairs))
	assert.Equal(t, "A, B  3\nC, D  1\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrint_WriteError(t *testing.T) {
	r, err := Build(context.Background(), sampleTable(t), Options{})
	require.NoError(t, err)

	assert.EqualError(t, Print(failingWriter{}, r), "disk full")
}
