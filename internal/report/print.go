package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"salescli/internal/dataprocessing"
)

// Print writes the answers followed by the ranked product pairs.
func Print(w io.Writer, r Report) error {
	p := &printer{w: w}

	p.line("Best month for sales: %s, earned %s", monthName(r.BestMonth.Key), money(r.BestMonth))
	p.line("Best date for sales: %s, earned %s", r.BestDate.Key, money(r.BestDate))
	p.line("Sales on %s: %s", r.SalesDate, r.SalesOnDate.StringFixed(2))
	p.line("Best city for sales: %s, earned %s", r.BestCity.Key, money(r.BestCity))

	hours := make([]string, len(r.PeakHours))
	for i, h := range r.PeakHours {
		hours[i] = fmt.Sprintf("%s:00 (%d orders)", h.Key, h.Count)
	}
	p.line("Best hours for advertising: %s", strings.Join(hours, ", "))

	p.line("Best-selling product: %s, %d units at a mean price of %s",
		r.BestProduct.Key, r.BestProduct.QuantityOrdered, r.BestProduct.MeanPrice().StringFixed(2))

	p.line("")
	p.line("Products most often sold together:")
	if p.err != nil {
		return p.err
	}
	return PrintPairs(w, r.TopPairs)
}

// PrintPairs writes one "A, B  count" line per pair.
func PrintPairs(w io.Writer, pairs []dataprocessing.PairCount) error {
	p := &printer{w: w}
	for _, pc := range pairs {
		p.line("%s  %d", pc.Pair.String(), pc.Count)
	}
	return p.err
}

// printer stops writing after the first error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func money(g dataprocessing.GroupTotals) string {
	return g.Sales.StringFixed(2)
}

func monthName(key string) string {
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > 12 {
		return key
	}
	return time.Month(n).String()
}
