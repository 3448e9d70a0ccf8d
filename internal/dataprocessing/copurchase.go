package dataprocessing

import (
	"sort"
	"strings"

	"salescli/pkg/contracts/domain"
)

// groupSeparator joins the products of one order into its Grouped value
const groupSeparator = ","

// OrderGroup is the product list of one multi-line order.
type OrderGroup struct {
	OrderID  string   `json:"order_id"`
	Products []string `json:"products"`
	Grouped  string   `json:"grouped"`
}

// ProductPair is an unordered pair of distinct products. First sorts before
// Second.
type ProductPair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

func newProductPair(a, b string) ProductPair {
	if b < a {
		a, b = b, a
	}
	return ProductPair{First: a, Second: b}
}

// String renders the pair as "First, Second".
func (p ProductPair) String() string {
	return p.First + ", " + p.Second
}

// PairCount is one entry of a PairCounts ranking.
type PairCount struct {
	Pair  ProductPair `json:"pair"`
	Count int         `json:"count"`
}

// PairCounts accumulates co-purchase counts and remembers the order in which
// pairs were first seen.
type PairCounts struct {
	counts map[ProductPair]int
	order  []ProductPair
}

func (p *PairCounts) add(pair ProductPair) {
	if p.counts == nil {
		p.counts = make(map[ProductPair]int)
	}
	if _, ok := p.counts[pair]; !ok {
		p.order = append(p.order, pair)
	}
	p.counts[pair]++
}

// Count returns how many orders contributed the unordered pair (a, b).
func (p PairCounts) Count(a, b string) int {
	return p.counts[newProductPair(a, b)]
}

// Len returns the number of distinct pairs.
func (p PairCounts) Len() int {
	return len(p.order)
}

// TopPairs returns the n most frequent pairs, count descending, ties in the
// order the pairs were first seen. n <= 0 returns every pair.
func (p PairCounts) TopPairs(n int) []PairCount {
	ranked := make([]PairCount, len(p.order))
	for i, pair := range p.order {
		ranked[i] = PairCount{Pair: pair, Count: p.counts[pair]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// MultiLineOrders returns one group per Order ID that appears on more than
// one line, in order of first appearance, with products in row order.
func MultiLineOrders(table domain.AugmentedTable) []OrderGroup {
	lines := make(map[string]int)
	for _, row := range table.Rows {
		lines[row.OrderID]++
	}

	index := make(map[string]int)
	var groups []OrderGroup
	for _, row := range table.Rows {
		if lines[row.OrderID] < 2 {
			continue
		}
		i, ok := index[row.OrderID]
		if !ok {
			i = len(groups)
			index[row.OrderID] = i
			groups = append(groups, OrderGroup{OrderID: row.OrderID})
		}
		groups[i].Products = append(groups[i].Products, row.Product)
	}

	for i := range groups {
		groups[i].Grouped = strings.Join(groups[i].Products, groupSeparator)
	}
	return groups
}

// CountPairs counts every 2-combination of products within each multi-line
// order. An order with k lines contributes up to k*(k-1)/2 increments, so a
// 3-line order counts toward three pairs.
func CountPairs(table domain.AugmentedTable) PairCounts {
	var counts PairCounts
	for _, group := range MultiLineOrders(table) {
		for i := 0; i < len(group.Products); i++ {
			for j := i + 1; j < len(group.Products); j++ {
				if group.Products[i] == group.Products[j] {
					continue
				}
				counts.add(newProductPair(group.Products[i], group.Products[j]))
			}
		}
	}
	return counts
}

// GroupedValueCount is one distinct Grouped value and how many orders share it.
type GroupedValueCount struct {
	Grouped string `json:"grouped"`
	Size    int    `json:"size"`
	Count   int    `json:"count"`
}

// GroupedValueCounts counts identical (Grouped, group size) combinations
// across multi-line orders, count descending, ties by first appearance.
func GroupedValueCounts(table domain.AugmentedTable) []GroupedValueCount {
	type key struct {
		grouped string
		size    int
	}

	index := make(map[key]int)
	var counts []GroupedValueCount
	for _, group := range MultiLineOrders(table) {
		k := key{grouped: group.Grouped, size: len(group.Products)}
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, GroupedValueCount{Grouped: k.grouped, Size: k.size})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts
}
