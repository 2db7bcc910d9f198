package material

import (
	"slices"

	"github.com/shopspring/decimal"
)

// LabelTotal is the summed quantity of all items sharing a display label
type LabelTotal struct {
	Label     string
	Quantity  decimal.Decimal
	ItemCount int
}

// Summarize totals quantities per display label, largest quantity first, ties by label
func Summarize(items []Item) []LabelTotal {
	index := make(map[string]int)
	totals := make([]LabelTotal, 0)
	for _, item := range items {
		label := item.Label()
		i, ok := index[label]
		if !ok {
			i = len(totals)
			index[label] = i
			totals = append(totals, LabelTotal{Label: label, Quantity: decimal.Zero})
		}
		totals[i].Quantity = totals[i].Quantity.Add(item.Quantity)
		totals[i].ItemCount++
	}

	slices.SortFunc(totals, func(a, b LabelTotal) int {
		if c := b.Quantity.Cmp(a.Quantity); c != 0 {
			return c
		}
		if a.Label < b.Label {
			return -1
		}
		if a.Label > b.Label {
			return 1
		}
		return 0
	})
	return totals
}
