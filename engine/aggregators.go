package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS: Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// Missing measures are excluded from both sum and count. A group with no
// present value is omitted from results, never emitted as 0 or NaN.
// Groups come out in first-seen order unless a sort is requested.
// ============================================================================

// KeyFunc extracts the aggregation key of a row. Rows for which ok is false
// belong to no group.
type KeyFunc func(Row) (key Key, ok bool)

// ByYear keys rows by their year, ordered numerically.
func ByYear() KeyFunc {
	return func(r Row) (Key, bool) {
		y, ok := r.Year()
		if !ok {
			return Key{}, false
		}
		return Key{Parts: []string{strconv.Itoa(y)}, Order: float64(y)}, true
	}
}

// ByDimension keys rows by one dimension. Blank values belong to no group.
func ByDimension(dimension string) KeyFunc {
	return func(r Row) (Key, bool) {
		v := r.Dimension(dimension)
		if strings.TrimSpace(v) == "" {
			return Key{}, false
		}
		return Key{Parts: []string{v}}, true
	}
}

// ByDimensionAndYear keys rows by (dimension, year), ordered by year.
func ByDimensionAndYear(dimension string) KeyFunc {
	return func(r Row) (Key, bool) {
		v := r.Dimension(dimension)
		y, ok := r.Year()
		if strings.TrimSpace(v) == "" || !ok {
			return Key{}, false
		}
		return Key{Parts: []string{v, strconv.Itoa(y)}, Order: float64(y)}, true
	}
}

// Aggregate averages measure over all rows sharing a key.
// The key is computed once per row; points keep first-seen key order.
func Aggregate(view RecordView, keyFn KeyFunc, measure string) []AggregatedPoint {
	type acc struct {
		key   Key
		sum   float64
		count int
	}

	index := make(map[string]int)
	var accs []acc

	for i := 0; i < view.Len(); i++ {
		row := Row{view: view, index: i}
		key, ok := keyFn(row)
		if !ok {
			continue
		}
		id := key.String()
		pos, seen := index[id]
		if !seen {
			pos = len(accs)
			index[id] = pos
			accs = append(accs, acc{key: key})
		}
		if v, present := row.Measure(measure); present && isFinite(v) {
			accs[pos].sum += v
			accs[pos].count++
		}
	}

	points := make([]AggregatedPoint, 0, len(accs))
	for _, a := range accs {
		if a.count == 0 {
			continue
		}
		points = append(points, AggregatedPoint{
			Key:   a.key,
			Value: a.sum / float64(a.count),
			Count: a.count,
		})
	}
	return points
}

// SortPoints orders points by key order ascending, stable on ties.
func SortPoints(points []AggregatedPoint) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Key.Order < points[j].Key.Order })
}

// Aggregations understood by GroupAndAggregate. Anything else averages.
var Aggregations = []string{"avg", "sum", "min", "max", "count"}

// SortModes understood by SortGroups. The empty mode keeps grouping order.
var SortModes = []string{
	"value_desc", "value_asc",
	"key_asc", "key_desc", "chronological", "reverse_chronological",
	"label_asc", "label_desc", "alpha_asc",
}

// ValidAggregation reports whether aggregation is one of Aggregations.
func ValidAggregation(aggregation string) bool { return contains(Aggregations, aggregation) }

// ValidSort reports whether sortBy is empty or one of SortModes.
func ValidSort(sortBy string) bool { return sortBy == "" || contains(SortModes, sortBy) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GroupAndAggregate is the main entry point for the grouped pipeline.
// Pipeline: group → aggregate → drop empty → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else if len(groupBy) == 1 {
		groups = groupBySingle(view, groupBy[0])
	} else {
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
		groups[i].SubGroups = dropUndefined(groups[i].SubGroups)
	}

	// 3. Drop empty
	kept := groups[:0]
	for _, g := range groups {
		if g.Defined || len(g.SubGroups) > 0 {
			kept = append(kept, g)
		}
	}
	groups = kept

	// 4. Sort
	SortGroups(groups, sortBy)
	for i := range groups {
		SortGroups(groups[i].SubGroups, sortBy)
	}

	// 5. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if strings.TrimSpace(key) == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) []Group {
	if len(dimensions) < 2 {
		return groupBySingle(view, dimensions[0])
	}

	primaryGroups := groupBySingle(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

func dropUndefined(groups []Group) []Group {
	kept := groups[:0]
	for _, g := range groups {
		if g.Defined {
			kept = append(kept, g)
		}
	}
	return kept
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	var ok bool
	switch aggregation {
	case "count":
		// Rows with the measure missing are not counted.
		_, group.Count, ok = SumMeasure(group.View, measure)
		group.Value = float64(group.Count)
	case "sum":
		group.Value, group.Count, ok = SumMeasure(group.View, measure)
	case "max":
		group.Value, group.Count, ok = MaxMeasure(group.View, measure)
	case "min":
		group.Value, group.Count, ok = MinMeasure(group.View, measure)
	default:
		group.Value, group.Count, ok = AvgMeasure(group.View, measure)
	}
	group.Defined = ok
}

// SumMeasure sums the present values of a measure across a view.
// n is the number of values summed; ok is false when n is zero.
func SumMeasure(view RecordView, measure string) (total float64, n int, ok bool) {
	for i := 0; i < view.Len(); i++ {
		if v, present := view.Measure(i, measure); present && isFinite(v) {
			total += v
			n++
		}
	}
	return total, n, n > 0
}

// AvgMeasure computes the mean of the present values of a measure.
func AvgMeasure(view RecordView, measure string) (float64, int, bool) {
	total, n, ok := SumMeasure(view, measure)
	if !ok {
		return 0, 0, false
	}
	return total / float64(n), n, true
}

// MaxMeasure returns the largest present value of a measure.
func MaxMeasure(view RecordView, measure string) (float64, int, bool) {
	return extremum(view, measure, func(a, b float64) bool { return a > b })
}

// MinMeasure returns the smallest present value of a measure.
func MinMeasure(view RecordView, measure string) (float64, int, bool) {
	return extremum(view, measure, func(a, b float64) bool { return a < b })
}

func extremum(view RecordView, measure string, better func(a, b float64) bool) (float64, int, bool) {
	var m float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		v, present := view.Measure(i, measure)
		if !present || !isFinite(v) {
			continue
		}
		if n == 0 || better(v, m) {
			m = v
		}
		n++
	}
	return m, n, n > 0
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// key_asc / key_desc compare numeric keys numerically and fall back to
// case-insensitive text for non-numeric keys.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "key_asc", "chronological":
		sortByKey(groups, false)
	case "key_desc", "reverse_chronological":
		sortByKey(groups, true)
	case "label_asc", "alpha_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	default:
		// preserve grouping order
	}
}

func sortByKey(groups []Group, desc bool) {
	type sortable struct {
		g       Group
		num     float64
		numeric bool
	}
	items := make([]sortable, len(groups))
	for i, g := range groups {
		f, err := strconv.ParseFloat(strings.TrimSpace(g.Key), 64)
		items[i] = sortable{g: g, num: f, numeric: err == nil}
	}
	less := func(a, b sortable) bool {
		if a.numeric && b.numeric {
			return a.num < b.num
		}
		if a.numeric != b.numeric {
			return a.numeric // numbers before text
		}
		return strings.ToLower(a.g.Key) < strings.ToLower(b.g.Key)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
	for i := range items {
		groups[i] = items[i].g
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatDollars formats an amount as "$12,345" with no decimals.
func FormatDollars(amount float64) string {
	rounded := int(math.Round(amount))
	return "$" + FormatInt(rounded)
}

// FormatPercent formats a rate as "3.14%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueValues returns distinct non-empty values for a dimension, first-seen order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if strings.TrimSpace(val) != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// LabelForDimension returns a capitalized label for a dimension.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	label := strings.ReplaceAll(dimension, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// LabelForAggregation returns a human-readable label for an aggregation type.
func LabelForAggregation(aggregation string) string {
	switch aggregation {
	case "sum":
		return "Total"
	case "count":
		return "Count"
	case "avg":
		return "Average"
	case "max":
		return "Maximum"
	case "min":
		return "Minimum"
	default:
		return "Value"
	}
}
