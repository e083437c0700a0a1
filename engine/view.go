package engine

import "strconv"

// ============================================================================
// RECORD VIEW: Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns loaded data. It reads through this interface.
//
// Implementations:
//   SliceView:     wraps []Record (ad-hoc rows, tests)
//   DomainView[T]: reads typed structs via accessor functions (zero-copy)
//   SubView:       filtered subset (indices into parent, zero-copy)
//
// Measure reports presence explicitly: a blank or non-numeric cell is
// missing, never zero.
// ============================================================================

// RecordView provides indexed access to a dataset.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) (float64, bool)
	DimensionKeys() []string
	MeasureKeys() []string
}

// ============================================================================
// SLICE VIEW: wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from a []Record slice.
func NewSliceView(records []Record) RecordView {
	v := &SliceView{records: records}
	v.cacheKeys()
	return v
}

func (v *SliceView) cacheKeys() {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			if !dimSeen[k] {
				dimSeen[k] = true
				v.dimKeys = append(v.dimKeys, k)
			}
		}
		for k := range r.Measures {
			if !mesSeen[k] {
				mesSeen[k] = true
				v.mesKeys = append(v.mesKeys, k)
			}
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.records) {
		return 0, false
	}
	f, ok := v.records[i].Measures[key]
	return f, ok
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// ============================================================================
// SUB VIEW: filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent: no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}

// ParentIndex maps a SubView position back to the parent's index.
func (v *SubView) ParentIndex(i int) int { return v.indices[i] }

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER: Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	view := engine.ObservationAdapter().Bind(observations)
//	filtered := engine.Filter(view, engine.YearBetween(2000, 2022))
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) (float64, bool)),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) (float64, bool)) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy: holds reference.
func (a *DomainAdapter[T]) Bind(data []T) *DomainView[T] {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.data) {
		return 0, false
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return 0, false
}

// Row returns the typed element at index i.
func (v *DomainView[T]) Row(i int) T { return v.data[i] }

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

// Collect materialises the rows behind a view that was derived (via Filter or
// grouping) from a DomainView[T]. Rows come back in view order.
func Collect[T any](view RecordView, root *DomainView[T]) []T {
	out := make([]T, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		out = append(out, root.Row(resolveIndex(view, i)))
	}
	return out
}

func resolveIndex(view RecordView, i int) int {
	for {
		sv, ok := view.(*SubView)
		if !ok {
			return i
		}
		i = sv.ParentIndex(i)
		view = sv.parent
	}
}

// ============================================================================
// BUILT-IN ADAPTERS
// ============================================================================

// ObservationAdapter exposes Observation fields under the shared keys.
func ObservationAdapter() *DomainAdapter[Observation] {
	return NewDomainAdapter[Observation]().
		Dimension(DimensionCountry, func(o Observation) string { return o.Country }).
		Dimension(DimensionYear, func(o Observation) string { return strconv.Itoa(o.Year) }).
		Dimension(DimensionRegion, func(o Observation) string { return o.Region }).
		Dimension(DimensionIncomeLevel, func(o Observation) string { return o.IncomeLevel }).
		Measure(MeasureInflation, func(o Observation) (float64, bool) { return o.Inflation.Get() }).
		Measure(MeasureUnemployment, func(o Observation) (float64, bool) { return o.Unemployment.Get() }).
		Measure(MeasureInterestRate, func(o Observation) (float64, bool) { return o.InterestRate.Get() })
}

// JoinedAdapter exposes JoinedObservation fields, including gdp.
func JoinedAdapter() *DomainAdapter[JoinedObservation] {
	return NewDomainAdapter[JoinedObservation]().
		Dimension(DimensionCountry, func(o JoinedObservation) string { return o.Country }).
		Dimension(DimensionYear, func(o JoinedObservation) string { return strconv.Itoa(o.Year) }).
		Dimension(DimensionRegion, func(o JoinedObservation) string { return o.Region }).
		Dimension(DimensionIncomeLevel, func(o JoinedObservation) string { return o.IncomeLevel }).
		Measure(MeasureInflation, func(o JoinedObservation) (float64, bool) { return o.Inflation.Get() }).
		Measure(MeasureUnemployment, func(o JoinedObservation) (float64, bool) { return o.Unemployment.Get() }).
		Measure(MeasureInterestRate, func(o JoinedObservation) (float64, bool) { return o.InterestRate.Get() }).
		Measure(MeasureGdp, func(o JoinedObservation) (float64, bool) { return o.Gdp.Get() })
}
