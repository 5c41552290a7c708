package dto

// Order sorts a collection by a single column. A nil Ascending sorts
// ascending.
type Order struct {
	Column    string `json:"column"`
	Ascending *bool  `json:"ascending,omitempty"`
}

// Descending reports whether the column is sorted high to low.
func (o Order) Descending() bool {
	return o.Ascending != nil && !*o.Ascending
}

// Query describes a live collection: equality filters on one table, AND
// combined. Nil filter values are ignored.
type Query struct {
	Table   string
	Filters map[string]any
	Order   *Order
	Limit   int
}

// ActiveFilters returns the filters with nil values dropped.
func (q Query) ActiveFilters() map[string]any {
	active := make(map[string]any, len(q.Filters))
	for column, value := range q.Filters {
		if value == nil {
			continue
		}
		active[column] = value
	}
	return active
}
