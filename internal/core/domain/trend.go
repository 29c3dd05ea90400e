package domain

// TechnicianSeries is one technician's daily closure counts, aligned
// index-for-index with the ClosedTrend date list. Days without a closure
// are zero, never omitted.
type TechnicianSeries struct {
	Name  string `json:"name"`
	Daily []int  `json:"daily"`
	Total int    `json:"total"`
}

// ClosedTrend is the closure-trend response: N consecutive UTC dates
// (oldest first) and one series per technician who closed at least one
// ticket in the window, sorted by total descending.
type ClosedTrend struct {
	Dates []string           `json:"dates"`
	Users []TechnicianSeries `json:"users"`
	AsOf  string             `json:"asOf"`
}
