package domain

// OwnerGroup is one owner's slice of the stale-ticket view. Tickets keep
// upstream retrieval order (ascending lastUpdated). The tier counts drive
// the dashboard's color thresholds; tickets with unknown staleness count
// toward neither tier.
type OwnerGroup struct {
	Name     string             `json:"name"`
	Tickets  []NormalizedTicket `json:"tickets"`
	Critical int                `json:"critical"`
	Warning  int                `json:"warning"`
}

// StaleView is the full stale-ticket response: the flat ticket list in
// retrieval order, owner groups ranked by their stalest known ticket, and
// a global top-N oldest ranking.
type StaleView struct {
	Tickets   []NormalizedTicket `json:"tickets"`
	Owners    []OwnerGroup       `json:"owners"`
	TopOldest []NormalizedTicket `json:"topOldest"`
	Count     int                `json:"count"`
	AsOf      string             `json:"asOf"`
}
