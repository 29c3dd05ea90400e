package domain

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// UnassignedOwner is the display name substituted when a ticket has no
// owner, or when the owner reference carries no name.
const UnassignedOwner = "Unassigned"

// NameRef is a reference field the way the upstream emits it: usually an
// object with a "name" attribute, sometimes a bare string, sometimes null
// or missing entirely. A shape we cannot read decodes to the empty
// reference rather than failing the record.
type NameRef struct {
	name    string
	present bool
}

// Ref builds a populated NameRef. Mostly useful in tests.
func Ref(name string) NameRef {
	return NameRef{name: name, present: name != ""}
}

// Name returns the referenced name, or def when the reference is absent,
// empty, or had an unusable shape.
func (r NameRef) Name(def string) string {
	if !r.present {
		return def
	}
	return r.name
}

// IsZero reports whether the reference carries no name.
func (r NameRef) IsZero() bool {
	return !r.present
}

func (r *NameRef) UnmarshalJSON(data []byte) error {
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.Name != "" {
		*r = NameRef{name: obj.Name, present: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil && s != "" {
		*r = NameRef{name: s, present: true}
		return nil
	}

	// null, empty, numeric, or otherwise malformed: absent reference
	*r = NameRef{}
	return nil
}

func (r NameRef) MarshalJSON() ([]byte, error) {
	if !r.present {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Name string `json:"name"`
	}{Name: r.name})
}

// Ticket is one raw service ticket as returned by the upstream API.
type Ticket struct {
	ID          int     `json:"id"`
	Summary     string  `json:"summary"`
	Status      NameRef `json:"status"`
	Owner       NameRef `json:"owner"`
	Board       NameRef `json:"board"`
	Priority    NameRef `json:"priority"`
	Company     NameRef `json:"company"`
	LastUpdated string  `json:"lastUpdated"`
	ParentID    *int    `json:"parentTicketId"`
	ClosedFlag  bool    `json:"closedFlag"`
	ClosedBy    NameRef `json:"closedBy"`
}

// HasParent reports whether the ticket is a sub-ticket of another one.
func (t *Ticket) HasParent() bool {
	return t.ParentID != nil
}

// NormalizedTicket is the flat, display-ready projection of a Ticket.
// Once built it is never mutated.
type NormalizedTicket struct {
	ID          int      `json:"id"`
	Summary     string   `json:"summary"`
	Status      string   `json:"status"`
	Owner       string   `json:"owner"`
	Board       string   `json:"board"`
	Priority    string   `json:"priority"`
	Company     string   `json:"company"`
	LastUpdated string   `json:"lastUpdated"`
	HoursStale  *float64 `json:"hoursStale"`
}

// Normalize projects the raw ticket into its scalar form, substituting
// defaults for every reference the upstream left out or mangled. The
// staleness value is computed relative to now.
func (t *Ticket) Normalize(now time.Time) NormalizedTicket {
	return NormalizedTicket{
		ID:          t.ID,
		Summary:     t.Summary,
		Status:      t.Status.Name(""),
		Owner:       t.Owner.Name(UnassignedOwner),
		Board:       t.Board.Name(""),
		Priority:    t.Priority.Name(""),
		Company:     t.Company.Name(""),
		LastUpdated: t.LastUpdated,
		HoursStale:  HoursStale(t.LastUpdated, now),
	}
}

// IsClosed reports whether the ticket's status name marks it terminal,
// regardless of what the upstream closed flag claims.
func (t NormalizedTicket) IsClosed(closed NameSet) bool {
	return closed.Contains(t.Status)
}

// NameSet is a case- and whitespace-insensitive set of names, used for the
// configured closed-status and excluded-priority sets.
type NameSet map[string]struct{}

// NewNameSet builds a NameSet from raw names, normalizing each entry.
// Empty entries are dropped.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		key := normalizeName(n)
		if key != "" {
			s[key] = struct{}{}
		}
	}
	return s
}

// Contains tests membership after trimming and lowercasing the candidate.
func (s NameSet) Contains(name string) bool {
	_, ok := s[normalizeName(name)]
	return ok
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultClosedStatuses lists the status names treated as terminal when the
// deployment does not configure its own set.
func DefaultClosedStatuses() []string {
	return []string{
		"Closed",
		"Resolved",
		"Cancelled",
		"Completed",
		"Complete",
		"Closed - Resolved",
		"Closed - No Response",
	}
}
