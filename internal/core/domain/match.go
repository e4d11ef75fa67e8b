package domain

import "time"

// MatchStatus enumerates the lifecycle states of a match.
type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
	MatchStatusBlocked  MatchStatus = "blocked"
)

// Match links two accounts. The pair is stored normalized (UserA < UserB)
// so that the unique index treats (a,b) and (b,a) as the same match.
type Match struct {
	ID               string
	UserA            string
	UserB            string
	Status           MatchStatus
	MatchedInterests []string
	LastInteraction  time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Users []AccountRef
}

// Involves reports whether the account participates in this match.
func (m Match) Involves(accountID string) bool {
	return m.UserA == accountID || m.UserB == accountID
}

// Counterpart returns the other participant of the match.
func (m Match) Counterpart(accountID string) string {
	if m.UserA == accountID {
		return m.UserB
	}
	return m.UserA
}

// NormalizePair orders a match pair so the lexicographically smaller id comes
// first. Both storage and lookups use the normalized order.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
