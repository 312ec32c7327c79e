package models

// Group represents a reusable roster of members that share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip").
	Name string

	// Members is the roster in insertion order. Tie-breaks that depend on
	// iteration order use this order.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether member is on the roster.
func (g *Group) HasMember(member string) bool {
	for _, m := range g.Members {
		if m == member {
			return true
		}
	}
	return false
}

// Friendship is a symmetric relationship between two members.
// MemberA is always the lexically lower identifier.
type Friendship struct {
	MemberA   string
	MemberB   string
	CreatedAt int64
}

// NewFriendship returns the canonical form of the pair (a, b).
func NewFriendship(a, b string) *Friendship {
	if b < a {
		a, b = b, a
	}
	return &Friendship{MemberA: a, MemberB: b}
}

// Other returns the member on the opposite side of the friendship.
func (f *Friendship) Other(member string) string {
	if f.MemberA == member {
		return f.MemberB
	}
	return f.MemberA
}
