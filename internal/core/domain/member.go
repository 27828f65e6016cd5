package domain

import "time"

// Member is a club member record. The full CRUD surface for members lives
// outside this core; the listing endpoints here exist as consumers of the
// access guard and role gate.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email,omitempty"`
	Group     string    `json:"group,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
