package domain

// Principal is the authenticated identity attached to a request after token
// verification. It lives only for the duration of the request and is never
// persisted.
type Principal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
