package models

// API key lifecycle states. The only transition is active -> revoked;
// deletion removes the record outright from either state.
const (
	KeyStatusActive  = "active"
	KeyStatusRevoked = "revoked"
)

// APIKey is a console-managed bearer credential. The secret keeps its
// value after revocation: revoking controls usability, it does not
// scrub storage. LastUsedOn is reserved for a future usage-attribution
// pass and is never written by any lifecycle operation.
type APIKey struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Secret     string `json:"key"`
	CreatedOn  string `json:"created"`
	LastUsedOn string `json:"last_used,omitempty"`
	Status     string `json:"status"`
}

// Active reports whether the key is usable.
func (k APIKey) Active() bool {
	return k.Status == KeyStatusActive
}
