// internal/domain/authz.go
package domain

// Owned is implemented by every row that belongs to exactly one user.
type Owned interface {
	OwnerID() int64
}

func (c Category) OwnerID() int64 { return c.UserID }
func (e Expense) OwnerID() int64  { return e.UserID }

// AssertOwned is the authorization guard called at every mutation
// boundary. Rows owned by someone else are reported as missing so the
// API never confirms a foreign row exists.
func AssertOwned(entity Owned, userID int64) error {
	if entity.OwnerID() != userID {
		return ErrNotFound
	}
	return nil
}
