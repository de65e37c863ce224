package task

import "time"

// Stub is a read-only projection of a Task used for listings. It carries no
// input, result or message.
type Stub struct {
	ID        string
	Type      Type
	Status    Status
	Owner     string
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StubOf projects the public fields of e as they are right now.
func StubOf(e Entity) Stub {
	return Stub{
		ID:        e.ID(),
		Type:      e.Type(),
		Status:    e.Status(),
		Owner:     e.Owner(),
		ExpiresAt: e.ExpiresAt(),
		CreatedAt: e.CreatedAt(),
		UpdatedAt: e.UpdatedAt(),
	}
}

// Filter holds optional criteria for listing task stubs.
// Zero-value fields mean "no filter" for that dimension.
type Filter struct {
	Owner  string
	Status Status
	Type   Type

	// ExpiresBefore selects tasks whose expiry is set and earlier than the
	// given instant.
	ExpiresBefore *time.Time

	// Limit caps the number of stubs returned; 0 means no cap.
	Limit int
}

// Matches reports whether s satisfies every set criterion of f. Limit is not
// considered.
func (f Filter) Matches(s Stub) bool {
	if f.Owner != "" && s.Owner != f.Owner {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.ExpiresBefore != nil && (s.ExpiresAt == nil || !s.ExpiresAt.Before(*f.ExpiresBefore)) {
		return false
	}
	return true
}
