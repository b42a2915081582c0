package domain

import "time"

// Model is the scope every outline tree belongs to.
type Model struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// User is the identity stamped on created and updated nodes.
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// DisplayID returns a short identifier for display, truncating ID to 8 characters.
func (m *Model) DisplayID() string {
	if len(m.ID) >= 8 {
		return m.ID[:8]
	}
	return m.ID
}
