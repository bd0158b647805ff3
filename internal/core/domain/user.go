package domain

import "time"

// Role governs which operations an account may perform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// AllRoles lists every defined role in a stable order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleUser}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleUser:
		return true
	}
	return false
}

// User models an account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserStats aggregates the user population.
// Active+Inactive and the sum of ByRole both equal Total.
type UserStats struct {
	Total    int64          `json:"total"`
	Active   int64          `json:"active"`
	Inactive int64          `json:"inactive"`
	ByRole   map[Role]int64 `json:"byRole"`
}

// RoleStatusCount is one bucket of the users grouped by (role, isActive).
type RoleStatusCount struct {
	Role     Role
	IsActive bool
	Count    int64
}

// NewUserStats folds grouped counts into UserStats. Every defined role is
// present in ByRole, with zero when no user holds it.
func NewUserStats(buckets []RoleStatusCount) UserStats {
	stats := UserStats{ByRole: make(map[Role]int64, len(AllRoles()))}
	for _, r := range AllRoles() {
		stats.ByRole[r] = 0
	}
	for _, b := range buckets {
		stats.Total += b.Count
		if b.IsActive {
			stats.Active += b.Count
		} else {
			stats.Inactive += b.Count
		}
		stats.ByRole[b.Role] += b.Count
	}
	return stats
}
