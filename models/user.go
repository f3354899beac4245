package models

import "time"

// Role is one of the two fixed operator roles.
type Role string

const (
	RoleTeamLeader  Role = "team_leader"
	RoleDataAnalyst Role = "data_analyst"
)

// Valid reports whether the role is one of the known operator roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTeamLeader, RoleDataAnalyst:
		return true
	default:
		return false
	}
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique" json:"username"`
	Password  string    `json:"-"` // bcrypt hash
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
