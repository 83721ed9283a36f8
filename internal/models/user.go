package models

import "time"

// School groups users for login scoping and broadcast fan-out.
type School struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is any portal account: student, teacher, parent or administrator.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SchoolID     uint      `gorm:"not null;uniqueIndex:idx_users_school_username,priority:1" json:"school_id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex:idx_users_school_username,priority:2" json:"username"`
	Name         string    `gorm:"size:255" json:"name"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;index" json:"role"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	School       School    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"school"`
}

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleAdmin   = "admin"
)

// ValidRole reports whether the given role name is one the portal knows.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleParent, RoleAdmin:
		return true
	default:
		return false
	}
}
