package models

import "time"

const (
	// RoleStudent identifies learner accounts.
	RoleStudent = "student"
	// RoleTutor identifies tutor accounts.
	RoleTutor = "tutor"
	// RoleAdmin identifies platform administrator accounts.
	RoleAdmin = "admin"
)

// Address stores the postal address attached to a user account.
type Address struct {
	ID         uint   `gorm:"primaryKey" json:"address_id"`
	Street     string `gorm:"size:255" json:"street"`
	City       string `gorm:"size:128" json:"city"`
	Province   string `gorm:"size:128" json:"province"`
	PostalCode string `gorm:"size:16" json:"postal_code"`
}

// Guardian is the contact person registered alongside a student.
type Guardian struct {
	ID       uint   `gorm:"primaryKey" json:"guardian_id"`
	FullName string `gorm:"size:255;not null" json:"full_name"`
	Email    string `gorm:"size:255" json:"email"`
	Phone    string `gorm:"size:32" json:"phone"`
}

// User is the shared account record for students, tutors and admins.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"user_id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Gender       string    `gorm:"size:16" json:"gender"`
	DateOfBirth  *time.Time `json:"dob"`
	Phone        string    `gorm:"size:32" json:"phone"`
	AddressID    *uint     `json:"address_id"`
	Address      *Address  `json:"address,omitempty"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null" json:"role"`
	ProfilePhoto string    `gorm:"size:512" json:"profile_photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
