package entity

import "time"

// User is a login user that commission can be attributed to.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Name      string    `gorm:"size:150" json:"name"`
	Email     string    `gorm:"size:150;index" json:"email,omitempty"`
	Mobile    string    `gorm:"size:30;index" json:"mobile,omitempty"`
	Role      string    `gorm:"size:30;not null;default:sales" json:"role"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// DisplayName prefers the full name over the username.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
