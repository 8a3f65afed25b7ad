package models

// Roles recognized by the auth layer.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an operator account. Accounts are created by the seed step, not by
// a public registration endpoint.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:user" json:"role"`
}

// TableName keeps the historical singular table name.
func (User) TableName() string { return "user" }
