package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null"     json:"email"`
	Username     string     `gorm:"uniqueIndex;not null"     json:"username"`
	FirstName    string     `gorm:"not null"                 json:"first_name"`
	LastName     string     `gorm:"not null"                 json:"last_name"`
	PasswordHash string     `gorm:"not null"                 json:"-"`
	IsActive     bool       `gorm:"default:true"             json:"is_active"`
	IsStaff      bool       `gorm:"default:false"            json:"is_staff"`
	IsSuperuser  bool       `gorm:"default:false"            json:"is_superuser"`
	IsVerified   bool       `gorm:"default:false"            json:"is_verified"`
	DateJoined   time.Time  `gorm:"not null"                 json:"date_joined"`
	LastLogin    *time.Time `json:"last_login"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName string    `gorm:"not null"                 json:"product_name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	CategoryID  uint      `gorm:"index;not null"           json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	UserID   uint      `gorm:"index;not null"             json:"user"`
	Products []Product `gorm:"many2many:order_products"   json:"-"`
	Quantity uint      `gorm:"default:1;check:quantity>0" json:"quantity"`
	Date     time.Time `gorm:"not null"                   json:"date"`
}

// RefreshToken rows double as the revocation blacklist: logout flips Revoked
// and the refresh endpoint rejects revoked or expired entries.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	TokenHash string `gorm:"not null"            json:"-"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}
