package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrContactImmutable is returned when something tries to change or remove
// a stored contact.
var ErrContactImmutable = errors.New("contacts are immutable once stored")

// Contact represents a contact form submission. The four text fields are
// stored trimmed and HTML-escaped.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null;index" json:"email"`
	Inquiry   string    `gorm:"not null" json:"inquiry"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for Contact
func (Contact) TableName() string {
	return "contacts"
}

// BeforeCreate hook
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = tx.NowFunc()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return nil
}

// BeforeUpdate hook
func (c *Contact) BeforeUpdate(tx *gorm.DB) error {
	return ErrContactImmutable
}

// BeforeDelete hook
func (c *Contact) BeforeDelete(tx *gorm.DB) error {
	return ErrContactImmutable
}
