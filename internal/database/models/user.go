package models

import "strings"

type User struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsGuest      bool   `gorm:"default:false;index" json:"is_guest"`
}

func (User) TableName() string {
	return "users"
}

// GuestAccount reports whether this user is a guest. Guests carry the
// is_guest flag from session creation; the email-domain check also covers
// rows created before the flag existed.
func (u *User) GuestAccount(guestDomain string) bool {
	return u.IsGuest || strings.HasSuffix(u.Email, "@"+guestDomain)
}
