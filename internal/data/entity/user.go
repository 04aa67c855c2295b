package entity

import "time"

type User struct {
	Base
	Name          string     `db:"name"`
	Gender        string     `db:"gender"`
	Email         string     `db:"email"`
	Username      string     `db:"username"`
	PhoneNumber   string     `db:"phone_number"`
	DateOfBirth   time.Time  `db:"date_of_birth"`
	Address       string     `db:"address"`
	LicenseNumber string     `db:"license_number"`
	PasswordHash  string     `db:"password_hash"`
	IsVerified    bool       `db:"is_verified"`
	IsStaff       bool       `db:"is_staff"`
	IsSuperuser   bool       `db:"is_superuser"`
	LastLogin     *time.Time `db:"last_login"`
}

func (u *User) String() string {
	return u.Username
}
