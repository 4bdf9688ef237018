package models

import "time"

// User represents an application user. RoleID links to the role managed by the
// identity concern; role id 1 is the admin role unless reconfigured.
// PasswordHash is never serialized to clients.
type User struct {
	ID           int64     `bson:"id" json:"id"`
	RoleID       int64     `bson:"roleId" json:"roleId"`
	Email        string    `bson:"email" json:"email"`
	UserName     string    `bson:"userName" json:"userName"`
	FullName     string    `bson:"fullName" json:"fullName"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
