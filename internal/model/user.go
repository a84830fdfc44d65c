package model

import "time"

// User represents an application account as stored in the `users` table.
// Both UserName and Email carry unique indexes.  The two expiry fields are
// the session bookkeeping for the signed token: AccessExp tracks the
// short-lived access window and RefreshExp the longer refresh window.
// Login and refresh advance both; logout clears both to NULL, which
// invalidates future refresh attempts even while the token itself is
// still cryptographically valid.
//
// Fields:
//  ID           – primary key identifier of the user.
//  UserName     – unique display/login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password (never serialized).
//  Role         – account role (user or admin).
//  AccessExp    – access-token expiry bookkeeping (nullable).
//  RefreshExp   – refresh-token expiry bookkeeping (nullable).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64     `json:"id"`
    UserName     string     `json:"userName"`
    Email        string     `json:"email"`
    PasswordHash string     `json:"-"`
    Role         Role       `json:"role"`
    AccessExp    *time.Time `json:"expTokenTime"`
    RefreshExp   *time.Time `json:"expRefreshTokenTime"`
    CreatedAt    time.Time  `json:"createdAt"`
    UpdatedAt    time.Time  `json:"updatedAt"`
}
