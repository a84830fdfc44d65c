package model

// Role is the closed set of account roles understood by the application.
// Tokens carry the role as a claim and handlers declare which roles may
// invoke them, so role checks are explicit set-membership tests rather
// than ad hoc string comparisons.
type Role string

const (
    RoleUser  Role = "user"  // regular reader account
    RoleAdmin Role = "admin" // catalogue administrator
)

// ParseRole maps a raw string onto a known Role.  The boolean reports
// whether the input named a valid role.
func ParseRole(s string) (Role, bool) {
    switch Role(s) {
    case RoleUser:
        return RoleUser, true
    case RoleAdmin:
        return RoleAdmin, true
    }
    return "", false
}

// In reports whether r is a member of the given allowed set.
func (r Role) In(allowed ...Role) bool {
    for _, a := range allowed {
        if r == a {
            return true
        }
    }
    return false
}
