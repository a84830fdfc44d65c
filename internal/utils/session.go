package utils

import "time"

// SessionValid is the pure expiry comparison used by the session
// bookkeeping: a stored expiry is valid when it is present and strictly
// after now.  A NULL expiry (cleared by logout, or never set) is always
// invalid.
func SessionValid(now time.Time, storedExp *time.Time) bool {
    return storedExp != nil && now.Before(*storedExp)
}
