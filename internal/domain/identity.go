package domain

// Identity names the caller a cart or order operation is scoped to. The zero
// value is the shared anonymous identity; every unauthenticated caller maps
// to it.
type Identity struct {
	userID string
}

// Anonymous is the identity of all unauthenticated callers.
var Anonymous = Identity{}

// UserIdentity scopes operations to one authenticated user.
func UserIdentity(userID string) Identity {
	return Identity{userID: userID}
}

func (i Identity) IsAnonymous() bool {
	return i.userID == ""
}

// UserID returns the user id and whether the identity is authenticated.
func (i Identity) UserID() (string, bool) {
	return i.userID, i.userID != ""
}
