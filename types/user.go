package types

// Authorization roles.
//
// Role controls which dashboard an account may access. Every account
// starts as RoleUser; admins promote accounts to librarian or admin.
const (
	RoleUser      = "user"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the known authorization tiers.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// UserRecord is the backend's view of an account. It is distinct from
// the identity-provider record: the provider owns credentials and
// profile, the backend owns the role.
type UserRecord struct {
	// ID is the backend's opaque document identifier.
	ID string `json:"_id"`

	// Name is the display name mirrored from the identity provider.
	Name string `json:"name"`

	// Email is the account email, the key used for role lookups.
	Email string `json:"email"`

	// PhotoURL points at the avatar on the image host.
	PhotoURL string `json:"photoURL"`

	// Role is the authorization tier: user, librarian or admin.
	Role string `json:"role"`
}

// RoleResponse is the body of GET /users/{email}/role.
type RoleResponse struct {
	Role string `json:"role"`
}

// WishlistItem is a locally persisted bookmark for a catalog entry.
type WishlistItem struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
}
