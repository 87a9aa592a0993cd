// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pod44apps/community-pulse/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), name, email, Mongo ObjectID,
// and a found flag. ok=true guarantees a valid, authenticated user with a
// well-formed ObjectID; a malformed session id fails closed.
func UserCtx(r *http.Request) (role, name, email string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, user.Email, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}
