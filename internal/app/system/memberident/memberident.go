// Package memberident connects a signed-in account to its member profile.
// Accounts and members are separate records: the account is how someone
// signs in, the member is their public directory entry. Resolve bridges the
// two by email, creating the member profile lazily on first visit.
package memberident

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pod44apps/community-pulse/internal/app/system/auth"
	"github.com/pod44apps/community-pulse/internal/app/system/normalize"
	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Directory is the slice of the member store Resolve needs.
type Directory interface {
	// GetByEmail looks a member up by email, matching case-insensitively.
	// Returns mongo.ErrNoDocuments when no member matches.
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	// UpdateEmail rewrites a member's stored email address.
	UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error
	// Create inserts a member and returns its assigned id.
	Create(ctx context.Context, m *models.Member) (primitive.ObjectID, error)
}

// Resolve finds the member profile for a signed-in user, creating one if
// this is their first visit. A stored email whose casing drifted from the
// canonical form is rewritten in place so later lookups stay exact.
func Resolve(ctx context.Context, dir Directory, u auth.SessionUser) (*models.Member, error) {
	email := normalize.Email(u.Email)
	if email == "" {
		return nil, errors.New("session user has no email")
	}

	m, err := dir.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if m.Email != email {
			if uerr := dir.UpdateEmail(ctx, m.ID, email); uerr != nil {
				return nil, fmt.Errorf("normalize member email: %w", uerr)
			}
			m.Email = email
		}
		return m, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		// fall through to create
	default:
		return nil, fmt.Errorf("look up member: %w", err)
	}

	first, last := SplitName(u.Name)
	m = &models.Member{
		Email:     email,
		FirstName: first,
		LastName:  last,
		Status:    models.MemberApproved,
		CreatedBy: email,
	}
	id, err := dir.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create member profile: %w", err)
	}
	m.ID = id
	return m, nil
}

// SplitName breaks a display name into first and last on the first space.
// A single-word name becomes the first name with an empty last name.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	if i := strings.IndexByte(full, ' '); i >= 0 {
		return full[:i], strings.TrimSpace(full[i+1:])
	}
	return full, ""
}
