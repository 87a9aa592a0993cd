// Package transfer implements the bulk export/import of community data as a
// single portable JSON document. Export dumps the five entity collections;
// import re-creates their records in dependency order with server-assigned
// fields stripped. Both directions are admin-only and run strictly
// sequentially.
package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/pod44apps/community-pulse/internal/domain/models"
)

// Record is one entity document in portable form.
type Record = map[string]any

// Collection is the raw-document slice of a store the transfer works
// through. Create assigns fresh identity and audit fields server-side; the
// record passed in must not carry them.
type Collection interface {
	List(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, rec Record, createdBy string) error
}

// Stores binds the five entity collections a transfer touches.
type Stores struct {
	Members     Collection
	Messages    Collection
	Settings    Collection
	ActionCards Collection
	Ventures    Collection
}

// Caller is the resolved identity running the transfer.
type Caller struct {
	Email        string
	FullName     string
	Role         string
	ProfileImage string
}

// IsAdmin reports whether the caller may run transfers.
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// Identity resolves the current caller. Me fails when there is no session.
type Identity interface {
	Me(ctx context.Context) (Caller, error)
}

// Step names the entity being processed, for progress reporting only.
type Step string

// Steps, in import apply order.
const (
	StepSettings    Step = "settings"
	StepMembers     Step = "members"
	StepActionCards Step = "action_cards"
	StepVentures    Step = "ventures"
	StepMessages    Step = "messages"
)

// ProgressFunc observes a transfer advancing to the next entity. It exists
// for logging and progress UI; transfers run the same without one.
type ProgressFunc func(step Step)

// Transfer runs exports and imports against a set of stores.
type Transfer struct {
	Stores   Stores
	Identity Identity
	Progress ProgressFunc
}

func (t *Transfer) step(s Step) {
	if t.Progress != nil {
		t.Progress(s)
	}
}

// Export reads every collection and assembles a snapshot. The caller must
// be an admin; a non-admin caller fails before any collection is read.
// A failed read aborts the whole export — no partial snapshot is returned.
func (t *Transfer) Export(ctx context.Context) (*Snapshot, error) {
	caller, err := t.Identity.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve caller: %w", err)
	}
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	var s Snapshot

	fetches := []struct {
		step Step
		col  Collection
		dst  *[]Record
	}{
		{StepMembers, t.Stores.Members, &s.Members},
		{StepMessages, t.Stores.Messages, &s.Messages},
		{StepSettings, t.Stores.Settings, &s.Settings},
		{StepActionCards, t.Stores.ActionCards, &s.ActionCards},
		{StepVentures, t.Stores.Ventures, &s.Ventures},
	}
	for _, f := range fetches {
		t.step(f.step)
		recs, err := f.col.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", f.step, err)
		}
		*f.dst = recs
	}

	s.Info = ExportInfo{
		Date:       time.Now().UTC().Format(time.RFC3339),
		ExportedBy: caller.Email,
		EntityCounts: EntityCounts{
			Members:     len(s.Members),
			Messages:    len(s.Messages),
			Settings:    len(s.Settings),
			ActionCards: len(s.ActionCards),
			Ventures:    len(s.Ventures),
		},
	}
	return &s, nil
}

// Import restores an export document into the stores. The caller must be
// an admin; a non-admin caller fails before the document is even parsed.
//
// Entities apply in fixed order — settings, members, action cards,
// ventures, messages — because later entities reference earlier ones.
// Reference fields (owner_id, sender_id, recipient_id) are written verbatim
// even though re-created records receive new ids; the restore preserves
// shape, not identity.
//
// The operation is not transactional: a failed create halts everything
// that remains, but records already created stay created.
func (t *Transfer) Import(ctx context.Context, data []byte) error {
	caller, err := t.Identity.Me(ctx)
	if err != nil {
		return fmt.Errorf("resolve caller: %w", err)
	}
	if !caller.IsAdmin() {
		return ErrPermissionDenied
	}

	s, err := DecodeSnapshot(data)
	if err != nil {
		return err
	}

	batches := []struct {
		step Step
		col  Collection
		recs []Record
	}{
		{StepSettings, t.Stores.Settings, s.Settings},
		{StepMembers, t.Stores.Members, s.Members},
		{StepActionCards, t.Stores.ActionCards, s.ActionCards},
		{StepVentures, t.Stores.Ventures, s.Ventures},
		{StepMessages, t.Stores.Messages, s.Messages},
	}
	for _, b := range batches {
		t.step(b.step)
		for _, rec := range b.recs {
			if err := b.col.Create(ctx, Sanitize(rec), caller.Email); err != nil {
				return fmt.Errorf("import %s: %w", b.step, err)
			}
		}
	}
	return nil
}

// serverFields are assigned by the store on create and must never arrive in
// a create payload.
var serverFields = [...]string{"id", "created_date", "updated_date", "created_by"}

// Sanitize copies a record without its server-assigned fields. Every other
// field passes through untouched, including reference ids from the source
// database.
func Sanitize(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, f := range serverFields {
		delete(out, f)
	}
	return out
}
