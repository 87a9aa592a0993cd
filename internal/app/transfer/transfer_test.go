package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// callLog records store operations across collections so tests can assert
// ordering and absence of calls.
type callLog struct {
	ops []string
}

type fakeCollection struct {
	name    string
	log     *callLog
	records []Record

	listErr   error
	failAfter int // fail the Nth create (1-based); 0 means never
	creates   int
	payloads  []Record
}

func (f *fakeCollection) List(ctx context.Context) ([]Record, error) {
	f.log.ops = append(f.log.ops, f.name+":list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeCollection) Create(ctx context.Context, rec Record, createdBy string) error {
	f.log.ops = append(f.log.ops, f.name+":create")
	f.creates++
	if f.failAfter > 0 && f.creates >= f.failAfter {
		return errors.New("create rejected")
	}
	f.payloads = append(f.payloads, rec)
	f.records = append(f.records, rec)
	return nil
}

type fakeIdentity struct {
	caller Caller
	err    error
}

func (f fakeIdentity) Me(ctx context.Context) (Caller, error) { return f.caller, f.err }

func admin() fakeIdentity {
	return fakeIdentity{caller: Caller{Email: "admin@example.com", Role: "admin"}}
}

func newFixture(id Identity) (*Transfer, map[string]*fakeCollection, *callLog) {
	log := &callLog{}
	cols := map[string]*fakeCollection{
		"members":      {name: "members", log: log},
		"messages":     {name: "messages", log: log},
		"settings":     {name: "settings", log: log},
		"action_cards": {name: "action_cards", log: log},
		"ventures":     {name: "ventures", log: log},
	}
	tr := &Transfer{
		Stores: Stores{
			Members:     cols["members"],
			Messages:    cols["messages"],
			Settings:    cols["settings"],
			ActionCards: cols["action_cards"],
			Ventures:    cols["ventures"],
		},
		Identity: id,
	}
	return tr, cols, log
}

func seed(n int, prefix string) []Record {
	recs := make([]Record, n)
	for i := range recs {
		recs[i] = Record{
			"id":           prefix + string(rune('a'+i)),
			"title":        prefix,
			"created_date": "2024-01-01T00:00:00Z",
			"updated_date": "2024-01-01T00:00:00Z",
			"created_by":   "someone@example.com",
		}
	}
	return recs
}

func TestExportImportRoundTrip(t *testing.T) {
	src, cols, _ := newFixture(admin())
	cols["members"].records = seed(3, "member-")
	cols["messages"].records = seed(2, "message-")
	cols["settings"].records = seed(1, "settings-")
	cols["action_cards"].records = seed(4, "card-")
	cols["ventures"].records = seed(2, "venture-")

	snap, err := src.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc, err := EncodeSnapshot(snap)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}

	dst, dstCols, _ := newFixture(admin())
	if err := dst.Import(context.Background(), doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	want := map[string]int{"members": 3, "messages": 2, "settings": 1, "action_cards": 4, "ventures": 2}
	for name, n := range want {
		if got := len(dstCols[name].records); got != n {
			t.Errorf("%s: got %d records after import, want %d", name, got, n)
		}
	}
}

func TestImportStripsServerFields(t *testing.T) {
	src, cols, _ := newFixture(admin())
	cols["members"].records = seed(2, "member-")

	snap, err := src.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc, _ := EncodeSnapshot(snap)

	dst, dstCols, _ := newFixture(admin())
	if err := dst.Import(context.Background(), doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	for _, payload := range dstCols["members"].payloads {
		for _, f := range []string{"id", "created_date", "updated_date", "created_by"} {
			if _, present := payload[f]; present {
				t.Errorf("create payload carries server field %q: %v", f, payload)
			}
		}
		if payload["title"] != "member-" {
			t.Errorf("domain field lost from payload: %v", payload)
		}
	}
}

func TestImportApplyOrder(t *testing.T) {
	src, cols, _ := newFixture(admin())
	for name := range cols {
		cols[name].records = seed(2, name+"-")
	}
	snap, _ := src.Export(context.Background())
	doc, _ := EncodeSnapshot(snap)

	dst, _, log := newFixture(admin())
	if err := dst.Import(context.Background(), doc); err != nil {
		t.Fatalf("Import: %v", err)
	}

	// All settings and member creates must come before any card, venture,
	// or message create.
	lastEarly, firstLate := -1, -1
	for i, op := range log.ops {
		switch {
		case op == "settings:create" || op == "members:create":
			lastEarly = i
		case strings.HasSuffix(op, ":create") && firstLate == -1:
			firstLate = i
		}
	}
	if firstLate != -1 && firstLate < lastEarly {
		t.Errorf("apply order violated: %v", log.ops)
	}
}

func TestExportPermissionGate(t *testing.T) {
	tr, _, log := newFixture(fakeIdentity{caller: Caller{Email: "u@example.com", Role: "user"}})

	_, err := tr.Export(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Export err = %v, want ErrPermissionDenied", err)
	}
	if len(log.ops) != 0 {
		t.Errorf("non-admin export touched stores: %v", log.ops)
	}
}

func TestImportPermissionGate(t *testing.T) {
	tr, _, log := newFixture(fakeIdentity{caller: Caller{Role: "user"}})

	err := tr.Import(context.Background(), []byte(`{}`))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Import err = %v, want ErrPermissionDenied", err)
	}
	if len(log.ops) != 0 {
		t.Errorf("non-admin import touched stores: %v", log.ops)
	}
}

func TestImportMissingKeyNamesIt(t *testing.T) {
	src, cols, _ := newFixture(admin())
	cols["members"].records = seed(1, "member-")
	snap, _ := src.Export(context.Background())
	doc, _ := EncodeSnapshot(snap)

	// Remove ventures.json from the document.
	var outer map[string]string
	if err := json.Unmarshal(doc, &outer); err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	delete(outer, KeyVentures)
	truncated, _ := json.Marshal(outer)

	dst, _, log := newFixture(admin())
	err := dst.Import(context.Background(), truncated)

	var ife *InvalidFormatError
	if !errors.As(err, &ife) {
		t.Fatalf("err = %v, want *InvalidFormatError", err)
	}
	if len(ife.Missing) != 1 || ife.Missing[0] != KeyVentures {
		t.Errorf("Missing = %v, want [%s]", ife.Missing, KeyVentures)
	}
	if !strings.Contains(err.Error(), KeyVentures) {
		t.Errorf("error message does not name the missing key: %v", err)
	}
	for _, op := range log.ops {
		if strings.HasSuffix(op, ":create") {
			t.Errorf("invalid document still caused creates: %v", log.ops)
		}
	}
}

func TestImportPartialFailureKeepsCreated(t *testing.T) {
	src, cols, _ := newFixture(admin())
	cols["members"].records = seed(3, "member-")
	cols["action_cards"].records = seed(2, "card-")
	cols["ventures"].records = seed(1, "venture-")
	cols["messages"].records = seed(1, "message-")
	snap, _ := src.Export(context.Background())
	doc, _ := EncodeSnapshot(snap)

	dst, dstCols, _ := newFixture(admin())
	dstCols["members"].failAfter = 3 // third member create rejects

	err := dst.Import(context.Background(), doc)
	if err == nil {
		t.Fatal("expected import failure")
	}
	if !strings.Contains(err.Error(), "members") {
		t.Errorf("failure does not name the entity: %v", err)
	}

	// The first two members stay created; nothing downstream runs.
	if got := len(dstCols["members"].records); got != 2 {
		t.Errorf("members after failure = %d, want 2", got)
	}
	for _, name := range []string{"action_cards", "ventures", "messages"} {
		if dstCols[name].creates != 0 {
			t.Errorf("%s creates after upstream failure = %d, want 0", name, dstCols[name].creates)
		}
	}
}

func TestImportHaltsOnListedFailureEvenMidBatch(t *testing.T) {
	src, cols, _ := newFixture(admin())
	cols["settings"].records = seed(1, "settings-")
	cols["members"].records = seed(2, "member-")
	snap, _ := src.Export(context.Background())
	doc, _ := EncodeSnapshot(snap)

	dst, dstCols, log := newFixture(admin())
	dstCols["settings"].failAfter = 1

	if err := dst.Import(context.Background(), doc); err == nil {
		t.Fatal("expected import failure")
	}
	for _, op := range log.ops {
		if op == "members:create" {
			t.Errorf("member create ran after settings failure: %v", log.ops)
		}
	}
}

func TestExportInfoCounts(t *testing.T) {
	tr, cols, _ := newFixture(admin())
	cols["members"].records = seed(5, "member-")
	cols["ventures"].records = seed(3, "venture-")

	snap, err := tr.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if snap.Info.EntityCounts.Members != 5 {
		t.Errorf("members count = %d, want 5", snap.Info.EntityCounts.Members)
	}
	if snap.Info.EntityCounts.Ventures != 3 {
		t.Errorf("ventures count = %d, want 3", snap.Info.EntityCounts.Ventures)
	}
	if snap.Info.EntityCounts.Messages != 0 {
		t.Errorf("messages count = %d, want 0", snap.Info.EntityCounts.Messages)
	}
	if snap.Info.ExportedBy != "admin@example.com" {
		t.Errorf("exported_by = %q", snap.Info.ExportedBy)
	}
	if snap.Info.Date == "" {
		t.Error("export date not set")
	}
}

func TestExportFailedFetchAborts(t *testing.T) {
	tr, cols, _ := newFixture(admin())
	cols["messages"].listErr = errors.New("store down")

	if _, err := tr.Export(context.Background()); err == nil {
		t.Fatal("expected export failure")
	}
}

func TestExportNotAuthenticated(t *testing.T) {
	tr, _, log := newFixture(fakeIdentity{err: errors.New("no session")})
	if _, err := tr.Export(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(log.ops) != 0 {
		t.Errorf("unauthenticated export touched stores: %v", log.ops)
	}
}

func TestSanitize(t *testing.T) {
	rec := Record{
		"id":           "abc",
		"created_date": "2024-01-01",
		"updated_date": "2024-01-02",
		"created_by":   "x@example.com",
		"owner_id":     "verbatim-owner",
		"title":        "kept",
	}
	got := Sanitize(rec)

	if len(got) != 2 {
		t.Errorf("sanitized record = %v, want only domain fields", got)
	}
	if got["owner_id"] != "verbatim-owner" || got["title"] != "kept" {
		t.Errorf("domain fields altered: %v", got)
	}
	if _, present := rec["id"]; !present {
		t.Error("Sanitize mutated its input")
	}
}
