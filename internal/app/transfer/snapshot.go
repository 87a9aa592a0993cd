package transfer

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot keys. The outer document uses file-like labels because early
// versions of the tool shipped a zip of separate files; the flat document
// kept the names for compatibility.
const (
	KeyMembers     = "members.json"
	KeyMessages    = "messages.json"
	KeySettings    = "settings.json"
	KeyActionCards = "action_cards.json"
	KeyVentures    = "ventures.json"
	KeyExportInfo  = "export_info.json"
)

// requiredKeys are the entity keys an import document must carry, in the
// order they are checked and reported.
var requiredKeys = []string{KeyMembers, KeyMessages, KeySettings, KeyActionCards, KeyVentures}

// Snapshot is one portable dump of community data.
type Snapshot struct {
	Members     []Record
	Messages    []Record
	Settings    []Record
	ActionCards []Record
	Ventures    []Record
	Info        ExportInfo
}

// ExportInfo describes when, by whom, and how much was exported.
type ExportInfo struct {
	Date         string       `json:"date"`
	ExportedBy   string       `json:"exported_by"`
	EntityCounts EntityCounts `json:"entity_counts"`
}

// EntityCounts is the per-entity record count at export time.
type EntityCounts struct {
	Members     int `json:"members"`
	Messages    int `json:"messages"`
	Settings    int `json:"settings"`
	ActionCards int `json:"action_cards"`
	Ventures    int `json:"ventures"`
}

// EncodeSnapshot renders a snapshot in the on-disk format: a JSON object
// whose values are themselves JSON-encoded strings of the entity arrays.
// The double encoding is the historical format and import depends on it;
// do not flatten it.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	doc := make(map[string]string, 6)

	entities := []struct {
		key  string
		recs []Record
	}{
		{KeyMembers, s.Members},
		{KeyMessages, s.Messages},
		{KeySettings, s.Settings},
		{KeyActionCards, s.ActionCards},
		{KeyVentures, s.Ventures},
	}
	for _, e := range entities {
		recs := e.recs
		if recs == nil {
			recs = []Record{} // empty collections encode as [], not null
		}
		b, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e.key, err)
		}
		doc[e.key] = string(b)
	}

	info, err := json.MarshalIndent(s.Info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", KeyExportInfo, err)
	}
	doc[KeyExportInfo] = string(info)

	return json.MarshalIndent(doc, "", "  ")
}

// DecodeSnapshot parses an export document, verifying the required entity
// keys and unwrapping the double encoding. Missing keys or unparseable
// values produce an *InvalidFormatError.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidFormatError{Reason: "not a valid export document: " + err.Error()}
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &InvalidFormatError{Missing: missing}
	}

	var s Snapshot
	targets := []struct {
		key string
		dst *[]Record
	}{
		{KeyMembers, &s.Members},
		{KeyMessages, &s.Messages},
		{KeySettings, &s.Settings},
		{KeyActionCards, &s.ActionCards},
		{KeyVentures, &s.Ventures},
	}
	for _, t := range targets {
		if err := json.Unmarshal([]byte(doc[t.key]), t.dst); err != nil {
			return nil, &InvalidFormatError{Reason: fmt.Sprintf("%s is not a record array: %v", t.key, err)}
		}
	}

	// export_info is informational; an import works without it.
	if raw, ok := doc[KeyExportInfo]; ok {
		_ = json.Unmarshal([]byte(raw), &s.Info)
	}
	return &s, nil
}

// ExportFilename names the download for an export taken at the given time.
func ExportFilename(t time.Time) string {
	return "community_hub_export_" + t.UTC().Format("2006-01-02") + ".json"
}
