// Package snapshot implements the client-local storage format: a set of
// independently keyed JSON blobs (profile, expenses, goals, dark-mode flag)
// with no schema versioning. The server uses it for export/import so the
// local-only variant of the app and the hosted one exchange the same data.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/zcorpion/zcorpion-be/internal/models"
)

// Blob keys, matching the original client's local-storage keys.
const (
	KeyProfile  = "finanza_profile"
	KeyExpenses = "finanza_expenses"
	KeyGoals    = "finanza_goals"
	KeyDarkMode = "finanza_dark_mode"
)

// Document is the combined snapshot of one user's local state.
type Document struct {
	Profile  *models.Profile      `json:"profile,omitempty"`
	Expenses []models.Movement    `json:"expenses"`
	Goals    []models.SavingsGoal `json:"goals"`
	DarkMode bool                 `json:"dark_mode"`
}

// MarshalBlobs encodes the document as independently keyed JSON blobs.
// Absent sections still produce a blob ("null" / "[]") so every key is
// always present, mirroring the client's storage writes.
func (d Document) MarshalBlobs() (map[string]json.RawMessage, error) {
	blobs := make(map[string]json.RawMessage, 4)

	if d.Expenses == nil {
		d.Expenses = []models.Movement{}
	}
	if d.Goals == nil {
		d.Goals = []models.SavingsGoal{}
	}

	for key, v := range map[string]any{
		KeyProfile:  d.Profile,
		KeyExpenses: d.Expenses,
		KeyGoals:    d.Goals,
		KeyDarkMode: d.DarkMode,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		blobs[key] = raw
	}
	return blobs, nil
}

// UnmarshalBlobs decodes a keyed blob set back into a document. Missing keys
// are tolerated and leave the zero value, matching how the client treats an
// empty local store.
func UnmarshalBlobs(blobs map[string]json.RawMessage) (Document, error) {
	var d Document

	if raw, ok := blobs[KeyProfile]; ok && string(raw) != "null" {
		var p models.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			return Document{}, fmt.Errorf("decode %s: %w", KeyProfile, err)
		}
		d.Profile = &p
	}
	if raw, ok := blobs[KeyExpenses]; ok {
		if err := json.Unmarshal(raw, &d.Expenses); err != nil {
			return Document{}, fmt.Errorf("decode %s: %w", KeyExpenses, err)
		}
	}
	if raw, ok := blobs[KeyGoals]; ok {
		if err := json.Unmarshal(raw, &d.Goals); err != nil {
			return Document{}, fmt.Errorf("decode %s: %w", KeyGoals, err)
		}
	}
	if raw, ok := blobs[KeyDarkMode]; ok {
		if err := json.Unmarshal(raw, &d.DarkMode); err != nil {
			return Document{}, fmt.Errorf("decode %s: %w", KeyDarkMode, err)
		}
	}
	return d, nil
}

// Validate enforces the same domain rules the write endpoints apply, so an
// imported snapshot cannot smuggle values past them. Zero income is allowed
// because exports taken before onboarding carry it.
func (d Document) Validate() error {
	if d.Profile != nil {
		if d.Profile.Income.IsNegative() {
			return fmt.Errorf("%s: income cannot be negative", KeyProfile)
		}
		if _, err := models.ParseFrequency(string(d.Profile.Frequency)); err != nil {
			return fmt.Errorf("%s: %w", KeyProfile, err)
		}
	}
	for i, m := range d.Expenses {
		if !m.Amount.IsPositive() {
			return fmt.Errorf("%s[%d]: amount must be positive", KeyExpenses, i)
		}
		if _, err := models.ParseCategory(string(m.Category)); err != nil {
			return fmt.Errorf("%s[%d]: %w", KeyExpenses, i, err)
		}
		if m.Recurrence != nil {
			if _, err := models.ParseFrequency(string(*m.Recurrence)); err != nil {
				return fmt.Errorf("%s[%d]: %w", KeyExpenses, i, err)
			}
		}
	}
	for i, g := range d.Goals {
		if !g.Target.IsPositive() {
			return fmt.Errorf("%s[%d]: target must be positive", KeyGoals, i)
		}
		if g.Current.IsNegative() {
			return fmt.Errorf("%s[%d]: current cannot be negative", KeyGoals, i)
		}
	}
	return nil
}
