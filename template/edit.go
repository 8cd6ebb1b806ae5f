package template

import "strings"

// ClearOverrides removes per-recipient overrides from the field with the
// given id. With a recipientID it clears only that recipient's entry;
// called with recipientID < 0 it clears the whole override map so every
// recipient resolves back to the field's base values.
func ClearOverrides(settings *DesignSettings, fieldID, recipientID int) {
	for i := range settings.TextFields {
		f := &settings.TextFields[i]
		if f.ID != fieldID {
			continue
		}
		if recipientID < 0 {
			f.RecipientOverrides = nil
			return
		}
		delete(f.RecipientOverrides, recipientID)
		return
	}
}

// SetOverride records a per-recipient override for one field, merging with
// any override already present for that recipient.
func SetOverride(settings *DesignSettings, fieldID, recipientID int, ov FieldOverride) {
	for i := range settings.TextFields {
		f := &settings.TextFields[i]
		if f.ID != fieldID {
			continue
		}
		if f.RecipientOverrides == nil {
			f.RecipientOverrides = make(map[int]FieldOverride)
		}
		cur := f.RecipientOverrides[recipientID]
		if ov.X != nil {
			cur.X = ov.X
		}
		if ov.Y != nil {
			cur.Y = ov.Y
		}
		if ov.FontSize != nil {
			cur.FontSize = ov.FontSize
		}
		f.RecipientOverrides[recipientID] = cur
		return
	}
}

// PruneOverrides drops override entries keyed by recipients that are no
// longer in the list. Stale entries are harmless at render time but keeping
// the maps clean avoids them accumulating across edits.
func PruneOverrides(settings *DesignSettings, recipients []Recipient) {
	present := make(map[int]bool, len(recipients))
	for _, r := range recipients {
		present[r.ID] = true
	}
	for i := range settings.TextFields {
		for id := range settings.TextFields[i].RecipientOverrides {
			if !present[id] {
				delete(settings.TextFields[i].RecipientOverrides, id)
			}
		}
	}
}

// EnsureNameField synthesizes a centered {name} field when no text field
// contains the {name} token, so a freshly created template always renders
// the recipient's name. Returns true when a field was added.
func EnsureNameField(settings *DesignSettings) bool {
	for _, f := range settings.TextFields {
		if strings.Contains(f.Text, "{name}") {
			return false
		}
	}
	w, h := settings.CanvasSize()
	maxID := 0
	for _, f := range settings.TextFields {
		if f.ID > maxID {
			maxID = f.ID
		}
	}
	settings.TextFields = append(settings.TextFields, TextField{
		ID:       maxID + 1,
		X:        w/2 - 100,
		Y:        h / 2,
		Text:     "{name}",
		FontSize: 24,
	})
	return true
}
