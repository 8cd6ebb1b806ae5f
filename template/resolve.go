package template

import "strings"

// ResolvedFieldSet is the concrete layout for one recipient: overrides
// merged, tokens substituted, ready to paint. Image fields pass through
// unchanged since they carry no per-recipient customization.
type ResolvedFieldSet struct {
	Recipient   Recipient
	TextFields  []TextField
	ImageFields []ImageField
	QRField     *QRField
}

// Resolve computes the final field layout for one recipient. date is the
// shared generation date for the whole batch; callers compute it once so
// every certificate in a batch shows the same date.
//
// Resolve is pure: it never mutates settings and calling it twice with the
// same inputs yields identical output.
func Resolve(settings *DesignSettings, r Recipient, date string) ResolvedFieldSet {
	out := ResolvedFieldSet{
		Recipient:   r,
		TextFields:  make([]TextField, 0, len(settings.TextFields)),
		ImageFields: settings.ImageFields,
	}

	for _, f := range settings.TextFields {
		var ov *FieldOverride
		if o, ok := f.RecipientOverrides[r.ID]; ok {
			ov = &o
		}
		merged := MergeOverride(f, ov)
		merged.Text = Substitute(f.Text, r, date)
		merged.RecipientOverrides = nil
		out.TextFields = append(out.TextFields, merged)
	}

	if settings.QRField != nil {
		q := *settings.QRField
		q.Data = Substitute(q.Data, r, date)
		out.QRField = &q
	}

	return out
}

// MergeOverride applies a per-recipient override to a base field, falling
// back to the base value for every key the override leaves unset. A nil
// override returns the base field unchanged.
func MergeOverride(base TextField, ov *FieldOverride) TextField {
	if ov == nil {
		return base
	}
	if ov.X != nil {
		base.X = *ov.X
	}
	if ov.Y != nil {
		base.Y = *ov.Y
	}
	if ov.FontSize != nil {
		base.FontSize = *ov.FontSize
	}
	return base
}

// Substitute replaces placeholder tokens in text with recipient data.
// {name} and {recipient} take the recipient's name but only when it is
// non-empty; an empty name leaves the tokens verbatim so a certificate is
// never silently rendered blank. {email} behaves the same way. {date} takes
// the supplied batch date. Replacement is global, case-sensitive and
// literal; unknown tokens pass through untouched.
func Substitute(text string, r Recipient, date string) string {
	if r.Name != "" {
		text = strings.ReplaceAll(text, "{name}", r.Name)
		text = strings.ReplaceAll(text, "{recipient}", r.Name)
	}
	if r.Email != "" {
		text = strings.ReplaceAll(text, "{email}", r.Email)
	}
	text = strings.ReplaceAll(text, "{date}", date)
	return text
}
