package render

// SanitizeName converts a recipient name into a file-name-safe form by
// replacing every non-alphanumeric rune with an underscore. When nothing
// alphanumeric survives, the fixed literal "recipient" is returned instead
// so a certificate never gets an unreadable name.
func SanitizeName(name string) string {
	out := make([]rune, 0, len(name))
	hasAlnum := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
			hasAlnum = true
		default:
			out = append(out, '_')
		}
	}
	if !hasAlnum {
		return "recipient"
	}
	return string(out)
}

// FileName derives the certificate file name for a recipient.
func FileName(recipientName string) string {
	return "certificate_" + SanitizeName(recipientName) + ".pdf"
}
