package utils

import "strings"

var vcardEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// VCard renders a version 3.0 contact card. Lines are CRLF separated.
func VCard(name, phone, organization string) string {
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + vcardEscaper.Replace(name),
		"N:;" + vcardEscaper.Replace(name) + ";;;",
		"TEL;TYPE=CELL:" + phone,
	}
	if organization != "" {
		lines = append(lines, "ORG:"+vcardEscaper.Replace(organization))
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n")
}
