package project

import "strings"

var dialogEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeDialogString escapes s for use inside a double-quoted AppleScript
// string literal. Every path or app name interpolated into a dialog script
// must pass through here (or Quote).
func EscapeDialogString(s string) string {
	return dialogEscaper.Replace(s)
}

// Quote returns s as a double-quoted AppleScript string literal.
func Quote(s string) string {
	return `"` + EscapeDialogString(s) + `"`
}

// QuoteList returns items as an AppleScript list literal: {"a", "b"}.
func QuoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = Quote(item)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}
