package project

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/workdeck/workdeck/internal/workspace"
)

// MaxNameLength is the longest accepted sanitized folder name, in runes.
const MaxNameLength = 50

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^a-z0-9_-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// reservedNames are device names Windows refuses as file names. They are
// rejected on every platform so a workspace stays portable.
var reservedNames = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {},
	"com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {},
	"lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// SanitizeName converts a raw folder name to its canonical form: lowercased,
// whitespace runs collapsed to single hyphens, every character outside
// [a-z0-9_-] stripped, hyphen runs collapsed, leading/trailing hyphens
// trimmed. It rejects names that sanitize to nothing, exceed MaxNameLength,
// or match a reserved device name.
func SanitizeName(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = whitespaceRun.ReplaceAllString(name, "-")
	name = disallowed.ReplaceAllString(name, "")
	name = hyphenRun.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if name == "" {
		return "", fmt.Errorf("name %q sanitizes to nothing: %w", raw, workspace.ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("name %q exceeds %d characters: %w", raw, MaxNameLength, workspace.ErrInvalidName)
	}
	if _, reserved := reservedNames[name]; reserved {
		return "", fmt.Errorf("name %q is a reserved device name: %w", raw, workspace.ErrInvalidName)
	}
	return name, nil
}
