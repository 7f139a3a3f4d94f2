package text

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when the system locale is missing or unparsable.
const DefaultLocale = "en-US"

// localeEnv lists the POSIX variables consulted, in priority order.
var localeEnv = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// SystemLocale returns the user's locale with any region qualifier
// stripped ("de_DE.UTF-8" becomes "de"). It falls back to DefaultLocale.
func SystemLocale() string {
	for _, key := range localeEnv {
		if tag, ok := NormalizeLocale(os.Getenv(key)); ok {
			return tag
		}
	}
	return DefaultLocale
}

// NormalizeLocale turns a POSIX or BCP 47 locale name into a bare
// language tag. It reports false for empty, "C"/"POSIX" or invalid input.
func NormalizeLocale(s string) (string, bool) {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexAny(s, "_-"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return "", false
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	return base.String(), true
}
