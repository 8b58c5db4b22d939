package sqlguard

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a SQL injection pattern detected in a value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Value       any    // The value that was checked
}

// CheckValue uses libinjection to detect SQL injection patterns in a bound
// value. Only string values are checked; numbers, booleans, and other types
// cannot carry injection patterns and return nil.
func CheckValue(value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if isSQLi {
		return &InjectionCheckResult{
			IsSQLi:      true,
			Fingerprint: string(fingerprint),
			Value:       value,
		}
	}

	return nil
}

// CheckFragment rejects raw SQL fragments (join conditions, predicate text)
// that embed quoted literal data. Fragments are developer-authored; any
// literal value a fragment needs must travel through a `?` marker instead.
// The quoted-literal check catches the accidental interpolation of caller
// data into fragment text before it reaches the database.
func CheckFragment(fragment string) error {
	if !strings.ContainsRune(fragment, '\'') {
		return nil
	}
	if isSQLi, fingerprint := libinjection.IsSQLi(fragment); isSQLi {
		return fmt.Errorf("fragment %q carries quoted literal data (fingerprint %s); bind it as a parameter", fragment, string(fingerprint))
	}
	return fmt.Errorf("fragment %q carries a quoted literal; bind it as a parameter", fragment)
}
