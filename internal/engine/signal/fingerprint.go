package signal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint derives a stable identifier from the substantive fields of a
// signal. It changes when the ticker, direction, reason set, or confidence
// (rounded to two decimals) change, and only then. Raw price jitter that
// does not alter any of those fields leaves the fingerprint untouched.
func Fingerprint(ticker string, direction Direction, reasons []string, confidence float64) string {
	sorted := make([]string, len(reasons))
	copy(sorted, reasons)
	sort.Strings(sorted)

	payload := fmt.Sprintf("%s|%s|%s|%.2f",
		strings.ToUpper(ticker),
		direction,
		strings.Join(sorted, ";"),
		confidence,
	)
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
