package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/trendpulse/trendpulse/internal/types"
)

// Fingerprint computes a deterministic hash identifying a signal up to
// title case and punctuation. Two signals with the same primary repo, type,
// and normalized title always collide. The hash is an exact-duplicate
// pre-filter, not a cryptographic identity.
func Fingerprint(sig *types.Signal) string {
	data := fmt.Sprintf("%s:%s:%s", sig.PrimaryRepo(), sig.Type, normalizeTitle(sig.Title))
	sum := md5.Sum([]byte(data))
	return hex.EncodeToString(sum[:])
}

// normalizeTitle lowercases the title and strips everything that is not a
// letter or digit. Unicode-aware: CJK titles survive normalization intact.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
