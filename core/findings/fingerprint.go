package findings

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ComputeFingerprint produces a deterministic SHA-256 hex digest from the
// combination of finding type, source tool, and locations. The fingerprint is
// stable across runs as long as the inputs are identical, making it suitable
// for deduplication and change tracking between assessment runs.
func ComputeFingerprint(findingType, sourceTool string, locations []string) string {
	h := sha256.New()
	// Components are separated by a null byte to avoid ambiguous
	// concatenations (e.g. type="ab", tool="c" vs type="a", tool="bc").
	_, _ = fmt.Fprintf(h, "%s\x00%s\x00%s", findingType, sourceTool, strings.Join(locations, "\x00"))
	return fmt.Sprintf("%x", h.Sum(nil))
}
