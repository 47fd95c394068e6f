package codepage

import "fmt"

// StructuralError reports a malformed codepage table detected at
// construction time: a build-time defect, never returned from the hot
// translation path.
type StructuralError struct {
	CCSID  int
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("codepage: ccsid %d: %s", e.CCSID, e.Reason)
}

// maxReverseSpan bounds the code-point space a reverse table may cover,
// guarding against a malformed forward table pulling in pathological
// amounts of memory for the reverse map.
const maxReverseSpan = 1 << 20 // 1 MiB of code-point space
