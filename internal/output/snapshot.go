package output

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SnapshotExcludeFields lists time-varying fields removed before
// comparing two analysis snapshots.
var SnapshotExcludeFields = []string{
	"analyzedAt",
}

// NormalizeForSnapshot strips time-varying fields and re-encodes
// deterministically so snapshots taken at different times compare equal
// when the analysis itself is unchanged.
func NormalizeForSnapshot(data []byte) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	for _, field := range SnapshotExcludeFields {
		removeNestedField(parsed, field)
	}

	return DeterministicEncode(parsed)
}

// CompareSnapshots reports whether two encoded results are identical
// ignoring time-varying fields.
func CompareSnapshots(a, b []byte) (bool, string) {
	normalizedA, err := NormalizeForSnapshot(a)
	if err != nil {
		return false, "failed to normalize snapshot A: " + err.Error()
	}
	normalizedB, err := NormalizeForSnapshot(b)
	if err != nil {
		return false, "failed to normalize snapshot B: " + err.Error()
	}
	if !bytes.Equal(normalizedA, normalizedB) {
		return false, "snapshots differ"
	}
	return true, ""
}

// removeNestedField removes a dot-separated field path from a parsed map.
func removeNestedField(data map[string]interface{}, path string) {
	parts := strings.Split(path, ".")
	current := data
	for i := 0; i < len(parts)-1; i++ {
		next, ok := current[parts[i]].(map[string]interface{})
		if !ok {
			return
		}
		current = next
	}
	delete(current, parts[len(parts)-1])
}
