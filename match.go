package connector

// FindRow returns the index of the first row matching every entry of key, or
// -1 when no row matches. Values compare by their string coercion, not typed
// equality: spreadsheet and CSV backends only ever produce text, so a
// numeric or boolean key must compare by its textual form to behave
// consistently across backends. Duplicate matches resolve to the earliest
// row without error.
func FindRow(rows []Row, key Key) int {
	for i, row := range rows {
		if matchesKey(row, key) {
			return i
		}
	}
	return -1
}

func matchesKey(row Row, key Key) bool {
	for name, want := range key {
		got, ok := row[name]
		if !ok {
			return false
		}
		if CoerceString(got) != CoerceString(want) {
			return false
		}
	}
	return true
}
