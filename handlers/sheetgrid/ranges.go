package sheetgrid

import "strings"

// ColumnLetter converts a 1-based column index to its spreadsheet letter
// form: 1 -> A, 26 -> Z, 27 -> AA, 702 -> ZZ. The scheme is a bijective
// base-26 numeral system with no zero digit.
func ColumnLetter(index int) string {
	letters := ""
	for index > 0 {
		rem := (index - 1) % 26
		letters = string(rune('A'+rem)) + letters
		index = (index - rem - 1) / 26
	}
	return letters
}

// escapeSheetName defends a sheet name against quote injection before it is
// embedded in a range expression: embedded quotes are doubled and the whole
// name is wrapped in quotes.
func escapeSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
