package excel

import (
	"fmt"
	"strconv"
	"strings"
)

// CellName converts 0-based row and column indices to a cell reference (4,2 → "C5").
func CellName(row, col int) string {
	return IndexToColumn(col) + strconv.Itoa(row+1)
}

// IndexToColumn converts a 0-based column index to column letters (0→A, 25→Z, 26→AA).
func IndexToColumn(n int) string {
	var letters []byte
	for n >= 0 {
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n = n/26 - 1
	}
	return string(letters)
}

// ColumnToIndex is the inverse of IndexToColumn ("C" → 2). Lower case letters
// are accepted.
func ColumnToIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column")
	}

	n := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column %q", letters)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, nil
}

// Cell joins column letters and a 1-based row number the way template
// layouts are usually written down ("A", 5 → "A5").
func Cell(col string, row int) string {
	return col + strconv.Itoa(row)
}
