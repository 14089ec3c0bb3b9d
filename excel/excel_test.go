package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCellName(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "A1"},
		{4, 2, "C5"},
		{24, 25, "Z25"},
		{0, 26, "AA1"},
		{9, 701, "ZZ10"},
		{0, 702, "AAA1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, CellName(tt.row, tt.col))
		})
	}
}

func TestColumnToIndex(t *testing.T) {
	for _, n := range []int{0, 1, 25, 26, 51, 701, 702, 16383} {
		got, err := ColumnToIndex(IndexToColumn(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	got, err := ColumnToIndex("c")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	for _, bad := range []string{"", "A1", "-"} {
		_, err := ColumnToIndex(bad)
		assert.Error(t, err, bad)
	}
}

func newWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	_, err := f.NewSheet("template")
	require.NoError(t, err)
	_, err = f.NewSheet("notes")
	require.NoError(t, err)

	require.NoError(t, f.SetCellStr("template", "A5", "成功嶺站"))
	require.NoError(t, f.SetCellStr("template", "A6", "嘉保站"))
	require.NoError(t, f.SetCellStr("template", "A8", "成功嶺站"))
	require.NoError(t, f.SetCellStr("template", "A9", "   "))
	require.NoError(t, f.SetColWidth("template", "A", "A", 18))
	require.NoError(t, f.SetCellStr("notes", "A1", "internal"))
	return f
}

func TestHasSheet(t *testing.T) {
	f := newWorkbook(t)

	assert.True(t, HasSheet(f, "template"))
	assert.True(t, HasSheet(f, "Sheet1"))
	assert.False(t, HasSheet(f, "missing"))
}

func TestCloneSheet_KeepsOnlyTheSheet(t *testing.T) {
	// Given
	src := newWorkbook(t)

	// When
	dst, err := CloneSheet(src, "template")
	require.NoError(t, err)
	defer dst.Close()
	require.NoError(t, dst.SetCellStr("template", "A5", "changed"))

	// Then
	assert.Equal(t, []string{"template"}, dst.GetSheetList())
	width, err := dst.GetColWidth("template", "A")
	require.NoError(t, err)
	assert.Equal(t, 18.0, width)

	original, err := src.GetCellValue("template", "A5")
	require.NoError(t, err)
	assert.Equal(t, "成功嶺站", original)
	assert.Len(t, src.GetSheetList(), 3)
}

func TestCloneSheet_Missing(t *testing.T) {
	_, err := CloneSheet(newWorkbook(t), "missing")
	assert.Error(t, err)
}

func TestScanLabels(t *testing.T) {
	f := newWorkbook(t)

	labels, err := ScanLabels(f, "template", "A", 5, 25)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"成功嶺站": 8, "嘉保站": 6}, labels)
}

func TestScanLabels_Column(t *testing.T) {
	f := newWorkbook(t)

	labels, err := ScanLabels(f, "template", "a", 5, 25)
	require.NoError(t, err)
	assert.Len(t, labels, 2)

	_, err = ScanLabels(f, "template", "A5", 5, 25)
	assert.Error(t, err)
}
