package template

import "github.com/xuri/excelize/v2"

// Built-in number formats.
const (
	numFmtInteger = 3 // #,##0
	numFmtAmount  = 4 // #,##0.00
)

// StyleManager caches styles so each one is created only once per file.
type StyleManager struct {
	file  *excelize.File
	cache map[string]int
}

// NewStyleManager creates a style manager bound to the given file.
func NewStyleManager(f *excelize.File) *StyleManager {
	return &StyleManager{file: f, cache: make(map[string]int)}
}

// Centered returns a center-aligned bordered text style.
func (sm *StyleManager) Centered() (int, error) {
	return sm.getOrCreate("centered", &excelize.Style{
		Font:      defaultFont(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    defaultBorder(),
	})
}

// Left returns a left-aligned bordered text style.
func (sm *StyleManager) Left() (int, error) {
	return sm.getOrCreate("left", &excelize.Style{
		Font:      defaultFont(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    defaultBorder(),
	})
}

// Integer returns a right-aligned bordered style with thousands separators.
func (sm *StyleManager) Integer() (int, error) {
	return sm.getOrCreate("integer", &excelize.Style{
		Font:      defaultFont(),
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:    defaultBorder(),
		NumFmt:    numFmtInteger,
	})
}

// Amount is Integer with two decimals.
func (sm *StyleManager) Amount() (int, error) {
	return sm.getOrCreate("amount", &excelize.Style{
		Font:      defaultFont(),
		Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:    defaultBorder(),
		NumFmt:    numFmtAmount,
	})
}

// Header returns a bold centered bordered style.
func (sm *StyleManager) Header() (int, error) {
	font := defaultFont()
	font.Bold = true
	return sm.getOrCreate("header", &excelize.Style{
		Font:      font,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    defaultBorder(),
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
}

// ValueStyle picks the style for a cell holding v: Integer for integers,
// Amount for floats and Centered for anything else.
func (sm *StyleManager) ValueStyle(v any) (int, error) {
	switch v.(type) {
	case int, int64, uint64:
		return sm.Integer()
	case float64:
		return sm.Amount()
	default:
		return sm.Centered()
	}
}

func (sm *StyleManager) getOrCreate(key string, style *excelize.Style) (int, error) {
	if id, ok := sm.cache[key]; ok {
		return id, nil
	}

	id, err := sm.file.NewStyle(style)
	if err != nil {
		return 0, err
	}

	sm.cache[key] = id
	return id, nil
}

func defaultFont() *excelize.Font {
	return &excelize.Font{Family: "新細明體", Size: 12}
}

func defaultBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
