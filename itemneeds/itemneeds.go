// Package itemneeds decodes the item-need-count report of the TSCRED backend.
//
// The payload declares its own columns per response. Columns whose field
// starts with ItemPrefix are orderable items; the rest are metadata. Each data
// row is a list of Key/Value pairs whose values are strings or integers.
package itemneeds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/taisugar/toolkit/roc"
)

const (
	// ItemPrefix marks item columns.
	ItemPrefix = "A_"

	StationNameKey = "NAME"
	OrderDateKey   = "ORDNO"
)

// DynamicColumn declares one column of a response.
type DynamicColumn struct {
	Field string `json:"field"`
	Title string `json:"title"`
	// Width is layout only and kept undecoded.
	Width json.RawMessage `json:"width,omitempty"`
}

// IsItem reports whether the column is an orderable item.
func (c DynamicColumn) IsItem() bool {
	return strings.HasPrefix(c.Field, ItemPrefix)
}

// Value is either a string or a non-negative integer.
type Value struct {
	str    string
	num    uint64
	number bool
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{str: s} }

// NumberValue returns an integer value.
func NumberValue(n uint64) Value { return Value{num: n, number: true} }

// Number returns the integer and true for integer values.
func (v Value) Number() (uint64, bool) { return v.num, v.number }

// Str returns the string and true for string values.
func (v Value) Str() (string, bool) { return v.str, !v.number }

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("value is null")
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}

	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("value %s is neither a string nor a non-negative integer", data)
	}
	*v = NumberValue(n)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.number {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// KV is one cell of a data row.
type KV struct {
	Key   string `json:"Key"`
	Value Value  `json:"Value"`
}

// Item is an orderable product column.
type Item struct {
	ID    string
	Title string
}

// ItemNeed is one decoded data row.
type ItemNeed struct {
	StationName string
	// OrderDate is zero when the row carries no ORDNO.
	OrderDate  time.Time
	ItemCounts map[string]uint64
}

// ItemNeeds is a decoded item-need-count response.
type ItemNeeds struct {
	DynamicColumns []DynamicColumn `json:"dynamicColumns"`
	Data           [][]KV          `json:"data"`
}

// Decode reads a response body. Every row is checked, so a row with a bad
// order date fails the whole decode.
func Decode(r io.Reader) (*ItemNeeds, error) {
	var needs ItemNeeds
	if err := json.NewDecoder(r).Decode(&needs); err != nil {
		return nil, err
	}
	return &needs, nil
}

func (n *ItemNeeds) UnmarshalJSON(data []byte) error {
	type raw ItemNeeds
	var decoded raw
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	needs := ItemNeeds(decoded)
	itemIDs := needs.itemIDs()
	for i, row := range needs.Data {
		if _, err := classify(row, itemIDs); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	*n = needs
	return nil
}

// Len returns the number of data rows.
func (n *ItemNeeds) Len() int {
	return len(n.Data)
}

// Items lists the item columns in declaration order. Duplicated fields are
// returned as declared.
func (n *ItemNeeds) Items() []Item {
	items := make([]Item, 0, len(n.DynamicColumns))
	for _, c := range n.DynamicColumns {
		if c.IsItem() {
			items = append(items, Item{ID: c.Field, Title: c.Title})
		}
	}
	return items
}

// ItemByTitle returns the first item whose title equals title.
func (n *ItemNeeds) ItemByTitle(title string) (Item, bool) {
	for _, item := range n.Items() {
		if item.Title == title {
			return item, true
		}
	}
	return Item{}, false
}

func (n *ItemNeeds) itemIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(n.DynamicColumns))
	for _, c := range n.DynamicColumns {
		if c.IsItem() {
			ids[c.Field] = struct{}{}
		}
	}
	return ids
}

// Rows yields the decoded rows in order. Each call starts over. Iteration
// stops at the first row that cannot be decoded, which is yielded with its
// error.
func (n *ItemNeeds) Rows() iter.Seq2[ItemNeed, error] {
	return func(yield func(ItemNeed, error) bool) {
		itemIDs := n.itemIDs()
		for i, row := range n.Data {
			need, err := classify(row, itemIDs)
			if err != nil {
				yield(ItemNeed{}, fmt.Errorf("row %d: %w", i, err))
				return
			}
			if !yield(need, nil) {
				return
			}
		}
	}
}

// All collects Rows.
func (n *ItemNeeds) All() ([]ItemNeed, error) {
	needs := make([]ItemNeed, 0, len(n.Data))
	for need, err := range n.Rows() {
		if err != nil {
			return nil, err
		}
		needs = append(needs, need)
	}
	return needs, nil
}

// LookupCount returns the quantity a station reported for an item. It is
// false when the station has no row, the row lacks the item, or the item's
// value is not a number.
func (n *ItemNeeds) LookupCount(stationName, itemID string) (uint64, bool) {
	for _, row := range n.Data {
		if !hasStation(row, stationName) {
			continue
		}
		for _, kv := range row {
			if kv.Key == itemID {
				return kv.Value.Number()
			}
		}
		return 0, false
	}
	return 0, false
}

func hasStation(row []KV, stationName string) bool {
	for _, kv := range row {
		if kv.Key != StationNameKey {
			continue
		}
		if s, ok := kv.Value.Str(); ok && s == stationName {
			return true
		}
	}
	return false
}

func classify(row []KV, itemIDs map[string]struct{}) (ItemNeed, error) {
	need := ItemNeed{ItemCounts: make(map[string]uint64)}
	for _, kv := range row {
		if n, ok := kv.Value.Number(); ok {
			if _, isItem := itemIDs[kv.Key]; isItem {
				need.ItemCounts[kv.Key] = n
			}
			continue
		}

		s, _ := kv.Value.Str()
		switch kv.Key {
		case StationNameKey:
			need.StationName = s
		case OrderDateKey:
			date, err := roc.Parse(s)
			if err != nil {
				return ItemNeed{}, fmt.Errorf("order date: %w", err)
			}
			need.OrderDate = date
		}
	}
	return need, nil
}
