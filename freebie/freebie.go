// Package freebie lists the promotional items that have a weekly
// purchase-order template, together with where each template expects its
// header values.
package freebie

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Freebie is one orderable promotional item.
type Freebie int

const (
	Tissue60 Freebie = iota
	Tissue110
	MineralWater
)

type layout struct {
	slug        string
	name        string
	label       string
	keyword     string
	template    string
	dateCell    string
	orderCell   string
	orderFormat string
}

var layouts = [...]layout{
	Tissue60: {
		slug:        "tissue60",
		name:        "60抽盒裝面紙",
		label:       "60抽面紙",
		keyword:     "60抽",
		template:    "60抽面紙每週訂購單.xlsx",
		dateCell:    "E2",
		orderCell:   "C40",
		orderFormat: "訂單編號：%s",
	},
	Tissue110: {
		slug:        "tissue110",
		name:        "110抽盒裝面紙",
		label:       "110抽面紙",
		keyword:     "110抽",
		template:    "110抽面紙每週訂購單.xlsx",
		dateCell:    "E2",
		orderCell:   "D38",
		orderFormat: "訂單編號：%s",
	},
	MineralWater: {
		slug:        "water",
		name:        "台糖礦泉水/箱",
		label:       "礦泉水",
		keyword:     "礦泉水",
		template:    "礦泉水每週訂購單.xlsx",
		dateCell:    "F3",
		orderCell:   "F2",
		orderFormat: "南訂%s",
	},
}

// All returns every freebie in display order.
func All() []Freebie {
	return []Freebie{Tissue60, Tissue110, MineralWater}
}

// Parse accepts a slug ("tissue60"), a label ("60抽面紙") or a canonical name.
func Parse(s string) (Freebie, error) {
	s = strings.TrimSpace(s)
	for _, f := range All() {
		l := layouts[f]
		if strings.EqualFold(s, l.slug) || s == l.label || s == l.name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown freebie %q", s)
}

func (f Freebie) valid() bool {
	return f >= 0 && int(f) < len(layouts)
}

func (f Freebie) layout() layout {
	if !f.valid() {
		panic(fmt.Sprintf("freebie: invalid value %d", int(f)))
	}
	return layouts[f]
}

// Name is the item title the TSCRED backend uses for this freebie. It is
// matched against item column titles to find the backend's item id.
func (f Freebie) Name() string { return f.layout().name }

// Label is the short display name.
func (f Freebie) Label() string { return f.layout().label }

// Slug is the command line name.
func (f Freebie) Slug() string { return f.layout().slug }

// Keyword selects this freebie's rows in the purchase list.
func (f Freebie) Keyword() string { return f.layout().keyword }

// MatchesProduct reports whether a purchase-list product name is this
// freebie. The keyword must not follow a digit, so "60抽" rejects "160抽".
func (f Freebie) MatchesProduct(productName string) bool {
	keyword := f.Keyword()
	for rest := productName; ; {
		i := strings.Index(rest, keyword)
		if i < 0 {
			return false
		}
		prev, _ := utf8.DecodeLastRuneInString(rest[:i])
		if i == 0 || !unicode.IsDigit(prev) {
			return true
		}
		rest = rest[i+len(keyword):]
	}
}

// TemplateName is the file name of the purchase-order template.
func (f Freebie) TemplateName() string { return f.layout().template }

// NotificationDateCell is where the notification date goes.
func (f Freebie) NotificationDateCell() string { return f.layout().dateCell }

// OrderNumberCell is where the order number goes.
func (f Freebie) OrderNumberCell() string { return f.layout().orderCell }

// OrderNumberValue formats the order-number cell text.
func (f Freebie) OrderNumberValue(orderNumber string) string {
	return fmt.Sprintf(f.layout().orderFormat, orderNumber)
}

func (f Freebie) String() string {
	if !f.valid() {
		return fmt.Sprintf("Freebie(%d)", int(f))
	}
	return layouts[f].slug
}
