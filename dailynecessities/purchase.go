package dailynecessities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar day sent as "YYYYMMDD".
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dayLayout))
}

// Purchase is one purchase line. Numbers arrive as decimal strings and are
// kept verbatim; use the accessors to read them.
type Purchase struct {
	StationID       string  `json:"step_id"`
	StationName     string  `json:"stepname"`
	Date            Date    `json:"date"`
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"prname"`
	Class           string  `json:"class"`
	SupplierID      *string `json:"sup_id"`
	SupplierName    *string `json:"sup_name"`
	Receipt         string  `json:"rcpt"`
	Price           string  `json:"price"`
	Quantity        string  `json:"qty"`
	AmountBeforeTax string  `json:"notax_amt"`
	Group           string  `json:"GROUP"`
	Area            string  `json:"AREA"`
	Dep             string  `json:"dep"`
	Sep             string  `json:"sep"`
}

// QuantityValue parses Quantity.
func (p Purchase) QuantityValue() (decimal.Decimal, error) {
	return parseDecimal("qty", p.Quantity)
}

// PriceValue parses Price.
func (p Purchase) PriceValue() (decimal.Decimal, error) {
	return parseDecimal("price", p.Price)
}

// AmountBeforeTaxValue parses AmountBeforeTax.
func (p Purchase) AmountBeforeTaxValue() (decimal.Decimal, error) {
	return parseDecimal("notax_amt", p.AmountBeforeTax)
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, s, err)
	}
	return d, nil
}

// PurchaseList is the purchase-list response.
type PurchaseList struct {
	Data []Purchase `json:"data"`
}

// All returns the purchases in response order.
func (l *PurchaseList) All() []Purchase {
	return l.Data
}
