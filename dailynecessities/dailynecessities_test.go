package dailynecessities

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bxcodec/faker/v4"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backstage struct {
	username string
	password string
	token    string
	fixture  []byte

	logins   atomic.Int32
	lastForm atomic.Value
}

func newBackstage(t *testing.T) *backstage {
	t.Helper()
	fixture, err := os.ReadFile("testdata/purchase-list.json")
	require.NoError(t, err)
	return &backstage{
		username: faker.Username(),
		password: faker.Password(),
		token:    faker.UUIDDigit(),
		fixture:  fixture,
	}
}

func (b *backstage) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><meta name="csrf-token" content="%s"></head></html>`, b.token)
	})
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("user_id") != b.username || r.PostForm.Get("password") != b.password {
			w.WriteHeader(http.StatusOK)
			return
		}
		b.logins.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "x", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "laravel_session", Value: "s", Path: "/"})
		http.Redirect(w, r, "/backstage", http.StatusFound)
	})
	r.Post("/backstage/purchase/list/search", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("laravel_session"); err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		_ = r.ParseForm()
		b.lastForm.Store(r.PostForm)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b.fixture)
	})
	return r
}

func TestPurchaseList(t *testing.T) {
	// Given
	b := newBackstage(t)
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Username: b.username, Password: b.password})
	require.NoError(t, err)

	// When
	list, err := c.PurchaseList(context.Background(),
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC))

	// Then
	require.NoError(t, err)
	assert.Equal(t, int32(1), b.logins.Load())

	form := b.lastForm.Load().(url.Values)
	assert.Equal(t, "20250901", form.Get("startday"))
	assert.Equal(t, "20250930", form.Get("endday"))
	assert.Equal(t, b.token, form.Get("_token"))

	purchases := list.All()
	require.Len(t, purchases, 7)
	first := purchases[0]
	assert.Equal(t, "IIB11", first.StationID)
	assert.Equal(t, "柳林", first.StationName)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), first.Date.Time)
	assert.Nil(t, first.SupplierID)
	assert.Equal(t, "中", first.Group)

	second := purchases[1]
	require.NotNil(t, second.SupplierName)
	assert.Equal(t, "永豐餘", *second.SupplierName)
}

func TestPurchaseList_ReusesSession(t *testing.T) {
	b := newBackstage(t)
	srv := httptest.NewServer(b.handler())
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Username: b.username, Password: b.password})
	require.NoError(t, err)

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for range 3 {
		_, err := c.PurchaseList(context.Background(), day, day)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), b.logins.Load())
}

func TestPurchase_DecimalAccessors(t *testing.T) {
	p := Purchase{Price: "5.2000", Quantity: "50.00", AmountBeforeTax: "260.0000"}

	qty, err := p.QuantityValue()
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(50)))

	price, err := p.PriceValue()
	require.NoError(t, err)
	assert.Equal(t, "5.2", price.String())

	amount, err := p.AmountBeforeTaxValue()
	require.NoError(t, err)
	assert.True(t, amount.Equal(qty.Mul(price)))

	_, err = Purchase{Quantity: "n/a"}.QuantityValue()
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"20250930"`), &d))
	assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), d.Time)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"20250930"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"2025-09-30"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20250930`), &d))
}
