package tscred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisugar/toolkit/errdefs"
)

const itemNeedsBody = `{
  "dynamicColumns": [
    {"field": "NAME", "title": "站名"},
    {"field": "A_G001", "title": "60抽盒裝面紙"}
  ],
  "data": [
    [{"Key": "NAME", "Value": "成功嶺站"}, {"Key": "ORDNO", "Value": "114-10-14"}, {"Key": "A_G001", "Value": 20}]
  ]
}`

func newServer(t *testing.T, queries chan<- url.Values) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/TSCRED/BulkPeriodSheet/CennoDropdownList", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"Value": "13", "Text": "台中營運中心"},
			{"Value": "15", "Text": "高雄營運中心"},
		})
	})
	r.Get("/TSCRED/ItemNeedCount/GetItemNeedCount", func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		if r.URL.Query().Get("CLANA2") == "bad" {
			fmt.Fprint(w, `{"dynamicColumns":[],"data":[[{"Key":"ORDNO","Value":"114-02-30"}]]}`)
			return
		}
		fmt.Fprint(w, itemNeedsBody)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestOperationCenters(t *testing.T) {
	srv := newServer(t, nil)
	c, err := New(Config{BaseURL: srv.URL + "/TSCRED"})
	require.NoError(t, err)

	centers, err := c.OperationCenters(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []OperationCenter{
		{ID: "13", Name: "台中營運中心"},
		{ID: "15", Name: "高雄營運中心"},
	}, centers)
}

func TestItemNeeds_SendsQuery(t *testing.T) {
	// Given
	queries := make(chan url.Values, 1)
	srv := newServer(t, queries)
	c, err := New(Config{BaseURL: srv.URL + "/TSCRED/"})
	require.NoError(t, err)

	// When
	needs, err := c.ItemNeeds(context.Background(), ItemNeedsQuery{
		OperationCenterID: "13",
		DepartmentID:      "11",
		Start:             time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC),
		End:               time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
		DisplayMode:       ByDate,
	})

	// Then
	require.NoError(t, err)
	q := <-queries
	assert.Equal(t, url.Values{
		"CLANA":   {""},
		"CLANA2":  {"13"},
		"CLANO":   {"2025/10/07"},
		"CLANO2":  {"2025/10/14"},
		"DSP_SEL": {"2"},
		"HOST":    {"11"},
	}, q)

	count, ok := needs.LookupCount("成功嶺站", "A_G001")
	assert.True(t, ok)
	assert.Equal(t, uint64(20), count)
}

func TestItemNeeds_DefaultsToByStation(t *testing.T) {
	queries := make(chan url.Values, 1)
	srv := newServer(t, queries)
	c, err := New(Config{BaseURL: srv.URL + "/TSCRED/"})
	require.NoError(t, err)

	_, err = c.ItemNeeds(context.Background(), ItemNeedsQuery{OperationCenterID: "13"})
	require.NoError(t, err)

	assert.Equal(t, "1", (<-queries).Get("DSP_SEL"))
}

func TestItemNeeds_BadDateIsADecodeError(t *testing.T) {
	queries := make(chan url.Values, 1)
	srv := newServer(t, queries)
	c, err := New(Config{BaseURL: srv.URL + "/TSCRED/"})
	require.NoError(t, err)

	_, err = c.ItemNeeds(context.Background(), ItemNeedsQuery{OperationCenterID: "bad"})

	var decodeErr *errdefs.DecodeError
	require.True(t, errors.As(err, &decodeErr), "got %v", err)
	assert.ErrorIs(t, err, errdefs.ErrInvalidDate)
}

func TestParseDisplayMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DisplayMode
		wantErr bool
	}{
		{in: "station", want: ByStation},
		{in: "2", want: ByDate},
		{in: "details", want: Details},
		{in: "weekly", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDisplayMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
