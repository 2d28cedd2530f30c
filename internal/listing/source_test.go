package listing

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	body  string
	err   error
	path  string
	query url.Values
}

func (f *fakeGetter) GetJSON(_ context.Context, path string, query url.Values, out interface{}) error {
	f.path, f.query = path, query
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.body), out)
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		key       string
		wantItems int
		wantPage  bool
		wantTotal *int
	}{
		{"data key with pagination", `{"data":[{"ID":"a"},{"ID":"b"}],"pagination":{"totalPages":4}}`, "rooms", 2, true, nil},
		{"resource key", `{"announcements":[{"ID":"a"}]}`, "announcements", 1, false, nil},
		{"top level total", `{"data":[],"total":125}`, "", 0, false, intPtr(125)},
		{"null data", `{"data":null,"pagination":null}`, "", 0, false, nil},
		{"no items at all", `{"success":true}`, "fees", 0, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeList[row]([]byte(tt.body), tt.key)
			require.NoError(t, err)
			assert.NotNil(t, res.Items)
			assert.Len(t, res.Items, tt.wantItems)
			assert.Equal(t, tt.wantPage, res.Pagination != nil)
			assert.Equal(t, tt.wantTotal, res.Total)
		})
	}
}

func TestDecodeList_Malformed(t *testing.T) {
	_, err := DecodeList[row]([]byte(`[1,2]`), "")
	assert.Error(t, err)
}

func TestDecodeStats(t *testing.T) {
	for _, body := range []string{
		`{"data":{"Overview":{"Total":7}}}`,
		`{"stats":{"Overview":{"Total":7}}}`,
		`{"Overview":{"Total":7}}`,
	} {
		s, err := DecodeStats[testStats]([]byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, 7, s.Overview.Total, body)
	}
}

func TestHTTPList(t *testing.T) {
	g := &fakeGetter{body: `{"data":[{"ID":"x"}],"pagination":{"currentPage":2,"totalPages":3}}`}
	list := HTTPList[row](g, "/complaints", "complaints")

	res, err := list(context.Background(), Query{Page: 2, Limit: 10, Search: "leak", Filters: map[string]string{"status": "all"}})
	require.NoError(t, err)

	assert.Equal(t, "/complaints", g.path)
	assert.Equal(t, url.Values{"page": {"2"}, "limit": {"10"}, "search": {"leak"}}, g.query)
	assert.Len(t, res.Items, 1)
	require.NotNil(t, res.Pagination)
	assert.Equal(t, 3, *res.Pagination.TotalPages)
}

func TestHTTPStats(t *testing.T) {
	g := &fakeGetter{body: `{"data":{"Overview":{"Pending":2}}}`}
	stats := HTTPStats[testStats](g, "/complaints/stats")

	s, err := stats(context.Background(), Query{Page: 4, Limit: 10, Filters: map[string]string{"priority": "high"}})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Overview.Pending)
	assert.Equal(t, url.Values{"priority": {"high"}}, g.query)

	g.err = errors.New("down")
	s, err = stats(context.Background(), Query{})
	assert.Error(t, err)
	assert.Equal(t, testStats{}, s)
}
