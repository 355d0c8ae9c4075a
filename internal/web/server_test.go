package web

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"

	"nycleads/internal/annotations"
	"nycleads/internal/borough"
	"nycleads/internal/log"
	"nycleads/internal/types"
)

func testRecords() []types.Record {
	rec := func(addr, boro, nb, btype string, zip int, pos int) types.Record {
		return types.Record{
			Address:      addr,
			Borough:      borough.Parse(boro),
			Neighborhood: nb,
			ZipCode:      types.Int(zip),
			Latitude:     types.Float(40.7),
			Longitude:    types.Float(-73.9),
			BuildingType: btype,
			Position:     pos,
		}
	}
	return []types.Record{
		rec("10 Main St", "1", "Chelsea", "Condos", 10011, 0),
		rec("5 Vernon Blvd", "4", "Long Island City", "Residential", 11101, 1),
		rec("77 Court St", "Brooklyn", "Cobble Hill", "Residential", 11201, 2),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	notes := annotations.Open(filepath.Join(t.TempDir(), "annotations.csv"))
	lg := log.NewWriter(io.Discard, slog.LevelDebug)
	return NewServer(":0", testRecords(), nil, notes, lg)
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func TestListRecords(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters", "", []string{"10 Main St", "5 Vernon Blvd", "77 Court St"}},
		{"borough by code", "?borough=3", []string{"77 Court St"}},
		{"borough by name", "?borough=brooklyn", []string{"77 Court St"}},
		{"type and zip range", "?type=Residential&zip=11100-11110", []string{"5 Vernon Blvd"}},
		{"neighborhood substring", "?neighborhood=island&neighborhood=chel", []string{"10 Main St", "5 Vernon Blvd"}},
		{"address", "?address=" + url.QueryEscape("77 Court St"), []string{"77 Court St"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, s, "GET", "/api/records"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
			}
			var resp RecordsResponse
			decodeBody(t, rr, &resp)
			var got []string
			for _, r := range resp.Records {
				got = append(got, r.Address)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("addresses = %v, want %v", got, tt.want)
			}
			if resp.Summary.Total != len(tt.want) {
				t.Errorf("summary total = %d, want %d", resp.Summary.Total, len(tt.want))
			}
			if len(resp.Warnings) != 0 {
				t.Errorf("unexpected warnings %v", resp.Warnings)
			}
		})
	}
}

func TestListRecordsEmptyResult(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, "GET", "/api/records?zip=10460", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp RecordsResponse
	decodeBody(t, rr, &resp)
	if len(resp.Records) != 0 || len(resp.Warnings) != 1 {
		t.Errorf("records = %d, warnings = %v", len(resp.Records), resp.Warnings)
	}
}

func TestListRecordsInvalidZIP(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, "GET", "/api/records?zip=abc", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestNeighborhoods(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, "GET", "/api/neighborhoods/4", nil)
	var got []string
	decodeBody(t, rr, &got)
	if !reflect.DeepEqual(got, []string{"Long Island City"}) {
		t.Errorf("queens neighborhoods = %v", got)
	}

	rr = do(t, s, "GET", "/api/neighborhoods/Staten%20Island", nil)
	got = nil
	decodeBody(t, rr, &got)
	if len(got) != 0 {
		t.Errorf("staten island neighborhoods = %v, want none", got)
	}

	rr = do(t, s, "GET", "/api/neighborhoods", nil)
	var all map[string][]string
	decodeBody(t, rr, &all)
	if len(all) != 3 {
		t.Errorf("index has %d boroughs, want 3", len(all))
	}
}

func TestBoroughs(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, "GET", "/api/boroughs", nil)
	var got []BoroughInfo
	decodeBody(t, rr, &got)
	if len(got) != 5 || got[0] != (BoroughInfo{Code: "1", Name: "Manhattan"}) {
		t.Errorf("boroughs = %v", got)
	}
}

func TestAnnotations(t *testing.T) {
	s := newTestServer(t)
	key := testRecords()[0].Key()
	path := "/api/annotations/" + url.PathEscape(key)

	rr := do(t, s, "GET", path, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET before write: status = %d", rr.Code)
	}
	var a annotations.Annotation
	decodeBody(t, rr, &a)
	if a.Key != key || a.Contacted {
		t.Errorf("default annotation = %+v", a)
	}

	rr = do(t, s, "PUT", path, []byte(`{"contacted":true,"note":"left voicemail"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = do(t, s, "PUT", path, []byte(`{"note":"call back Friday"}`))
	a = annotations.Annotation{}
	decodeBody(t, rr, &a)
	if !a.Contacted || a.Note != "call back Friday" || a.Address != "10 Main St" {
		t.Errorf("merged annotation = %+v", a)
	}

	rr = do(t, s, "GET", "/api/records?address="+url.QueryEscape("10 Main St"), nil)
	var resp RecordsResponse
	decodeBody(t, rr, &resp)
	if got, ok := resp.Annotations[key]; !ok || got.Note != "call back Friday" {
		t.Errorf("records response annotations = %v", resp.Annotations)
	}
}

func TestAnnotationUnknownKey(t *testing.T) {
	s := newTestServer(t)
	if rr := do(t, s, "GET", "/api/annotations/nowhere", nil); rr.Code != http.StatusNotFound {
		t.Errorf("GET status = %d, want 404", rr.Code)
	}
	if rr := do(t, s, "PUT", "/api/annotations/nowhere", []byte(`{"contacted":true}`)); rr.Code != http.StatusNotFound {
		t.Errorf("PUT status = %d, want 404", rr.Code)
	}
	if rr := do(t, s, "PUT", "/api/annotations/x", []byte(`{`)); rr.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d, want 400", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, "GET", "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	var logs bytes.Buffer
	lg := log.NewWriter(&logs, slog.LevelDebug)
	s := NewServer(":0", testRecords(), nil, nil, lg)

	rr := httptest.NewRecorder()
	s.writeJSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if !strings.Contains(logs.String(), "failed to encode response") {
		t.Errorf("encoding failure not logged: %s", logs.String())
	}
}
