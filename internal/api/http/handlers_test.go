package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	api "github.com/classkit/gradebook/internal/api/http"
	"github.com/classkit/gradebook/internal/auth"
	"github.com/classkit/gradebook/internal/roster"
	"github.com/classkit/gradebook/internal/scoring"
	"github.com/classkit/gradebook/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("classroom"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	authSvc := auth.NewAuthService("test-secret", "teacher", string(hash))
	st := store.NewInMemoryStore()

	r := chi.NewRouter()
	api.Mount(r, st, authSvc)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	tok, err := authSvc.IssueJWT("teacher", "teacher")
	if err != nil {
		t.Fatalf("issue jwt: %v", err)
	}
	return srv, st, tok
}

func seedRoster(t *testing.T, st store.Store) *roster.Roster {
	t.Helper()
	ros := roster.New("fall", "Fall")
	ros.AddSubject("math")
	ros.AddSubject("science")
	a := ros.AddStudent("kim")
	a.SetScore("math", 100)
	a.SetScore("science", 100)
	b := ros.AddStudent("lee")
	b.SetScore("math", 100)
	b.SetScore("science", 100)
	c := ros.AddStudent("park")
	c.SetScore("math", 90)
	c.SetScore("science", 80)
	if err := st.PutRoster(context.Background(), ros); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ros
}

func doReq(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestResultsEndpoint(t *testing.T) {
	srv, st, _ := newTestServer(t)
	seedRoster(t, st)

	resp := doReq(t, "GET", srv.URL+"/rosters/fall/results", "", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var results []scoring.Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	wantRanks := []int{1, 1, 3}
	for i, w := range wantRanks {
		if results[i].Rank != w {
			t.Errorf("rank[%d] = %d, want %d", i, results[i].Rank, w)
		}
	}
	if results[2].Total != 170 || results[2].Grade != "B" {
		t.Errorf("park = %+v", results[2])
	}
}

func TestResultsFilters(t *testing.T) {
	srv, st, _ := newTestServer(t)
	seedRoster(t, st)

	resp := doReq(t, "GET", srv.URL+"/rosters/fall/results?min_avg=90", "", "")
	defer resp.Body.Close()
	var results []scoring.Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("min_avg filter: got %d results", len(results))
	}
	for _, res := range results {
		// Filtering hides rows; it must not re-rank the survivors.
		if res.Rank != 1 {
			t.Errorf("rank = %d, want 1", res.Rank)
		}
	}

	resp2 := doReq(t, "GET", srv.URL+"/rosters/fall/results?name=par", "", "")
	defer resp2.Body.Close()
	results = nil
	if err := json.NewDecoder(resp2.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Name != "park" {
		t.Errorf("name filter: %+v", results)
	}

	resp3 := doReq(t, "GET", srv.URL+"/rosters/fall/results?min_avg=bogus", "", "")
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Errorf("bad min_avg status = %d", resp3.StatusCode)
	}
}

func TestResultsRosterNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doReq(t, "GET", srv.URL+"/rosters/nope/results", "", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	srv, st, tok := newTestServer(t)
	seedRoster(t, st)

	resp := doReq(t, "POST", srv.URL+"/rosters/fall/students", "", `{"name":"choi"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated mutation status = %d, want 401", resp.StatusCode)
	}

	resp = doReq(t, "POST", srv.URL+"/rosters/fall/students", tok, `{"name":"choi"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated mutation status = %d", resp.StatusCode)
	}
	ros, err := st.GetRoster(context.Background(), "fall")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(ros.Students) != 4 || ros.Students[3].Name != "choi" {
		t.Errorf("students = %d", len(ros.Students))
	}
	// New students are backfilled with zero cells for every subject.
	if cell, ok := ros.Students[3].Cell("math"); !ok || cell != "0" {
		t.Errorf("backfill cell = %q ok=%v", cell, ok)
	}
}

func TestSetScoresAndRecompute(t *testing.T) {
	srv, st, tok := newTestServer(t)
	seedRoster(t, st)

	resp := doReq(t, "PUT", srv.URL+"/rosters/fall/students/2/scores", tok, `{"math":"100","science":"100"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set scores status = %d", resp.StatusCode)
	}

	resp = doReq(t, "GET", srv.URL+"/rosters/fall/results", "", "")
	defer resp.Body.Close()
	var results []scoring.Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, res := range results {
		if res.Rank != 1 {
			t.Errorf("rank[%d] = %d, want 1 after three-way tie", i, res.Rank)
		}
	}

	resp = doReq(t, "PUT", srv.URL+"/rosters/fall/students/9/scores", tok, `{"math":"1"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out-of-range index status = %d, want 400", resp.StatusCode)
	}
}

func TestPutRosterRejectsNullStudents(t *testing.T) {
	srv, st, tok := newTestServer(t)

	body := `{"subjects":["math"],"students":[null,{"name":"kim","scores":{"math":"90"}}]}`
	resp := doReq(t, "PUT", srv.URL+"/rosters/fall", tok, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if _, err := st.GetRoster(context.Background(), "fall"); err == nil {
		t.Error("rejected roster was stored anyway")
	}
}

func TestPutRosterDedupesSubjects(t *testing.T) {
	srv, st, tok := newTestServer(t)

	body := `{"subjects":["math","math",""],"students":[{"name":"kim","scores":{"math":"90"}}]}`
	resp := doReq(t, "PUT", srv.URL+"/rosters/fall", tok, body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	ros, err := st.GetRoster(context.Background(), "fall")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(ros.Subjects) != 1 || ros.Subjects[0] != "math" {
		t.Fatalf("subjects = %v, want [math]", ros.Subjects)
	}

	// The duplicate column must not double the total or inflate the divisor.
	resp = doReq(t, "GET", srv.URL+"/rosters/fall/results", "", "")
	defer resp.Body.Close()
	var results []scoring.Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Total != 90 || results[0].Avg != 90 || results[0].Grade != "A" {
		t.Errorf("results = %+v, want total 90 avg 90 grade A", results)
	}
}

func TestCSVExportImport(t *testing.T) {
	srv, st, tok := newTestServer(t)
	seedRoster(t, st)

	resp := doReq(t, "GET", srv.URL+"/rosters/fall/export", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	csvBody := string(raw)
	if !strings.Contains(csvBody, "Name,math,science,Total,Avg,Grade,Rank") {
		t.Errorf("export header missing: %q", csvBody)
	}

	resp = doReq(t, "POST", srv.URL+"/rosters/spring/import?title=Spring", tok, csvBody)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", resp.StatusCode)
	}
	ros, err := st.GetRoster(context.Background(), "spring")
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	if ros.Title != "Spring" || len(ros.Students) != 3 || len(ros.Subjects) != 2 {
		t.Errorf("imported roster = %+v", ros)
	}
}

func TestLogin(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doReq(t, "POST", srv.URL+"/auth/login", "", `{"username":"teacher","password":"classroom"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["access_token"] == "" {
		t.Error("no access_token in response")
	}

	resp2 := doReq(t, "POST", srv.URL+"/auth/login", "", `{"username":"teacher","password":"wrong"}`)
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password status = %d", resp2.StatusCode)
	}
}
