package server

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/runway/internal/model"
	"github.com/theirongolddev/runway/internal/planner"
)

func newTestServer(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	svc := New(Config{
		Months:   12,
		Baseline: model.Baseline{Cash: 600000, MonthlyRevenue: 20000, MonthlyExpenses: 40000},
		Logger:   quietLogger(),
	})
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return svc, srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/v1/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sr := decode[SessionResponse](t, resp)
	require.NotEmpty(t, sr.ID)
	return sr.ID
}

func TestHealth(t *testing.T) {
	_, srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}

func TestSessionStartsWithDefaultRoster(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/v1/sessions/"+id+"/roles", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rr := decode[RolesResponse](t, resp)

	assert.Equal(t, id, rr.SessionID)
	assert.Equal(t, planner.DefaultRoster(), rr.Roles)
	assert.Zero(t, rr.TotalNewHires)
}

func TestPatchRoleMergesAndClamps(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/eng", `{"count":2,"start_month":99}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rr := decode[RolesResponse](t, resp)

	eng := rr.Roles[0]
	assert.Equal(t, "eng", eng.ID)
	assert.Equal(t, 2, eng.Count)
	assert.Equal(t, model.MaxStartMonth, eng.StartMonth)
	assert.Equal(t, "Engineer", eng.Title, "fields absent from the patch are kept")
	assert.InDelta(t, 12000, eng.Salary, 1e-9)
	assert.Equal(t, 2, rr.TotalNewHires)
	assert.InDelta(t, 24000, rr.TotalMonthlyIncrease, 1e-9)
}

func TestPatchRoleCannotRename(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/sales", `{"id":"hacked","count":1}`)
	rr := decode[RolesResponse](t, resp)
	assert.Equal(t, "sales", rr.Roles[1].ID)
	assert.Equal(t, 1, rr.Roles[1].Count)
}

func TestPatchUnknownRoleIsNoOp(t *testing.T) {
	svc, srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/ghost", `{"count":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rr := decode[RolesResponse](t, resp)
	assert.Equal(t, planner.DefaultRoster(), rr.Roles)

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	require.Len(t, svc.events, 1, "only session_created, no role_updated")
	assert.Equal(t, EventSessionCreated, svc.events[0].Type)
}

func TestPatchBadJSON(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/eng", `{"count":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/eng", `{"count":"many"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPatchRejectsNonObject(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)

	for _, body := range []string{`null`, `[]`, `"eng"`, `42`} {
		resp := do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/eng", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %s", body)
	}

	resp := do(t, http.MethodGet, srv.URL+"/v1/sessions/"+id+"/roles", "")
	rr := decode[RolesResponse](t, resp)
	assert.Equal(t, planner.DefaultRoster(), rr.Roles)
}

func TestConcurrentPatchesKeepBothFields(t *testing.T) {
	for range 50 {
		sess := newSession()

		var wg sync.WaitGroup
		for _, body := range []string{`{"count":3}`, `{"salary":15000}`} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _, err := sess.patchRole("eng", []byte(body))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		eng, ok := sess.planner.Role("eng")
		require.True(t, ok)
		require.Equal(t, 3, eng.Count)
		require.InDelta(t, 15000, eng.Salary, 1e-9)
	}
}

func TestUnknownSession(t *testing.T) {
	_, srv := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/sessions/nope/roles"},
		{http.MethodPatch, "/v1/sessions/nope/roles/eng"},
		{http.MethodPost, "/v1/sessions/nope/reset"},
		{http.MethodGet, "/v1/sessions/nope/impact"},
		{http.MethodGet, "/v1/sessions/nope/runway"},
		{http.MethodDelete, "/v1/sessions/nope"},
	} {
		resp := do(t, tc.method, srv.URL+tc.path, `{}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
		er := decode[errorResponse](t, resp)
		assert.Equal(t, "unknown session", er.Error)
	}
}

func TestImpactAndReset(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/v1/sessions/" + id

	do(t, http.MethodPatch, base+"/roles/eng", `{"count":2,"start_month":1}`)
	do(t, http.MethodPatch, base+"/roles/sales", `{"count":1,"start_month":3}`)

	resp := do(t, http.MethodGet, base+"/impact?months=4", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ir := decode[ImpactResponse](t, resp)
	assert.Equal(t, 4, ir.Months)
	assert.InDelta(t, 32000, ir.TotalMonthlyIncrease, 1e-9)
	assert.Equal(t, []float64{24000, 24000, 32000, 32000}, ir.ImpactByMonth)
	require.Len(t, ir.HireEvents, 2)
	assert.Equal(t, "eng", ir.HireEvents[0].RoleID)
	assert.InDelta(t, 32000, ir.HireEvents[1].CumulativeImpact, 1e-9)

	resp = do(t, http.MethodGet, base+"/impact?months=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/reset", "")
	rr := decode[RolesResponse](t, resp)
	assert.Equal(t, planner.DefaultRoster(), rr.Roles)
}

func TestRunwayUsesServerBaseline(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/v1/sessions/" + id

	resp := do(t, http.MethodGet, base+"/runway", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decode[model.RunwaySummary](t, resp)
	assert.Len(t, s.Months, 12)
	assert.Equal(t, model.SourceLocal, s.Source)
	assert.InDelta(t, 600000-12*20000, s.EndingCash, 1e-6)

	do(t, http.MethodPatch, base+"/roles/eng", `{"count":5}`)
	resp = do(t, http.MethodGet, base+"/runway?months=6", "")
	s = decode[model.RunwaySummary](t, resp)
	assert.Len(t, s.Months, 6)
	assert.InDelta(t, 600000-6*80000, s.EndingCash, 1e-6)
}

func TestDeleteSession(t *testing.T) {
	svc, srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodDelete, srv.URL+"/v1/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, svc.snapshotStatus().Sessions)

	resp = do(t, http.MethodGet, srv.URL+"/v1/sessions/"+id+"/roles", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventsAndStatus(t *testing.T) {
	_, srv := newTestServer(t)
	id := createSession(t, srv)
	do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/eng", `{"count":1}`)
	do(t, http.MethodPatch, srv.URL+"/v1/sessions/"+id+"/roles/eng", `{"count":1}`) // unchanged

	resp := do(t, http.MethodGet, srv.URL+"/v1/events", "")
	events := decode[[]Event](t, resp)
	require.Len(t, events, 2)
	assert.Equal(t, EventRoleUpdated, events[1].Type)
	assert.Equal(t, "eng", events[1].RoleID)
	assert.Equal(t, 1, events[1].Delta.TotalNewHires)
	assert.InDelta(t, 12000, events[1].Snapshot.TotalMonthlyIncrease, 1e-9)

	resp = do(t, http.MethodGet, srv.URL+"/v1/status", "")
	st := decode[Status](t, resp)
	assert.Equal(t, 1, st.Sessions)
	assert.Equal(t, 2, st.EventCount)
	assert.Equal(t, 12, st.Months)
}

func TestStreamDeliversEvents(t *testing.T) {
	_, srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, Event) {
		var typ string
		var ev Event
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				typ = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
			case line == "":
				return typ, ev
			}
		}
	}

	typ, _ := readEvent()
	require.Equal(t, EventHello, typ)

	id := createSession(t, srv)
	typ, ev := readEvent()
	assert.Equal(t, EventSessionCreated, typ)
	assert.Equal(t, id, ev.SessionID)
}

func TestMergeRolePatchNullClearsTitle(t *testing.T) {
	role := model.Role{ID: "eng", Title: "Engineer", Salary: 100, Count: 1, StartMonth: 2}
	patch, err := mergeRolePatch(role, []byte(`{"title":null,"salary":250}`))
	require.NoError(t, err)
	assert.Equal(t, "", *patch.Title)
	assert.InDelta(t, 250, *patch.Salary, 1e-9)
	assert.Equal(t, 1, *patch.Count)
	assert.Equal(t, 2, *patch.StartMonth)

	_, err = mergeRolePatch(role, bytes.TrimSpace([]byte(`{"count":"x"}`)))
	assert.Error(t, err)

	_, err = mergeRolePatch(role, []byte(` null `))
	assert.ErrorIs(t, err, errPatchNotObject)
}
