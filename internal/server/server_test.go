package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-player-report/internal/chart"
	"github.com/pable/go-player-report/internal/config"
	"github.com/pable/go-player-report/internal/dashboard"
	"github.com/pable/go-player-report/internal/logging"
)

const (
	goodCSV = `Date,Min,Gls,Ast,Sh,SoT,xG,Venue,Opponent
2023-01-01,90,2,1,5,3,1.5,1,A
2023-01-08,80,0,0,0,0,0.2,0,B
`
	homeOnlyCSV = `Date,Min,Gls,Ast,Sh,SoT,xG,Venue,Opponent
2023-02-01,90,1,0,2,1,0.4,1,C
`
	badCSV = `Date,Min,Gls,Ast,Sh,SoT,xG,Venue,Opponent
2023-01-01,90,2,1,5,3,1.5,1,A
2023-01-08,80,-1,0,0,0,0.2,0,B
`
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"good.csv":     goodCSV,
		"yira.csv":     goodCSV,
		"homeonly.csv": homeOnlyCSV,
		"bad.csv":      badCSV,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	cfg := config.Default()
	cfg.DataDir = dir
	cfg.Seasons = []int{2022, 2023}
	cfg.Players = []config.Player{
		{Name: "Good", File: "good.csv"},
		{Name: "Yira Sor", File: "yira.csv"},
		{Name: "HomeOnly", File: "homeonly.csv"},
		{Name: "Bad", File: "bad.csv"},
		{Name: "Gone", File: "missing.csv"},
		{Name: "AC/DC?", File: "good.csv"},
	}
	require.NoError(t, cfg.Validate())

	gen := dashboard.NewGenerator(cfg, logging.NewNop())
	return New(gen, logging.NewNop()).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthCheck(t *testing.T) {
	rec := get(t, newTestServer(t), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestListPlayers(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/players")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["players"], 6)
	assert.EqualValues(t, 2023, body["default_season"])
}

func TestIndex(t *testing.T) {
	rec := get(t, newTestServer(t), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/players/Yira%20Sor?season=2023")
}

func TestPlayerPage(t *testing.T) {
	rec := get(t, newTestServer(t), "/players/Good?season=2022")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Average Goals (Home)")
	assert.Contains(t, body, "Good_data_2022.csv")
	assert.Contains(t, body, "/players/Good/charts?season=2022")
}

func TestPlayerPage_EscapesPathSegment(t *testing.T) {
	h := newTestServer(t)
	rec := get(t, h, "/players/AC%2FDC%3F?season=2023")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "/players/AC%2FDC%3F/download?season=2023")
	assert.Contains(t, body, "/players/AC%2FDC%3F/charts?season=2023")
	assert.NotContains(t, body, "/players/AC/DC?")

	rec = get(t, h, "/players/AC%2FDC%3F/report.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AC/DC?", decode(t, rec)["report"].(map[string]interface{})["player"])
}

func TestPlayerPage_NoDataForEmptyPartition(t *testing.T) {
	rec := get(t, newTestServer(t), "/players/HomeOnly")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no data")
}

func TestStatusMapping(t *testing.T) {
	h := newTestServer(t)
	cases := []struct {
		target string
		status int
		msg    string
	}{
		{"/players/Nobody", http.StatusNotFound, "unknown player"},
		{"/players/Good?season=1999", http.StatusNotFound, "unknown season"},
		{"/players/Good?season=next", http.StatusBadRequest, "season"},
		{"/players/Bad", http.StatusUnprocessableEntity, "row 2"},
		{"/players/Bad/download", http.StatusUnprocessableEntity, "Gls"},
		{"/players/Gone/report.json", http.StatusInternalServerError, "Internal Server Error"},
		{"/players/Good/download?format=pdf", http.StatusBadRequest, "unsupported format"},
		{"/players/Good/download?index=maybe", http.StatusBadRequest, "index"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			rec := get(t, h, tc.target)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			body := decode(t, rec)
			assert.EqualValues(t, tc.status, body["code"])
			assert.Contains(t, body["message"], tc.msg)
		})
	}
}

func TestPlayerReportJSON(t *testing.T) {
	h := newTestServer(t)

	body := decode(t, get(t, h, "/players/Good/report.json"))
	assert.EqualValues(t, 2023, body["season"])
	rep := body["report"].(map[string]interface{})
	assert.EqualValues(t, 2, rep["total_goals"])
	assert.EqualValues(t, 1, rep["average_goals"])
	assert.EqualValues(t, 2, rep["average_goals_home"])
	assert.EqualValues(t, 0, rep["average_goals_away"])

	body = decode(t, get(t, h, "/players/HomeOnly/report.json"))
	rep = body["report"].(map[string]interface{})
	assert.Nil(t, rep["average_goals_away"], "empty partition encodes as null")
}

func TestPlayerCharts(t *testing.T) {
	rec := get(t, newTestServer(t), "/players/Good/charts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), chart.TitleExpectedVsActual)
	assert.Contains(t, rec.Body.String(), chart.TitleGoalsByOpponent)
}

func TestDownload(t *testing.T) {
	h := newTestServer(t)

	rec := get(t, h, "/players/Yira%20Sor/download?index=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="Yira Sor_data_2023.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), ",Date,Min,"), rec.Body.String())

	rec = get(t, h, "/players/Good/download?season=2022")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Good_data_2022.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Min,"))

	rec = get(t, h, "/players/Good/download?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Good_data_2023.xlsx")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
}
