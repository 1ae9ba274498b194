package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"killtest/internal/cache"
	"killtest/internal/config"
	"killtest/internal/metrics"
	"killtest/internal/model"
	"killtest/internal/service"
	"killtest/internal/transport/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weakDoc = `{
  "idea_definition": {"one_liner": "AI meeting notes for dentists"},
  "scoring": {"copycat_risk": 9, "platform_risk": 8, "lock_in_strength": 2, "pricing_power": 3}
}`

type testAPI struct {
	handler    http.Handler
	assessment *service.AssessmentService
	auth       *service.AuthService
	metrics    *metrics.Metrics
	hub        *ws.Hub
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	m := metrics.New()
	auth := service.NewAuthService("secret", time.Hour)
	analyzer := service.NewAnalyzerService(&config.AIConfig{Model: "gpt-4o-mini", MaxTokens: 1024}, m, nil)
	assessment := service.NewAssessmentService(cache.NewMemoryStore[service.Session](0), nil, analyzer, auth, m, nil)
	hub := ws.NewHub(nil)
	assessment.SetBroadcaster(hub)
	t.Cleanup(func() {
		assessment.Wait()
		hub.Close()
	})

	return &testAPI{
		handler: NewRouter(&Container{
			AuthService:       auth,
			AssessmentService: assessment,
			AnalyzerService:   analyzer,
			Metrics:           m,
			WSHub:             hub,
		}),
		assessment: assessment,
		auth:       auth,
		metrics:    m,
		hub:        hub,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *testAPI) createSession(t *testing.T) (string, string) {
	t.Helper()
	rec := a.do(t, "POST", "/v1/sessions", "", `{"language":"en"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	return body["sessionId"].(string), body["token"].(string)
}

func TestHealthAndCORS(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = api.do(t, "OPTIONS", "/v1/sessions/abc/start", "", "")
	assert.Equal(t, http.StatusOK, rec.Code, "preflight skips auth")
}

func TestCORSAllowList(t *testing.T) {
	h := corsMiddleware([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestQuestionsLocalized(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "GET", "/v1/questions?lang=es", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "es", body["language"])
	assert.EqualValues(t, 23, body["total"])

	rec = api.do(t, "GET", "/v1/questions/copycatVelocity", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	q := decode(t, rec)
	assert.Equal(t, "radio", q["type"])
	require.NotNil(t, q["helper"])
	assert.Equal(t, "How to estimate copycat velocity", q["helper"].(map[string]interface{})["title"])

	rec = api.do(t, "GET", "/v1/questions/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeOfflineFallback(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "POST", "/v1/analyze", "", `{"answers":{"copycatRiskScore":9,"platformRiskScore":9,"lockInStrengthScore":2,"pricingPowerScore":2},"language":"en"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.VerdictKill, resp.Verdict)
	assert.Equal(t, 60.0, resp.Confidence)
	assert.Equal(t, model.SourceOffline, resp.Source)
	assert.NotNil(t, resp.Contradictions)

	rec = api.do(t, "POST", "/v1/analyze", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionRoutesRequireMatchingToken(t *testing.T) {
	api := newTestAPI(t)
	id, _ := api.createSession(t)
	_, otherToken := api.createSession(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/v1/sessions/"+id, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(t, "GET", "/v1/sessions/"+id, "garbage", "").Code)
	assert.Equal(t, http.StatusForbidden, api.do(t, "GET", "/v1/sessions/"+id, otherToken, "").Code)

	ghost, err := api.auth.GenerateSessionToken("ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, api.do(t, "GET", "/v1/sessions/ghost", ghost, "").Code)
}

func TestQuestionnaireFlow(t *testing.T) {
	api := newTestAPI(t)
	id, token := api.createSession(t)
	base := "/v1/sessions/" + id

	rec := api.do(t, "POST", base+"/begin", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "begin before start")

	require.Equal(t, http.StatusOK, api.do(t, "POST", base+"/start", token, "").Code)
	rec = api.do(t, "POST", base+"/begin", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "in-progress", body["state"])
	assert.Equal(t, "ideaDefinition", body["question"].(map[string]interface{})["id"])
	assert.Equal(t, false, body["canProceed"])

	rec = api.do(t, "POST", base+"/next", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "required question unanswered")

	rec = api.do(t, "PUT", base+"/answers/ideaDefinition", token, `{"value":"AI notes for dentists"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["canProceed"])

	rec = api.do(t, "PUT", base+"/answers/unknown", token, `{"value":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, "PUT", base+"/answers/ideaDefinition", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, "POST", base+"/next", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["cursor"])

	rec = api.do(t, "POST", base+"/submit", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "submit only from the last question")

	rec = api.do(t, "PUT", base+"/language", token, `{"language":"es-MX"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "es", decode(t, rec)["language"])

	rec = api.do(t, "POST", base+"/reset", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not-started", decode(t, rec)["state"])
}

func TestImportProducesResult(t *testing.T) {
	api := newTestAPI(t)
	id, token := api.createSession(t)
	base := "/v1/sessions/" + id

	rec := api.do(t, "GET", base+"/result", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, "POST", base+"/import", token, weakDoc)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "analyzing", body["state"])
	assert.Equal(t, "kill", body["result"].(map[string]interface{})["verdict"])

	api.assessment.Wait()

	rec = api.do(t, "GET", base+"/result", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "completed", body["state"])
	view := body["view"].(map[string]interface{})
	assert.Equal(t, "kill", view["verdict"])
	assert.Equal(t, "red", view["color"])
	assert.Len(t, view["weakSignals"], 4)

	rec = api.do(t, "GET", base+"/summary?lang=es", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "AI meeting notes for dentists")

	rec = api.do(t, "GET", "/v1/results/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kill", decode(t, rec)["view"].(map[string]interface{})["verdict"])
}

func TestImportValidationErrors(t *testing.T) {
	api := newTestAPI(t)
	id, token := api.createSession(t)

	req := httptest.NewRequest("POST", "/v1/sessions/"+id+"/import", strings.NewReader(`{"meta":{}}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "Faltan campos requeridos")

	rec = api.do(t, "POST", "/v1/import/validate", "", `{"idea_definition": `)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid document format", decode(t, rec)["kind"])
}

func TestImportValidateAndTemplate(t *testing.T) {
	api := newTestAPI(t)

	yamlDoc := "idea_definition:\n  one_liner: Invoice chaser\nscoring:\n  lock_in_strength: 8\n  pricing_power: 8\n  copycat_risk: 3\n  platform_risk: 2\n"
	rec := api.do(t, "POST", "/v1/import/validate?format=yaml", "", yamlDoc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "build", body["preview"].(map[string]interface{})["verdict"])

	rec = api.do(t, "GET", "/v1/import/template", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, json.Valid(rec.Body.Bytes()))

	rec = api.do(t, "GET", "/v1/import/template?format=yaml", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "idea_definition:")
}

func TestResultsArchiveDisabled(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusServiceUnavailable, api.do(t, "GET", "/v1/results", "", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, api.do(t, "GET", "/v1/results/stats", "", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, "GET", "/v1/results/missing", "", "").Code)
}

func TestResultStatsFromTally(t *testing.T) {
	api := newTestAPI(t)
	tally := cache.NewMemoryTally()
	api.assessment.SetTally(tally)
	api.handler = NewRouter(&Container{
		AuthService:       api.auth,
		AssessmentService: api.assessment,
		AnalyzerService:   service.NewAnalyzerService(&config.AIConfig{Model: "gpt-4o-mini", MaxTokens: 1024}, nil, nil),
		Tally:             tally,
		WSHub:             api.hub,
	})

	id, token := api.createSession(t)
	require.Equal(t, http.StatusAccepted, api.do(t, "POST", "/v1/sessions/"+id+"/import", token, weakDoc).Code)
	api.assessment.Wait()

	rec := api.do(t, "GET", "/v1/results/stats", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "tally", body["source"])
	assert.EqualValues(t, 1, body["total"])
	assert.Equal(t, map[string]interface{}{"kill": 1.0, "flip": 0.0, "build": 0.0, "bet": 0.0}, body["byVerdict"])
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.do(t, "GET", "/health", "", "")

	rec := api.do(t, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}
