package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getrenters/renters-calculator/internal/calculations"
	"github.com/getrenters/renters-calculator/internal/config"
	"github.com/getrenters/renters-calculator/internal/currency"
	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/getrenters/renters-calculator/internal/handlers"
	"github.com/getrenters/renters-calculator/internal/routes"
	"github.com/getrenters/renters-calculator/internal/widget"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		CheckoutURL:  "https://pay.example.com/checkout?ref=widget",
		AmountMin:    500,
		AmountStep:   50,
		MaxPrincipal: 1e9,
		MaxMonths:    600,
	}
	calc := calculations.New(currency.FallbackFormatter{Code: "AED"})
	provider := feeschedule.NewProvider(feeschedule.EmbeddedSource{}, nil)

	app := fiber.New()
	routes.SetupRoutes(app, &handlers.Deps{
		Config:   cfg,
		Schedule: provider,
		Registry: widget.NewRegistry(calc, provider, decimal.NewFromInt(10000), nil),
		Calc:     calc,
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func viewOf(t *testing.T, payload map[string]interface{}) map[string]interface{} {
	t.Helper()
	v, ok := payload["view"].(map[string]interface{})
	require.True(t, ok, "response has no view")
	return v
}

func TestHealthCheck(t *testing.T) {
	app := newApp(t)
	resp, body := do(t, app, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestListBanks(t *testing.T) {
	app := newApp(t)
	resp, body := do(t, app, http.MethodGet, "/api/banks", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	banks, ok := body["banks"].([]interface{})
	require.True(t, ok)
	assert.Len(t, banks, 15)
	first := banks[0].(map[string]interface{})
	assert.Equal(t, "ADCB", first["name"])
	assert.Equal(t, "500.00", first["min_amount"])
}

func TestEstimate(t *testing.T) {
	app := newApp(t)

	t.Run("amount as string", func(t *testing.T) {
		resp, body := do(t, app, http.MethodPost, "/api/estimate", `{"amount":"10000","bank":"ADCB","tenure":12}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		v := viewOf(t, body)
		// (10000 + 10000*0.007*12) / 12 = 903.33
		assert.Equal(t, "AED 903.33", v["monthly"])
		assert.Equal(t, true, v["action_enabled"])
		schedule, ok := body["schedule"].([]interface{})
		require.True(t, ok)
		assert.Len(t, schedule, 12)
	})

	t.Run("amount as number", func(t *testing.T) {
		resp, body := do(t, app, http.MethodPost, "/api/estimate", `{"amount":10000,"bank":"ADCB","tenure":12}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "AED 903.33", viewOf(t, body)["monthly"])
	})

	t.Run("no bank gives placeholder", func(t *testing.T) {
		resp, body := do(t, app, http.MethodPost, "/api/estimate", `{"amount":"10000"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		v := viewOf(t, body)
		assert.Equal(t, "—", v["monthly"])
		assert.Equal(t, false, v["has_estimate"])
	})

	t.Run("below minimum is ineligible", func(t *testing.T) {
		resp, body := do(t, app, http.MethodPost, "/api/estimate", `{"amount":"700","bank":"Ajman Bank","tenure":12}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		v := viewOf(t, body)
		assert.Equal(t, false, v["action_enabled"])
		assert.Equal(t, "Minimum for Ajman Bank is AED 1000.00.", v["min_error"])
	})

	t.Run("unknown bank", func(t *testing.T) {
		resp, _ := do(t, app, http.MethodPost, "/api/estimate", `{"amount":"10000","bank":"Nope","tenure":12}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("tenure not offered", func(t *testing.T) {
		resp, body := do(t, app, http.MethodPost, "/api/estimate", `{"amount":"10000","bank":"ADCB","tenure":18}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["error"], "tenure 18")
	})

	t.Run("negative tenure", func(t *testing.T) {
		resp, _ := do(t, app, http.MethodPost, "/api/estimate", `{"amount":"10000","bank":"ADCB","tenure":-3}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := do(t, app, http.MethodPost, "/api/estimate", `{"amount":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func mount(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, body := do(t, app, http.MethodPost, "/api/widgets", `{"theme":{"accent":"#0a7"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := body["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestWidgetLifecycle(t *testing.T) {
	app := newApp(t)
	id := mount(t, app)

	resp, body := do(t, app, http.MethodGet, "/api/widgets/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := viewOf(t, body)
	assert.Equal(t, true, v["ready"])
	assert.Equal(t, "#0a7", body["theme"].(map[string]interface{})["accent"])

	resp, body = do(t, app, http.MethodPatch, "/api/widgets/"+id, `{"amount":"700","bank":"Ajman Bank","tenure":12}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = viewOf(t, body)
	assert.Equal(t, false, v["action_enabled"])
	assert.NotEmpty(t, v["min_error"])

	resp, body = do(t, app, http.MethodGet, "/api/widgets/"+id+"/checkout", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Minimum for Ajman Bank is AED 1000.00.", body["error"])

	resp, _ = do(t, app, http.MethodPatch, "/api/widgets/"+id, `{"amount":5000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/widgets/"+id+"/checkout", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t,
		"https://pay.example.com/checkout?ref=widget&amount=5000&tenure=12&bank=Ajman+Bank&method=epp",
		resp.Header.Get("Location"))

	resp, _ = do(t, app, http.MethodDelete, "/api/widgets/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/widgets/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateRejectsPrincipalOutOfRange(t *testing.T) {
	app := newApp(t)
	id := mount(t, app)

	_, body := do(t, app, http.MethodPatch, "/api/widgets/"+id, `{"amount":"10000","bank":"ADCB","tenure":12}`)
	before := viewOf(t, body)

	for _, amount := range []string{`"5e9"`, `5e9`, `"1e2000000"`, `"1e-2000000"`} {
		t.Run(amount, func(t *testing.T) {
			resp, body := do(t, app, http.MethodPatch, "/api/widgets/"+id, `{"amount":`+amount+`,"bank":"RAK"}`)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body["error"], "amount")

			resp, body = do(t, app, http.MethodGet, "/api/widgets/"+id, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			v := viewOf(t, body)
			assert.Equal(t, before["monthly"], v["monthly"])
			assert.Equal(t, before["amount"], v["amount"])
			assert.Equal(t, before["banks"], v["banks"], "rejected request changes nothing")
		})
	}

	resp, _ := do(t, app, http.MethodPost, "/api/estimate", `{"amount":"1e2000000","bank":"ADCB","tenure":12}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateIgnoresTenureOutsideSet(t *testing.T) {
	app := newApp(t)
	id := mount(t, app)

	_, body := do(t, app, http.MethodPatch, "/api/widgets/"+id, `{"bank":"ADCB","tenure":12}`)
	before := viewOf(t, body)["monthly"]

	resp, body := do(t, app, http.MethodPatch, "/api/widgets/"+id, `{"tenure":18}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, before, viewOf(t, body)["monthly"])
}

func TestCheckoutWithoutBankIsNoop(t *testing.T) {
	app := newApp(t)
	id := mount(t, app)

	_, body := do(t, app, http.MethodPatch, "/api/widgets/"+id, `{"bank":""}`)
	assert.Equal(t, "—", viewOf(t, body)["monthly"])

	resp, _ := do(t, app, http.MethodGet, "/api/widgets/"+id+"/checkout", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestUnknownWidget(t *testing.T) {
	app := newApp(t)

	for _, tc := range []struct {
		method, target, body string
	}{
		{http.MethodGet, "/api/widgets/missing", ""},
		{http.MethodPatch, "/api/widgets/missing", `{"amount":"1"}`},
		{http.MethodDelete, "/api/widgets/missing", ""},
		{http.MethodGet, "/api/widgets/missing/checkout", ""},
	} {
		resp, _ := do(t, app, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.method+" "+tc.target)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp(t)
	do(t, app, http.MethodGet, "/api/banks", "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "api_calls_total")
}
