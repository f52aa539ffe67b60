package service

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_calc/internal/models"
	calculator "contract_calc/internal/modules/calculator/service"
	"contract_calc/internal/modules/history/service/memory"
	"contract_calc/pkg/logger"
)

func defaults() models.StrategyParameters {
	return models.StrategyParameters{
		Direction:             models.DirectionLong,
		InitialPrice:          100,
		AddDiffPercent:        2,
		TpPercent:             1.5,
		InitialMargin:         10,
		AddMarginBase:         10,
		MaxAdds:               3,
		Leverage:              10,
		TakerFee:              0.05,
		MakerFee:              0.02,
		MaintenanceMarginRate: 0.5,
		FundingRate:           0.01,
		FundingSettlements:    3,
		AmountMultiplier:      1.5,
		DiffMultiplier:        1.2,
	}
}

func newTestAPI(t *testing.T) (*API, *State) {
	t.Helper()
	logger.InitNop()
	svc := calculator.NewService(
		memory.NewCalculations(10),
		calculator.NewMetrics(prometheus.NewRegistry()),
		10,
	)
	state := NewState()
	return NewAPI(svc, state, defaults()), state
}

func TestAPI_MartingaleJSON(t *testing.T) {
	api, state := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/martingale",
		strings.NewReader(`{"initial_price": 200, "max_adds": 2}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	api.HandleMartingale(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp MartingaleResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Steps, 3)
	assert.Equal(t, 200.0, resp.Result.Params.InitialPrice)
	// остальное из дефолтов
	assert.Equal(t, 1.5, resp.Result.Params.TpPercent)
	assert.Equal(t, 2, resp.Display.StepsAccepted)
	assert.Equal(t, int64(1), state.Calculations())
}

func TestAPI_MartingaleValidation(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/martingale",
		strings.NewReader(`{"initial_price": -1, "max_adds": 11, "direction": "up"}`))
	rec := httptest.NewRecorder()

	api.HandleMartingale(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid parameters", resp.Error)
	assert.Contains(t, resp.Fields, "initial-price")
	assert.Contains(t, resp.Fields, "direction")
	assert.Equal(t, "must be <= 10", resp.Fields["max-adds"])
}

func TestAPI_MartingaleForm(t *testing.T) {
	api, _ := newTestAPI(t)

	form := url.Values{}
	form.Set("direction", "short")
	form.Set("initial-price", "2500,5")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/martingale", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	api.HandleMartingale(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp MartingaleResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.DirectionShort, resp.Result.Params.Direction)
	assert.Equal(t, 2500.5, resp.Result.Params.InitialPrice)
}

func TestAPI_BadJSON(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/martingale", strings.NewReader(`{"initial_price":`))
	rec := httptest.NewRecorder()

	api.HandleMartingale(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.HandleContract(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contract", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestAPI_Contract(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contract", strings.NewReader(
		`{"direction":"short","entry_price":100,"exit_price":90,"quantity":2,"leverage":5,"taker_fee_rate":0,"maintenance_margin_rate":0}`))
	rec := httptest.NewRecorder()

	api.HandleContract(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp StandardResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 20, resp.Result.Pnl, 1e-9)
	assert.InDelta(t, 40, resp.Result.InitialMargin, 1e-9)
	assert.InDelta(t, 50, resp.Result.Roe, 1e-9)
	require.NotNil(t, resp.Result.LiquidationPrice)
	assert.InDelta(t, 120, *resp.Result.LiquidationPrice, 1e-9)
}

func TestAPI_ContractFormValidation(t *testing.T) {
	api, _ := newTestAPI(t)

	form := url.Values{}
	form.Set("direction", "long")
	form.Set("entry-price", "abc")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contract", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	api.HandleContract(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "must be a number", resp.Fields["entry-price"])
	assert.Contains(t, resp.Fields, "exit-price")
}

func TestAPI_StreamSteps(t *testing.T) {
	api, state := newTestAPI(t)

	srv := httptest.NewServer(http.HandlerFunc(api.HandleStream))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"max_adds": 2}`)))

	var types []string
	var steps []int
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg StreamMessage
		require.NoError(t, sonic.Unmarshal(data, &msg))
		types = append(types, msg.Type)
		if msg.Type == "step" {
			steps = append(steps, msg.Step.Step)
			continue
		}
		require.Equal(t, "summary", msg.Type)
		require.NotNil(t, msg.Result)
		assert.Len(t, msg.Result.Steps, 3)
		break
	}
	assert.Equal(t, []int{0, 1, 2}, steps)
	assert.Equal(t, []string{"step", "step", "step", "summary"}, types)

	// ошибка валидации не рвёт соединение
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"leverage": 0.5}`)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg StreamMessage
	require.NoError(t, sonic.Unmarshal(data, &msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Fields, "leverage")

	assert.Equal(t, int64(1), state.WSClients())
}
