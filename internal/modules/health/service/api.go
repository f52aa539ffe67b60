package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
	"contract_calc/internal/report"
	"contract_calc/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Calculator — то, что API берёт у сервиса расчётов.
type Calculator interface {
	Martingale(ctx context.Context, userID int64, p models.StrategyParameters) (*models.MartingaleResult, error)
	MartingaleStream(ctx context.Context, userID int64, p models.StrategyParameters, onStep func(models.StepRecord)) (*models.MartingaleResult, error)
	Standard(ctx context.Context, userID int64, p models.StandardTradeParameters) (models.StandardTradeResult, error)
}

// API — HTTP-обёртка калькуляторов. Пропущенные поля берутся из дефолтов конфига.
type API struct {
	calc     Calculator
	state    *State
	defaults models.CalculatorSettings
}

func NewAPI(c Calculator, state *State, defaults models.StrategyParameters) *API {
	return &API{
		calc:     c,
		state:    state,
		defaults: models.NewUserSettings(0, defaults).Settings,
	}
}

type MartingaleResponse struct {
	Result  *models.MartingaleResult `json:"result"`
	Display report.SummaryView       `json:"display"`
}

type StandardResponse struct {
	Params models.StandardTradeParameters `json:"params"`
	Result models.StandardTradeResult     `json:"result"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (a *API) HandleMartingale(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	p, err := a.strategyFromRequest(r)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	res, err := a.calc.Martingale(r.Context(), 0, p)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	a.state.TouchCalculation(time.Now())

	writeJSON(w, http.StatusOK, MartingaleResponse{
		Result:  res,
		Display: report.BuildSummary(res),
	})
}

func (a *API) HandleContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	p, err := a.standardFromRequest(r)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}

	res, err := a.calc.Standard(r.Context(), 0, p)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	a.state.TouchCalculation(time.Now())

	writeJSON(w, http.StatusOK, StandardResponse{Params: p, Result: res})
}

// strategyFromRequest принимает JSON (ключи snake_case) или форму с id полей.
func (a *API) strategyFromRequest(r *http.Request) (models.StrategyParameters, error) {
	if isForm(r) {
		values, err := formValues(r)
		if err != nil {
			return models.StrategyParameters{}, err
		}
		merged := calc.StrategyForm(a.defaults.Strategy)
		for k, v := range values {
			merged[k] = v
		}
		return calc.ParseStrategyForm(merged)
	}

	p := a.defaults.Strategy
	if err := decodeBody(r, &p); err != nil {
		return models.StrategyParameters{}, err
	}
	return p, nil
}

func (a *API) standardFromRequest(r *http.Request) (models.StandardTradeParameters, error) {
	if isForm(r) {
		values, err := formValues(r)
		if err != nil {
			return models.StandardTradeParameters{}, err
		}
		return calc.ParseStandardForm(values)
	}

	p := a.defaults.Standard
	if err := decodeBody(r, &p); err != nil {
		return models.StandardTradeParameters{}, err
	}
	return p, nil
}

type badRequestError struct{ err error }

func (e badRequestError) Error() string { return "bad request: " + e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return badRequestError{err}
	}
	if len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, dst); err != nil {
		return badRequestError{err}
	}
	return nil
}

func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded"
}

func formValues(r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, badRequestError{err}
	}
	out := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		out[k] = r.PostForm.Get(k)
	}
	return out, nil
}

func statusOf(err error) int {
	var verr calc.ValidationErrors
	var bad badRequestError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &bad):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var verr calc.ValidationErrors
	if errors.As(err, &verr) {
		resp.Error = "invalid parameters"
		resp.Fields = verr.Fields()
	}
	if status >= http.StatusInternalServerError {
		logger.Error("api: %v", err)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		logger.Error("api: marshal response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
