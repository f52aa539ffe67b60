package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
	"contract_calc/internal/report"
	"contract_calc/pkg/logger"
)

const (
	wsWriteWait = 10 * time.Second
	wsReadLimit = 64 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage — кадр стрима: шаги по одному, затем итог или ошибка.
type StreamMessage struct {
	Type    string                   `json:"type"` // step | summary | error
	Step    *models.StepRecord       `json:"step,omitempty"`
	Result  *models.MartingaleResult `json:"result,omitempty"`
	Display *report.SummaryView      `json:"display,omitempty"`
	Error   string                   `json:"error,omitempty"`
	Fields  map[string]string        `json:"fields,omitempty"`
}

// HandleStream — /ws/martingale. Клиент шлёт JSON с параметрами (как в POST API),
// на каждый запрос получает поток кадров. Соединение живёт, пока клиент не закроет.
func (a *API) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws upgrade: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	a.state.WSConnect()
	defer a.state.WSDisconnect()

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("ws read: %v", err)
			}
			return
		}

		p := a.defaults.Strategy
		if err := sonic.Unmarshal(data, &p); err != nil {
			if err := writeFrame(conn, StreamMessage{Type: "error", Error: "bad request: " + err.Error()}); err != nil {
				return
			}
			continue
		}

		var writeErr error
		res, err := a.calc.MartingaleStream(ctx, 0, p, func(rec models.StepRecord) {
			if writeErr != nil {
				return
			}
			writeErr = writeFrame(conn, StreamMessage{Type: "step", Step: &rec})
		})
		if writeErr != nil {
			return
		}
		if err != nil {
			msg := StreamMessage{Type: "error", Error: err.Error()}
			var verr calc.ValidationErrors
			if errors.As(err, &verr) {
				msg.Error = "invalid parameters"
				msg.Fields = verr.Fields()
			}
			if err := writeFrame(conn, msg); err != nil {
				return
			}
			continue
		}

		a.state.TouchCalculation(time.Now())
		view := report.BuildSummary(res)
		if err := writeFrame(conn, StreamMessage{Type: "summary", Result: res, Display: &view}); err != nil {
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
