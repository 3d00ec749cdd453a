package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"nftmarket/log"
	"nftmarket/service"
)

const (
	historyBatch = 500
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func Events(e *gin.Engine, h *Handler) {
	e.GET("/events", h.events)
}

// @Tags         events
// @Summary      ledger event feed
// @Description  Websocket stream of ledger events as JSON messages. Stored events after seq `from` are sent first, then live ones.
// @Param        from  query  int  false  "last seq the client already has, default 0"
// @Success      101
// @Router       /events [get]
func (h *Handler) events(c *gin.Context) {
	req := struct {
		From uint64 `form:"from"`
	}{}
	if err := c.BindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// subscribe before reading history so nothing falls in between
	live, unsubscribe := h.market.Subscribe(256)
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	last, err := h.catchUp(c, conn, req.From)
	if err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case ev, ok := <-live:
			if !ok {
				return
			}
			if ev.Seq > last+1 {
				// events were dropped while the buffer was full
				if last, err = h.catchUp(c, conn, last); err != nil {
					return
				}
			}
			if ev.Seq <= last {
				continue
			}
			if err := send(conn, service.NewEventRes(ev)); err != nil {
				return
			}
			last = ev.Seq
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// catchUp sends the stored events after seq last and returns the new last.
func (h *Handler) catchUp(c *gin.Context, conn *websocket.Conn, last uint64) (uint64, error) {
	for {
		batch, err := h.market.History(c.Request.Context(), last, historyBatch)
		if err != nil {
			log.Errorf("event history: %v", err)
			return last, err
		}
		for _, ev := range batch {
			if err := send(conn, service.NewEventRes(ev)); err != nil {
				return last, err
			}
			last = ev.Seq
		}
		if len(batch) < historyBatch {
			return last, nil
		}
	}
}

func send(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
