package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const priceStreamInterval = 2 * time.Second

// priceStream pushes the live price for one symbol over a websocket until
// the client disconnects.
func (s *Server) priceStream(c *gin.Context) {
	symbol := strings.ToUpper(c.Query("symbol"))
	if symbol == "" {
		if len(s.meta.Symbols) == 0 {
			respondError(c, http.StatusBadRequest, "symbol query parameter is required")
			return
		}
		symbol = s.meta.Symbols[0]
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	ticker := time.NewTicker(priceStreamInterval)
	defer ticker.Stop()

	for {
		price, err := s.market.Price(ctx, symbol)
		if err != nil {
			_ = conn.WriteJSON(gin.H{"symbol": symbol, "error": err.Error()})
			return
		}
		if err := conn.WriteJSON(gin.H{
			"symbol": symbol,
			"price":  price,
			"ts":     time.Now().UnixMilli(),
		}); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
