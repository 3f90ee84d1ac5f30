package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/christian6134/byte-buddy/services"
)

type RealtimeController struct {
	RT       *services.RealtimeHub
	Sessions *services.SessionManager
}

func NewRealtimeController(rt *services.RealtimeHub, sm *services.SessionManager) *RealtimeController {
	return &RealtimeController{RT: rt, Sessions: sm}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// GET /realtime/ws — streams full store snapshots (foods, meal entries,
// profile) and reminder events to the connected client.
func (rc *RealtimeController) StreamWS(c *gin.Context) {
	uid := c.GetString("userID")

	// make sure the user's mirrors are running before we start streaming
	st, err := rc.Sessions.Begin(uid)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.WSClient{UserID: uid, Conn: conn}
	rc.RT.Register(cl)

	// current state immediately; further snapshots arrive via the hub
	rc.RT.BroadcastEvent(uid, "foods.snapshot", st.Foods.Foods())
	rc.RT.BroadcastEvent(uid, "mealEntries.snapshot", st.Meals.Entries())
	rc.RT.BroadcastEvent(uid, "profile.snapshot", st.Settings.Profile())

	// ping to keep connections alive through some proxies
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				rc.RT.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
