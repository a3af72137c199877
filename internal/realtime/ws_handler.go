package realtime

import (
	"net/http"
	"strings"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"
)

// WSHandler bridges the Hub to WebSocket clients. Clients connect to /ws
// with their JWT and receive notification events as JSON text frames; no
// client-initiated request/response exists on this channel.
type WSHandler struct {
	hub       *Hub
	jwtSecret string
}

// NewWSHandler creates a new WSHandler. jwtSecret must match the secret
// used for signing session tokens.
func NewWSHandler(hub *Hub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: jwtSecret}
}

// RegisterRoutes registers the WebSocket endpoint
func (h *WSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the request and streams hub events to the client until
// it disconnects.
func (h *WSHandler) Serve(c echo.Context) error {
	userID, err := h.authenticate(c)
	if err != nil {
		return err
	}

	websocket.Handler(func(ws *websocket.Conn) {
		h.serveConn(ws, userID)
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

func (h *WSHandler) serveConn(ws *websocket.Conn, userID uint) {
	defer ws.Close()

	conn := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(userID, conn)

	// Drain incoming frames so a client close is noticed promptly
	done := make(chan struct{})
	go func() {
		defer close(done)
		var msg string
		for {
			if err := websocket.Message.Receive(ws, &msg); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case data, ok := <-conn.Receive():
			if !ok {
				return
			}
			if err := websocket.Message.Send(ws, string(data)); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// authenticate accepts the JWT either as a "token" query parameter
// (browser WebSocket clients cannot set headers) or as a Bearer header.
func (h *WSHandler) authenticate(c echo.Context) (uint, error) {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		authHeader := c.Request().Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return claims.UserID, nil
}
