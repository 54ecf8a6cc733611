package ws

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"swap-service/internal/auth"
	"swap-service/internal/models"
	"swap-service/internal/observability"
	"swap-service/internal/repositories"
)

// SwapWebSocketHandler upgrades participants of accepted swaps into the
// swap's chat room for live message delivery.
type SwapWebSocketHandler struct {
	hub      *Hub
	swapRepo repositories.SwapRepository
	tokens   *auth.TokenManager
}

// NewSwapWebSocketHandler constructs a SwapWebSocketHandler.
func NewSwapWebSocketHandler(hub *Hub, swapRepo repositories.SwapRepository, tokens *auth.TokenManager) *SwapWebSocketHandler {
	return &SwapWebSocketHandler{hub: hub, swapRepo: swapRepo, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle validates the caller, checks the swap gate, and registers the client.
func (h *SwapWebSocketHandler) Handle(c *gin.Context) {
	swapID, err := strconv.Atoi(c.Param("swap_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid swap ID"})
		return
	}

	ctx, span := otel.Tracer("swap-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	userID, err := h.validateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token."})
		return
	}

	swap, err := h.swapRepo.GetByID(ctx, swapID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Swap not found"})
		return
	}
	if swap.Status != models.SwapAccepted || !swap.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Chat not allowed for this swap"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(swapID, conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")

	// Keep connection alive and clean on close.
	go func() {
		defer func() {
			h.hub.RemoveClient(swapID, conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
				}
				return
			}
		}
	}()
}

func (h *SwapWebSocketHandler) validateToken(header string) (int, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return 0, auth.ErrInvalidToken
	}
	return h.tokens.Validate(parts[1])
}
