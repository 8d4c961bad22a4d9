package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/middleware"
	"voyara/models"
	"voyara/rdx"
	"voyara/utils"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func pendingKey(tripID string) string { return "chat:" + tripID + ":pending" }

type inboundPayload struct {
	Action  string `json:"action"` // only "chat" for now
	Content string `json:"content,omitempty"`
}

type outboundPayload struct {
	Action    string `json:"action"`
	ID        string `json:"id"`
	Room      string `json:"room,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func outbound(m *models.ChatMessage) outboundPayload {
	return outboundPayload{
		Action:    "chat",
		ID:        m.MessageID,
		Room:      m.TripID,
		SenderID:  m.UserID,
		Sender:    m.UserName,
		Content:   m.Content,
		Timestamp: m.CreatedAt.Unix(),
	}
}

// Alert pushes a system line (flight status changes and the like) into a
// trip room. Alerts are broadcast only, never persisted.
func (h *Hub) Alert(tripID, content string) {
	raw, err := json.Marshal(outboundPayload{
		Action:    "alert",
		Room:      tripID,
		Content:   content,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return
	}
	h.Broadcast(tripID, raw)
}

// socketIdentity authenticates a socket request: an advisor JWT (header
// or ?auth= query, browsers cannot set websocket headers), or a share
// token for clients.
func socketIdentity(ctx context.Context, r *http.Request, tripID string) (userID, name string, ok bool) {
	token := r.Header.Get("Authorization")
	token = strings.TrimPrefix(token, "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("auth")
	}
	if token != "" {
		if claims, err := middleware.ValidateJWT(token); err == nil {
			return claims.UserID, claims.Username, true
		}
	}

	if share := r.URL.Query().Get("share"); share != "" {
		link, err := utils.FindOneAndDecode[models.ShareLink](ctx, db.SharesCollection, bson.M{"token": share})
		if err == nil && link.TripID == tripID && link.Usable(time.Now()) {
			return "client:" + link.Token[:8], "Client", true
		}
	}
	return "", "", false
}

// ChatSocket upgrades into a trip room. On connect the recent history
// replays oldest first, then live traffic flows.
func ChatSocket(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tripID := ps.ByName("tripid")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		userID, userName, ok := socketIdentity(ctx, r, tripID)
		cancel()
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("[Chat] upgrade:", err)
			return
		}

		client := &Client{
			Conn:     conn,
			Send:     make(chan []byte, 256),
			Room:     tripID,
			UserID:   userID,
			UserName: userName,
		}

		go func() {
			for _, m := range loadHistory(tripID, 50) {
				if data, err := json.Marshal(outbound(&m)); err == nil {
					client.Send <- data
				}
			}
		}()

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inboundPayload
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("[Chat] invalid payload:", err)
			continue
		}
		if in.Action != "chat" || strings.TrimSpace(in.Content) == "" {
			continue
		}

		msg := models.ChatMessage{
			MessageID: utils.GenerateIntID(16),
			TripID:    c.Room,
			UserID:    c.UserID,
			UserName:  c.UserName,
			Content:   utils.TruncateText(in.Content, 2000),
			CreatedAt: time.Now(),
		}
		stage(&msg)

		if data, err := json.Marshal(outbound(&msg)); err == nil {
			hub.broadcast <- broadcastMsg{Room: c.Room, Data: data}
		}
	}
}

// stage pushes a message onto the Redis pending list; the flush worker
// moves it to Mongo in bulk. A Redis failure degrades to a direct
// insert so nothing is lost.
func stage(msg *models.ChatMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		log.Println("[Chat] marshal:", err)
		return
	}
	if err := rdx.RdxPush(pendingKey(msg.TripID), string(raw)); err != nil {
		log.Println("[Chat] stage failed, inserting directly:", err)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
			log.Println("[Chat] insert:", err)
		}
	}
}

// loadHistory returns the last n messages of a room oldest first,
// flushed and pending alike.
func loadHistory(tripID string, n int) []models.ChatMessage {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stored, err := utils.FindAndDecode[models.ChatMessage](ctx, db.MessagesCollection,
		bson.M{"tripId": tripID},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(int64(n)))
	if err != nil {
		log.Println("[Chat] history:", err)
	}
	// newest-first from Mongo, flip it
	for i, j := 0, len(stored)-1; i < j; i, j = i+1, j-1 {
		stored[i], stored[j] = stored[j], stored[i]
	}

	pending, err := rdx.Conn.LRange(ctx, pendingKey(tripID), 0, -1).Result()
	if err != nil {
		return stored
	}
	for _, raw := range pending {
		var m models.ChatMessage
		if json.Unmarshal([]byte(raw), &m) == nil {
			stored = append(stored, m)
		}
	}
	if len(stored) > n {
		stored = stored[len(stored)-n:]
	}
	return stored
}

// GetHistory serves the room history over plain HTTP for initial page
// loads.
func GetHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tripID := ps.ByName("tripid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	count, err := db.TripsCollection.CountDocuments(ctx, bson.M{"tripid": tripID, "orgId": orgID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	limit := utils.QueryInt(r, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	utils.RespondWithJSON(w, http.StatusOK, loadHistory(tripID, limit))
}
