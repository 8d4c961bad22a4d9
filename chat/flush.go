package chat

import (
	"encoding/json"
	"log"
	"time"

	"voyara/db"
	"voyara/globals"
	"voyara/models"
	"voyara/rdx"
)

// FlushMessages drains the Redis pending lists into Mongo in bulk. Run
// it from main in its own goroutine; it never returns.
func FlushMessages(interval time.Duration) {
	ticker := time.NewTicker(interval)
	for range ticker.C {
		flushOnce()
	}
}

func flushOnce() {
	keys, err := rdx.Conn.Keys(globals.Ctx, "chat:*:pending").Result()
	if err != nil {
		log.Println("[Chat] flush scan:", err)
		return
	}

	for _, key := range keys {
		raws, err := rdx.Conn.LRange(globals.Ctx, key, 0, -1).Result()
		if err != nil {
			log.Println("[Chat] flush lrange:", err)
			continue
		}
		if len(raws) == 0 {
			continue
		}

		bulk := make([]interface{}, 0, len(raws))
		for _, raw := range raws {
			var m models.ChatMessage
			if err := json.Unmarshal([]byte(raw), &m); err != nil {
				log.Println("[Chat] flush decode:", err)
				continue
			}
			bulk = append(bulk, m)
		}
		if len(bulk) == 0 {
			_ = rdx.RdxDel(key)
			continue
		}

		if _, err := db.MessagesCollection.InsertMany(globals.Ctx, bulk); err != nil {
			log.Println("[Chat] flush insert:", err)
			continue
		}
		// only drop what was persisted; new pushes since LRange stay
		if err := rdx.Conn.LTrim(globals.Ctx, key, int64(len(raws)), -1).Err(); err != nil {
			log.Println("[Chat] flush trim:", err)
		}
	}
}
