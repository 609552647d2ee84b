package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// KeepaliveInterval is how often an idle stream gets a comment line
var KeepaliveInterval = 30 * time.Second

// RegisterHandlers registers the SSE HTTP handlers
func RegisterHandlers(r gin.IRouter, mgr Manager) {
	r.GET("/events", handleSSE(mgr))
}

// handleSSE streams messages to one client until it disconnects
func handleSSE(mgr Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := c.Writer
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		clientID := c.GetHeader("X-Client-Id")
		if clientID == "" {
			clientID = uuid.NewString()
		}

		messageChan := mgr.AddClient(clientID)
		defer mgr.RemoveClient(clientID, messageChan)

		w.WriteHeader(http.StatusOK)
		if err := writeSSEMessage(w, Message{Type: EventConnected, Data: gin.H{"client_id": clientID}}); err != nil {
			glog.Errorf("Error sending initial SSE message: %v", err)
			return
		}
		w.Flush()

		// Sends the current directory summary
		mgr.NotifyClientConnected(clientID)

		keepalive := time.NewTicker(KeepaliveInterval)
		defer keepalive.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				glog.V(1).Infof("SSE client %s went away", clientID)
				return

			case msg, ok := <-messageChan:
				if !ok {
					return
				}
				if err := writeSSEMessage(w, msg); err != nil {
					glog.Errorf("Error sending SSE message to %s: %v", clientID, err)
					return
				}
				w.Flush()

			case <-keepalive.C:
				if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
					glog.Errorf("Error sending keepalive to %s: %v", clientID, err)
					return
				}
				w.Flush()
			}
		}
	}
}

// writeSSEMessage writes a message in SSE wire format
func writeSSEMessage(w io.Writer, msg Message) error {
	msg = stamp(msg)

	data := []byte("{}")
	if msg.Data != nil {
		var err error
		if data, err = json.Marshal(msg.Data); err != nil {
			return fmt.Errorf("error marshaling SSE data: %w", err)
		}
	}

	if _, err := fmt.Fprintf(w, "id: %d\n", msg.ID); err != nil {
		return err
	}
	if msg.Type != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", msg.Type); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
