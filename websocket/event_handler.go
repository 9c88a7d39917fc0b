package websocket

import (
	"encoding/json"
	"log"
)

// Event represents a websocket event envelope
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ListingRef is a listing identifier as it appears in event payloads. Web
// clients send it as a string, but a payload echoed straight from the REST
// API carries it as a number, so both encodings are accepted.
type ListingRef string

func (l *ListingRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ListingRef(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = ListingRef(n.String())
	return nil
}

// JoinPayload carries the room a client wants to join. UserID is tolerated
// for compatibility with older clients but not used for routing.
type JoinPayload struct {
	ListingID ListingRef `json:"listing_id"`
	UserID    uint       `json:"user_id,omitempty"`
}

// messageRoute extracts only the routing key from a message payload; the
// rest of the record is forwarded untouched.
type messageRoute struct {
	ListingID ListingRef `json:"listing_id"`
}

// HandleIncomingEvent processes an incoming WebSocket event from a client.
//
// A "message" event carries the full message record the client already
// persisted through the REST API. The relay does not validate or rewrite
// it; it forwards the raw bytes to everyone else in the listing's room.
func HandleIncomingEvent(client *Client, eventBytes []byte) {
	var event Event
	if err := json.Unmarshal(eventBytes, &event); err != nil {
		log.Printf("error unmarshaling event: %v", err)
		return
	}

	switch event.Type {
	case "join":
		var payload JoinPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			log.Printf("error unmarshaling join payload: %v", err)
			return
		}
		client.joinRoom(string(payload.ListingID))
	case "leave":
		var payload JoinPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			log.Printf("error unmarshaling leave payload: %v", err)
			return
		}
		client.leaveRoom(string(payload.ListingID))
	case "message":
		var route messageRoute
		if err := json.Unmarshal(event.Payload, &route); err != nil {
			log.Printf("error unmarshaling message payload: %v", err)
			return
		}
		if route.ListingID == "" {
			return
		}

		// Forward to everyone else in the room. The sender already
		// applied the message locally from the save response.
		client.hub.broadcastToRoom(string(route.ListingID), eventBytes, client)
	}
}
