package websocket

import (
	"sync"

	"github.com/videgrenier/marketplace_backend/metrics"
)

// Hub maintains the set of active clients and the conversation rooms they
// have joined. Rooms are keyed by listing identifier; a room exists only
// while it has members.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Rooms mapping (listingID -> clients)
	rooms map[string]map[*Client]bool

	// Mutex for clients and rooms maps
	mu sync.RWMutex

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new hub instance. Each hub owns its own registry, so
// independent hubs never share room state.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run processes connection lifecycle events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	metrics.WSConnections.Inc()
}

// removeClient drops a disconnected client from the registry and from all
// rooms it had joined, discarding rooms that become empty.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropClientLocked(client)
}

// dropClientLocked removes a client from the registry and every room it
// belongs to, closing its send channel. Callers must hold h.mu. Calling it
// again for an already-dropped client is a no-op, so the channel is never
// closed twice.
func (h *Hub) dropClientLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	metrics.WSConnections.Dec()

	for listingID, clients := range h.rooms {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, listingID)
			}
		}
	}
}

// joinRoom adds a client to a listing's room, creating the room if absent.
// Joining the same room twice has no additional effect; an empty listingID
// is ignored.
func (h *Hub) joinRoom(client *Client, listingID string) {
	if listingID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[listingID]; !ok {
		h.rooms[listingID] = make(map[*Client]bool)
	}
	h.rooms[listingID][client] = true
	metrics.RoomJoins.Inc()
}

// leaveRoom removes a client from a listing's room
func (h *Hub) leaveRoom(client *Client, listingID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[listingID]; ok {
		delete(clients, client)
		// Clean up empty rooms
		if len(clients) == 0 {
			delete(h.rooms, listingID)
		}
	}
}

// broadcastToRoom delivers a message to every client in a listing's room
// except the originating connection. Delivery is fire-and-forget: a client
// whose send buffer is full is dropped rather than blocking the room, and
// a missing room is a silent no-op.
func (h *Hub) broadcastToRoom(listingID string, message []byte, origin *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[listingID]
	if !ok {
		return
	}

	var evicted []*Client
	for client := range clients {
		if client == origin {
			continue
		}
		select {
		case client.send <- message:
			metrics.EventsRelayed.Inc()
		default:
			evicted = append(evicted, client)
			metrics.EventsDropped.Inc()
		}
	}

	// Evicted clients leave every room they were in, not just this one;
	// a later broadcast must never hit their closed send channel.
	for _, client := range evicted {
		h.dropClientLocked(client)
	}
}

// roomSize reports the current number of members in a listing's room
func (h *Hub) roomSize(listingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[listingID])
}
