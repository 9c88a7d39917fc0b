package websocket

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient builds a client wired to the hub without a real websocket
// connection; deliveries land in its send channel.
func newTestClient(h *Hub, userID uint) *Client {
	c := &Client{
		hub:    h,
		send:   make(chan []byte, 16),
		userID: userID,
		rooms:  make(map[string]bool),
	}
	h.addClient(c)
	return c
}

// received drains one pending delivery, or returns nil if there is none.
func received(c *Client) []byte {
	select {
	case msg := <-c.send:
		return msg
	default:
		return nil
	}
}

func TestJoinRoomIdempotent(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)

	h.joinRoom(c, "ad-42")
	h.joinRoom(c, "ad-42")

	assert.Equal(t, 1, h.roomSize("ad-42"))
}

func TestJoinRoomEmptyListingIgnored(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)

	h.joinRoom(c, "")

	assert.Empty(t, h.rooms)
}

func TestBroadcastExcludesOrigin(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	d := newTestClient(h, 3)
	h.joinRoom(a, "ad-42")
	h.joinRoom(b, "ad-42")
	h.joinRoom(d, "ad-42")

	h.broadcastToRoom("ad-42", []byte("hello"), a)

	assert.Nil(t, received(a))
	assert.Equal(t, []byte("hello"), received(b))
	assert.Equal(t, []byte("hello"), received(d))
}

func TestBroadcastRoomIsolation(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	h.joinRoom(a, "ad-1")
	h.joinRoom(b, "ad-2")

	h.broadcastToRoom("ad-1", []byte("hello"), a)

	assert.Nil(t, received(b))
}

func TestBroadcastEmptyRoomIsNoop(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	h.joinRoom(a, "ad-99")

	// A is the only member, so excluding the origin leaves nobody
	h.broadcastToRoom("ad-99", []byte(`{"id":"m2"}`), a)
	assert.Nil(t, received(a))

	// A room that never existed behaves the same
	h.broadcastToRoom("ad-404", []byte("x"), nil)
}

func TestBroadcastOrderPreserved(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	h.joinRoom(a, "ad-42")
	h.joinRoom(b, "ad-42")

	for i := 0; i < 5; i++ {
		h.broadcastToRoom("ad-42", []byte(fmt.Sprintf("event-%d", i)), a)
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, []byte(fmt.Sprintf("event-%d", i)), received(b))
	}
}

func TestRemoveClientClearsMemberships(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	h.joinRoom(a, "ad-1")
	h.joinRoom(a, "ad-2")
	h.joinRoom(b, "ad-1")

	h.removeClient(a)

	// ad-2 had only A and must be gone entirely
	assert.Equal(t, 0, h.roomSize("ad-2"))
	assert.NotContains(t, h.rooms, "ad-2")

	// ad-1 keeps B, and a broadcast no longer reaches A
	assert.Equal(t, 1, h.roomSize("ad-1"))
	h.broadcastToRoom("ad-1", []byte("after"), nil)
	assert.Equal(t, []byte("after"), received(b))
}

func TestRemoveLastMemberDropsRoom(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	h.joinRoom(a, "ad-7")

	h.removeClient(a)

	assert.NotContains(t, h.rooms, "ad-7")
	// Broadcasting afterwards is a silent no-op
	h.broadcastToRoom("ad-7", []byte("x"), nil)
}

func TestLeaveRoomDropsEmptyRoom(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	h.joinRoom(a, "ad-5")
	h.joinRoom(b, "ad-5")

	h.leaveRoom(a, "ad-5")
	assert.Equal(t, 1, h.roomSize("ad-5"))

	h.leaveRoom(b, "ad-5")
	assert.NotContains(t, h.rooms, "ad-5")
}

func TestSlowClientDroppedWithoutBlockingRoom(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	slow := &Client{
		hub:    h,
		send:   make(chan []byte), // unbuffered, never read
		userID: 2,
		rooms:  make(map[string]bool),
	}
	h.addClient(slow)
	b := newTestClient(h, 3)
	h.joinRoom(a, "ad-42")
	h.joinRoom(slow, "ad-42")
	h.joinRoom(b, "ad-42")

	h.broadcastToRoom("ad-42", []byte("hello"), a)

	// B still got the event; the slow client was evicted
	assert.Equal(t, []byte("hello"), received(b))
	assert.Equal(t, 2, h.roomSize("ad-42"))
	assert.NotContains(t, h.clients, slow)
}

func TestEvictedClientClearedFromAllRooms(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	slow := &Client{
		hub:    h,
		send:   make(chan []byte), // unbuffered, never read
		userID: 3,
		rooms:  make(map[string]bool),
	}
	h.addClient(slow)
	h.joinRoom(a, "ad-1")
	h.joinRoom(slow, "ad-1")
	h.joinRoom(slow, "ad-2")
	h.joinRoom(b, "ad-2")

	// Eviction in ad-1 must also clear the membership in ad-2
	h.broadcastToRoom("ad-1", []byte("first"), a)
	require.NotContains(t, h.clients, slow)
	assert.NotContains(t, h.rooms["ad-1"], slow)
	assert.NotContains(t, h.rooms["ad-2"], slow)
	assert.Equal(t, 1, h.roomSize("ad-2"))

	// A broadcast to the second room still delivers to the live member
	assert.NotPanics(t, func() {
		h.broadcastToRoom("ad-2", []byte("second"), nil)
	})
	assert.Equal(t, []byte("second"), received(b))

	// The eventual transport-level unregister is a harmless no-op
	assert.NotPanics(t, func() { h.removeClient(slow) })
}

func TestHandleIncomingEventEndToEnd(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)

	HandleIncomingEvent(a, []byte(`{"type":"join","payload":{"listing_id":"ad-42"}}`))
	HandleIncomingEvent(b, []byte(`{"type":"join","payload":{"listing_id":"ad-42"}}`))
	require.Equal(t, 2, h.roomSize("ad-42"))

	event := []byte(`{"type":"message","payload":{"id":"m1","listing_id":"ad-42","content":"Bonjour"}}`)
	HandleIncomingEvent(a, event)

	// B receives the exact bytes A sent; A receives nothing
	assert.Equal(t, event, received(b))
	assert.Nil(t, received(a))
}

func TestHandleIncomingEventJoinToleratesUserID(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)

	HandleIncomingEvent(a, []byte(`{"type":"join","payload":{"listing_id":"ad-9","user_id":1}}`))

	assert.Equal(t, 1, h.roomSize("ad-9"))
	assert.True(t, a.inRoom("ad-9"))
}

func TestHandleIncomingEventMalformedJoinIgnored(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)

	HandleIncomingEvent(a, []byte(`{"type":"join","payload":{}}`))
	HandleIncomingEvent(a, []byte(`{"type":"join","payload":{"listing_id":""}}`))
	HandleIncomingEvent(a, []byte(`not json`))

	assert.Empty(t, h.rooms)
}

func TestHandleIncomingEventNumericListingID(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)

	// A payload echoed from the REST API carries listing_id as a number
	HandleIncomingEvent(a, []byte(`{"type":"join","payload":{"listing_id":42}}`))
	HandleIncomingEvent(b, []byte(`{"type":"join","payload":{"listing_id":"42"}}`))
	require.Equal(t, 2, h.roomSize("42"))

	event := []byte(`{"type":"message","payload":{"id":7,"listing_id":42,"content":"dispo ?"}}`)
	HandleIncomingEvent(b, event)

	assert.Equal(t, event, received(a))
	assert.Nil(t, received(b))
}

func TestHandleIncomingEventLeave(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, 1)
	b := newTestClient(h, 2)
	HandleIncomingEvent(a, []byte(`{"type":"join","payload":{"listing_id":"ad-1"}}`))
	HandleIncomingEvent(b, []byte(`{"type":"join","payload":{"listing_id":"ad-1"}}`))

	HandleIncomingEvent(b, []byte(`{"type":"leave","payload":{"listing_id":"ad-1"}}`))

	HandleIncomingEvent(a, []byte(`{"type":"message","payload":{"listing_id":"ad-1","content":"x"}}`))
	assert.Nil(t, received(b))
	assert.False(t, b.inRoom("ad-1"))
}

func TestListingRefUnmarshal(t *testing.T) {
	var ref ListingRef

	require.NoError(t, json.Unmarshal([]byte(`"ad-42"`), &ref))
	assert.Equal(t, ListingRef("ad-42"), ref)

	require.NoError(t, json.Unmarshal([]byte(`42`), &ref))
	assert.Equal(t, ListingRef("42"), ref)

	assert.Error(t, json.Unmarshal([]byte(`{"no":"good"}`), &ref))
}
