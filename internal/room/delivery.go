package room

import "github.com/feltstack/holdem-core/internal/protocol"

// DeliveryScope says how an outbound message is routed by the Message
// Router, per §4.G: personalized views go to one seat, public events
// broadcast to the whole room. Error replies to a sender do not pass
// through a Delivery; the router writes them to that connection directly.
type DeliveryScope int

const (
	ScopeBroadcast DeliveryScope = iota
	ScopeSeat
)

// Delivery is one outbound message produced by a Controller, still
// addressed by seatId rather than by connection; the Message Router
// resolves seatId to live connections.
type Delivery struct {
	Scope   DeliveryScope
	SeatID  string
	Message *protocol.Message
}

// Sink receives a room's deliveries in the order the Controller
// produced them. Implementations must not block the Controller for
// longer than a single send attempt; per §5 only connection I/O may
// suspend, never the Controller's own serialization.
type Sink interface {
	Deliver(roomID string, d Delivery)
}

func broadcast(roomID string, sink Sink, msgType protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return
	}
	sink.Deliver(roomID, Delivery{Scope: ScopeBroadcast, Message: msg})
}

func sendTo(roomID string, sink Sink, seatID string, msgType protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return
	}
	sink.Deliver(roomID, Delivery{Scope: ScopeSeat, SeatID: seatID, Message: msg})
}
