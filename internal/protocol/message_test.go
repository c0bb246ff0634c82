package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feltstack/holdem-core/internal/deck"
)

func TestMessageRoundTrip(t *testing.T) {
	intent := PlayerActionIntent{
		RoomID: "room-1",
		SeatID: "seat-a",
		Action: ActionPayload{Type: "raise", Amount: 120},
	}

	msg, err := NewMessage(MessageTypePlayerAction, intent)
	require.NoError(t, err)
	require.Equal(t, MessageTypePlayerAction, msg.Type)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, MessageTypePlayerAction, decoded.Type)

	var got PlayerActionIntent
	require.NoError(t, decoded.Decode(&got))
	require.Equal(t, intent, got)
}

func TestGameViewHidesOtherSeatsCards(t *testing.T) {
	view := GameView{
		RoomID: "room-1",
		Phase:  "flop",
		Seats: []SeatView{
			{SeatID: "a", MyCards: []deck.Card{deck.NewCard(deck.Ace, deck.Spades)}},
			{SeatID: "b"},
		},
	}

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded GameView
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Seats[0].MyCards, 1)
	require.Empty(t, decoded.Seats[1].MyCards)
}

func TestCardWireFormat(t *testing.T) {
	c := deck.NewCard(deck.Ten, deck.Hearts)
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	require.Equal(t, `"Th"`, string(raw))

	var decoded deck.Card
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, c, decoded)
}
