package realtime

import (
	"encoding/json"
	"testing"
)

func TestMessageTypes(t *testing.T) {
	types := []MessageType{MsgProgress, MsgDone, MsgFailed}

	seen := make(map[MessageType]bool)
	for _, msgType := range types {
		if seen[msgType] {
			t.Errorf("duplicate message type: %s", msgType)
		}
		seen[msgType] = true
	}
}

func TestMessageSerialization(t *testing.T) {
	msg := Message{
		Type:    MsgProgress,
		Payload: json.RawMessage(`{"iteration":5,"level":2,"bestEfficiency":10}`),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if decoded.Type != msg.Type {
		t.Errorf("Type = %s, want %s", decoded.Type, msg.Type)
	}
}

func TestPayloadSerialization(t *testing.T) {
	t.Run("ProgressPayload", func(t *testing.T) {
		payload := ProgressPayload{Iteration: 3, Level: 2, BestEfficiency: 42}
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Marshal error: %v", err)
		}

		var decoded ProgressPayload
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if decoded.BestEfficiency != payload.BestEfficiency {
			t.Errorf("BestEfficiency = %d, want %d", decoded.BestEfficiency, payload.BestEfficiency)
		}
	})

	t.Run("DonePayload", func(t *testing.T) {
		payload := DonePayload{Efficiency: 99, Placements: 12}
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Marshal error: %v", err)
		}

		var decoded DonePayload
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if decoded.Placements != payload.Placements {
			t.Errorf("Placements = %d, want %d", decoded.Placements, payload.Placements)
		}
	})

	t.Run("FailedPayload", func(t *testing.T) {
		payload := FailedPayload{Error: "no placements fit"}
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Marshal error: %v", err)
		}

		var decoded FailedPayload
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if decoded.Error != payload.Error {
			t.Errorf("Error = %q, want %q", decoded.Error, payload.Error)
		}
	})
}

// subscribe registers client directly against hub's subscriber map,
// bypassing the register channel so the test doesn't race Hub.Run's
// goroutine for when the registration actually takes effect.
func subscribe(hub *Hub, client *Client) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	if hub.subscribers[client.JobID] == nil {
		hub.subscribers[client.JobID] = make(map[*Client]bool)
	}
	hub.subscribers[client.JobID][client] = true
}

func TestHub_BroadcastToJob(t *testing.T) {
	hub := NewHub()

	client := &Client{JobID: "job-1", Send: make(chan []byte, 1)}
	subscribe(hub, client)

	hub.BroadcastToJob("job-1", MsgDone, DonePayload{Efficiency: 7, Placements: 3})

	select {
	case msg := <-client.Send:
		var decoded Message
		if err := json.Unmarshal(msg, &decoded); err != nil {
			t.Fatalf("failed to decode broadcast message: %v", err)
		}
		if decoded.Type != MsgDone {
			t.Errorf("Type = %s, want %s", decoded.Type, MsgDone)
		}
	default:
		t.Error("expected a message on client.Send")
	}
}

func TestHub_BroadcastToUnknownJobIsNoop(t *testing.T) {
	hub := NewHub()

	// No subscribers registered for this job id; broadcasting must not panic
	// or block.
	hub.BroadcastToJob("no-such-job", MsgFailed, FailedPayload{Error: "boom"})
}

func TestHub_UnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{JobID: "job-2", Send: make(chan []byte, 1)}
	subscribe(hub, client)
	hub.Unregister(client)

	// Unregister round-trips through the channel Hub.Run drains; wait for
	// the close to land by polling the channel.
	for i := 0; i < 1000; i++ {
		select {
		case _, ok := <-client.Send:
			if ok {
				t.Error("expected client.Send to be closed after unregister")
			}
			return
		default:
		}
	}
	t.Error("client.Send was never closed after unregister")
}
