package core

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/RRGcodex/collaborative-whiteboard/internal/canvas"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHubJoinBroadcastsUserCount(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	ev := mustEvent(t, alice.Events, EventUserCount)
	if ev.Room != "demo" || ev.Count != 1 {
		t.Fatalf("unexpected count event: %+v", ev)
	}

	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	ev = mustEvent(t, alice.Events, EventUserCount)
	if ev.Count != 2 {
		t.Fatalf("alice should see count 2, got %+v", ev)
	}
	ev = mustEvent(t, bob.Events, EventUserCount)
	if ev.Count != 2 {
		t.Fatalf("bob should see count 2, got %+v", ev)
	}
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	hub.RegisterClient(alice)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}

	// Both joins broadcast, but membership never doubles.
	ev := mustEvent(t, alice.Events, EventUserCount)
	if ev.Count != 1 {
		t.Fatalf("first join count = %d, want 1", ev.Count)
	}
	ev = mustEvent(t, alice.Events, EventUserCount)
	if ev.Count != 1 {
		t.Fatalf("second join count = %d, want 1", ev.Count)
	}
	waitOccupancy(t, hub, "demo", 1)
}

func TestHubEmptyRoomIDIgnored(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	mustEvent(t, bob.Events, EventUserCount)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: ""}
	alice.Commands <- &Command{Kind: CommandDrawing, Drawing: &DrawingOp{Room: ""}}
	alice.Commands <- &Command{Kind: CommandShape, Shape: &ShapeOp{Room: ""}}
	alice.Commands <- &Command{Kind: CommandClear, Room: ""}

	mustNoEvent(t, alice.Events, 100*time.Millisecond)
	mustNoEvent(t, bob.Events, 100*time.Millisecond)
	waitOccupancy(t, hub, "", 0)
}

func TestHubRelayExcludesSenderAndOtherRooms(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	carol := NewClient("c")
	outsider := NewClient("d")
	for _, c := range []*Client{alice, bob, carol, outsider} {
		hub.RegisterClient(c)
	}

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	carol.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	outsider.Commands <- &Command{Kind: CommandJoinRoom, Room: "other"}
	waitOccupancy(t, hub, "demo", 3)
	waitOccupancy(t, hub, "other", 1)

	op := &DrawingOp{
		Room:    "demo",
		From:    canvas.Point{X: 0, Y: 0},
		To:      canvas.Point{X: 10, Y: 10},
		Color:   "#000000",
		PenSize: 3,
	}
	alice.Commands <- &Command{Kind: CommandDrawing, Drawing: op}

	for _, recipient := range []*Client{bob, carol} {
		ev := mustEvent(t, recipient.Events, EventDrawing)
		if ev.Drawing == nil || *ev.Drawing != *op {
			t.Fatalf("payload modified in flight: %+v", ev.Drawing)
		}
	}
	mustNoEvent(t, alice.Events, 100*time.Millisecond)
	mustNoEvent(t, outsider.Events, 100*time.Millisecond)
}

func TestHubShapeAndClearRelay(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	waitOccupancy(t, hub, "demo", 2)

	shape := &ShapeOp{
		Room:    "demo",
		Start:   canvas.Point{X: 50, Y: 50},
		End:     canvas.Point{X: 80, Y: 50},
		Tool:    canvas.ShapeCircle,
		Color:   "#ff0000",
		PenSize: 2,
	}
	alice.Commands <- &Command{Kind: CommandShape, Shape: shape}

	ev := mustEvent(t, bob.Events, EventShape)
	if ev.Shape == nil || *ev.Shape != *shape {
		t.Fatalf("unexpected shape event: %+v", ev.Shape)
	}

	alice.Commands <- &Command{Kind: CommandClear, Room: "demo"}
	ev = mustEvent(t, bob.Events, EventClear)
	if ev.Room != "demo" {
		t.Fatalf("clear for wrong room: %+v", ev)
	}
}

func TestHubLeaveBroadcastsToRemaining(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	waitOccupancy(t, hub, "demo", 2)

	alice.Commands <- &Command{Kind: CommandLeaveRoom, Room: "demo"}
	ev := mustEvent(t, bob.Events, EventUserCount)
	for ev.Count != 1 {
		ev = mustEvent(t, bob.Events, EventUserCount)
	}
	waitOccupancy(t, hub, "demo", 1)

	// Leaving a room it never joined is a no-op with no broadcast.
	alice.Commands <- &Command{Kind: CommandLeaveRoom, Room: "ghost"}
	mustNoEvent(t, alice.Events, 100*time.Millisecond)
}

func TestHubDisconnectLeavesEveryRoom(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	carol := NewClient("c")
	for _, c := range []*Client{alice, bob, carol} {
		hub.RegisterClient(c)
	}

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "r1"}
	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "r2"}
	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "r1"}
	carol.Commands <- &Command{Kind: CommandJoinRoom, Room: "r2"}
	waitOccupancy(t, hub, "r1", 2)
	waitOccupancy(t, hub, "r2", 2)

	hub.UnregisterClient(alice)

	// Survivors see the count computed after removal, never a stale value.
	ev := mustEvent(t, bob.Events, EventUserCount)
	for ev.Count != 1 {
		ev = mustEvent(t, bob.Events, EventUserCount)
	}
	ev = mustEvent(t, carol.Events, EventUserCount)
	for ev.Count != 1 {
		ev = mustEvent(t, carol.Events, EventUserCount)
	}
	waitOccupancy(t, hub, "r1", 1)
	waitOccupancy(t, hub, "r2", 1)
}

func TestHubDisconnectStopsClientPump(t *testing.T) {
	hub := startHub(t)

	before := runtime.NumGoroutine()

	for i := 0; i < 200; i++ {
		c := NewClient(fmt.Sprintf("c%d", i))
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoinRoom, Room: "churn"}
		hub.UnregisterClient(c)
	}
	waitOccupancy(t, hub, "churn", 0)

	// Each register starts one pump goroutine; every one must be gone once
	// its client is dropped.
	deadline := time.Now().Add(2 * time.Second)
	var after int
	for time.Now().Before(deadline) {
		after = runtime.NumGoroutine()
		if after <= before+5 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("goroutines before churn = %d, after = %d; client pumps leaked", before, after)
}

func TestHubOccupancyRandomizedInterleavings(t *testing.T) {
	hub := startHub(t)
	rng := rand.New(rand.NewSource(42))

	rooms := []string{"r1", "r2", "r3"}
	clients := make([]*Client, 8)
	alive := make([]bool, len(clients))
	for i := range clients {
		clients[i] = NewClient(string(rune('a' + i)))
		alive[i] = true
		hub.RegisterClient(clients[i])
	}

	// Model of who is in which room, updated alongside the commands.
	model := make(map[string]map[int]struct{})
	for _, r := range rooms {
		model[r] = make(map[int]struct{})
	}

	for iter := 0; iter < 500; iter++ {
		i := rng.Intn(len(clients))
		if !alive[i] {
			continue
		}
		room := rooms[rng.Intn(len(rooms))]

		switch rng.Intn(5) {
		case 0, 1:
			clients[i].Commands <- &Command{Kind: CommandJoinRoom, Room: room}
			model[room][i] = struct{}{}
		case 2, 3:
			clients[i].Commands <- &Command{Kind: CommandLeaveRoom, Room: room}
			delete(model[room], i)
		case 4:
			hub.UnregisterClient(clients[i])
			alive[i] = false
			for _, r := range rooms {
				delete(model[r], i)
			}
		}
	}

	for _, r := range rooms {
		waitOccupancy(t, hub, r, len(model[r]))
	}
}

// Full scenario: two participants, one room, drawing, clear, disconnect.
func TestHubSharedRoomScenario(t *testing.T) {
	hub := startHub(t)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	if ev := mustEvent(t, alice.Events, EventUserCount); ev.Count != 1 {
		t.Fatalf("alice count = %d, want 1", ev.Count)
	}

	bob.Commands <- &Command{Kind: CommandJoinRoom, Room: "demo"}
	if ev := mustEvent(t, alice.Events, EventUserCount); ev.Count != 2 {
		t.Fatalf("alice count = %d, want 2", ev.Count)
	}
	if ev := mustEvent(t, bob.Events, EventUserCount); ev.Count != 2 {
		t.Fatalf("bob count = %d, want 2", ev.Count)
	}

	op := &DrawingOp{
		Room:    "demo",
		From:    canvas.Point{X: 0, Y: 0},
		To:      canvas.Point{X: 10, Y: 10},
		Color:   "#000000",
		PenSize: 3,
	}
	alice.Commands <- &Command{Kind: CommandDrawing, Drawing: op}
	if ev := mustEvent(t, bob.Events, EventDrawing); *ev.Drawing != *op {
		t.Fatalf("bob received modified payload: %+v", ev.Drawing)
	}

	alice.Commands <- &Command{Kind: CommandClear, Room: "demo"}
	if ev := mustEvent(t, bob.Events, EventClear); ev.Room != "demo" {
		t.Fatalf("unexpected clear: %+v", ev)
	}
	mustNoEvent(t, alice.Events, 100*time.Millisecond)

	hub.UnregisterClient(alice)
	ev := mustEvent(t, bob.Events, EventUserCount)
	for ev.Count != 1 {
		ev = mustEvent(t, bob.Events, EventUserCount)
	}
}
