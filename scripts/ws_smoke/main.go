// Manual smoke test: joins a room, draws a segment, commits a circle and
// clears, printing every event relayed back. Run two instances against the
// same room to watch the fan-out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/RRGcodex/collaborative-whiteboard/internal/canvas"
	"github.com/RRGcodex/collaborative-whiteboard/internal/core"
	"github.com/RRGcodex/collaborative-whiteboard/internal/proto"
	"github.com/RRGcodex/collaborative-whiteboard/internal/wsclient"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	room := flag.String("room", "demo", "room to join")
	draw := flag.Bool("draw", true, "emit a drawing, a shape and a clear")
	timeout := flag.Duration("timeout", 10*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := wsclient.Dial(ctx, *addr)
	if err != nil {
		return err
	}
	defer client.Close()

	client.On(proto.EventUserCount, func(data json.RawMessage) {
		var d proto.UserCountData
		if err := json.Unmarshal(data, &d); err == nil {
			fmt.Printf("userCount: %d\n", d.Count)
		}
	})
	client.On(proto.EventDrawing, func(data json.RawMessage) {
		fmt.Printf("drawing: %s\n", data)
	})
	client.On(proto.EventShape, func(data json.RawMessage) {
		fmt.Printf("shape: %s\n", data)
	})
	client.On(proto.EventClear, func(data json.RawMessage) {
		fmt.Printf("clear: %s\n", data)
	})

	if err := client.JoinRoom(ctx, *room); err != nil {
		return err
	}

	if *draw {
		ops := []func() error{
			func() error {
				return client.SendDrawing(ctx, core.DrawingOp{
					Room:    *room,
					From:    canvas.Point{X: 10, Y: 10},
					To:      canvas.Point{X: 60, Y: 40},
					Color:   "#ff0000",
					PenSize: 3,
				})
			},
			func() error {
				return client.SendShape(ctx, core.ShapeOp{
					Room:    *room,
					Start:   canvas.Point{X: 100, Y: 100},
					End:     canvas.Point{X: 140, Y: 100},
					Tool:    canvas.ShapeCircle,
					Color:   "#0000ff",
					PenSize: 2,
				})
			},
			func() error { return client.SendClear(ctx, *room) },
		}
		for _, op := range ops {
			if err := op(); err != nil {
				return err
			}
		}
	}

	return client.Listen(ctx)
}
