package http

import (
	"encoding/json"
	"fmt"

	"github.com/RRGcodex/collaborative-whiteboard/internal/canvas"
	"github.com/RRGcodex/collaborative-whiteboard/internal/core"
	"github.com/RRGcodex/collaborative-whiteboard/internal/proto"
)

// inboundToCommand maps a wire envelope onto a core command. A nil command
// with a non-nil proto error means the envelope was understood but invalid;
// payload content itself is never validated here (the relay is a pure
// router).
func inboundToCommand(in proto.Inbound) (*core.Command, *proto.Error, error) {
	switch in.Type {
	case proto.InboundTypeJoinRoom:
		var d proto.RoomData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, badData(in.Type), nil
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: d.RoomID}, nil, nil

	case proto.InboundTypeLeaveRoom:
		var d proto.RoomData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, badData(in.Type), nil
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: d.RoomID}, nil, nil

	case proto.InboundTypeDrawing:
		var d proto.DrawingData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, badData(in.Type), nil
		}
		return &core.Command{Kind: core.CommandDrawing, Drawing: &core.DrawingOp{
			Room:    d.RoomID,
			From:    d.From,
			To:      d.To,
			Color:   d.Color,
			PenSize: d.PenSize,
			Eraser:  d.IsEraser,
		}}, nil, nil

	case proto.InboundTypeShape:
		var d proto.ShapeData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, badData(in.Type), nil
		}
		return &core.Command{Kind: core.CommandShape, Shape: &core.ShapeOp{
			Room:    d.RoomID,
			Start:   d.Start,
			End:     d.End,
			Tool:    canvas.ShapeKind(d.Tool),
			Color:   d.Color,
			PenSize: d.PenSize,
		}}, nil, nil

	case proto.InboundTypeClear:
		var d proto.RoomData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, badData(in.Type), nil
		}
		return &core.Command{Kind: core.CommandClear, Room: d.RoomID}, nil, nil

	default:
		return nil, &proto.Error{
			Code: "unknown_type",
			Msg:  fmt.Sprintf("unknown message type %q", in.Type),
		}, nil
	}
}

func badData(msgType string) *proto.Error {
	return &proto.Error{
		Code: "bad_request",
		Msg:  fmt.Sprintf("invalid %s payload", msgType),
	}
}

// outboundFromEvent maps a core event onto its wire envelope.
func outboundFromEvent(event *core.Event) proto.Outbound {
	out := proto.Outbound{Type: proto.OutboundTypeEvent}

	switch event.Kind {
	case core.EventUserCount:
		out.Event = proto.EventUserCount
		out.Data = proto.UserCountData{Count: event.Count}
	case core.EventDrawing:
		out.Event = proto.EventDrawing
		out.Data = proto.DrawingData{
			RoomID:   event.Drawing.Room,
			From:     event.Drawing.From,
			To:       event.Drawing.To,
			Color:    event.Drawing.Color,
			PenSize:  event.Drawing.PenSize,
			IsEraser: event.Drawing.Eraser,
		}
	case core.EventShape:
		out.Event = proto.EventShape
		out.Data = proto.ShapeData{
			RoomID:  event.Shape.Room,
			Start:   event.Shape.Start,
			End:     event.Shape.End,
			Tool:    string(event.Shape.Tool),
			Color:   event.Shape.Color,
			PenSize: event.Shape.PenSize,
		}
	case core.EventClear:
		out.Event = proto.EventClear
		out.Data = proto.RoomData{RoomID: event.Room}
	}

	return out
}
