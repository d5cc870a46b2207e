package core

// Client is a whiteboard participant as seen by the core layer. It carries
// no drawing state server-side, only its room memberships.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
	Rooms    map[string]struct{}

	// done is closed by the hub when the client is dropped; it releases
	// the command pump goroutine.
	done chan struct{}
}

// NewClient constructs a client with initialized channels. The events buffer
// is sized for bursts of drawing segments from fast strokes.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 32),
		Events:   make(chan *Event, 256),
		Rooms:    make(map[string]struct{}),
		done:     make(chan struct{}),
	}
}
