package remote

// Message types exchanged with the browser page.
const (
	TypeHello = "hello"
	TypeDown  = "down"
	TypeMove  = "move"
	TypeUp    = "up"
	TypePing  = "ping"
	TypePong  = "pong"
	TypeError = "error"
)

// Message is the envelope for every frame on the socket. Pointer
// coordinates are normalized to [0, 1] of the page's viewport.
type Message struct {
	Type   string  `json:"type"`
	ID     int     `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Layout string  `json:"layout,omitempty"`
	Msg    string  `json:"message,omitempty"`
}
