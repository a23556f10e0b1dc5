package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAutosave Action = "autosave"
	ActionProgress Action = "progress"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AutosaveRequest is sent by the client to save a single answer.
type AutosaveRequest struct {
	Action Action `json:"action"`
	QID    string `json:"q_id"`
	Answer string `json:"ans"`
}

// ProgressRequest is sent by the client to persist navigation position
// and the remaining countdown.
type ProgressRequest struct {
	Action           Action `json:"action"`
	CurrentIndex     int    `json:"current_index"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

// SubmitRequest is sent by the client to finish and score the attempt.
type SubmitRequest struct {
	Action   Action `json:"action"`
	TimedOut bool   `json:"timed_out"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventSuccess   Event = "success"
	EventSubmitted Event = "submitted"
	EventPong      Event = "pong"
)

type AutosaveResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

type SubmittedResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
	Score  int    `json:"score"`
	Passed bool   `json:"passed"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
