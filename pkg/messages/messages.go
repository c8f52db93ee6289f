package messages

import "encoding/json"

const (
	// MessageBufferSize represents the maximum size of an inbound message
	MessageBufferSize = 4096
)

// MessageType is the value of the "type" field every frame carries.
type MessageType string

// Client message types
const (
	MessageTypeClientLogin          MessageType = "login"
	MessageTypeClientHit            MessageType = "hit"
	MessageTypeClientGetLeaderboard MessageType = "getLeaderboard"
	MessageTypeClientGameEnd        MessageType = "gameEnd"
)

// Server message types
const (
	MessageTypeServerLoginSuccess  MessageType = "loginSuccess"
	MessageTypeServerLoginFailure  MessageType = "loginFailure"
	MessageTypeServerInitTargets   MessageType = "initTargets"
	MessageTypeServerNewTarget     MessageType = "newTarget"
	MessageTypeServerUpdateTargets MessageType = "updateTargets"
	MessageTypeServerTargetHit     MessageType = "targetHit"
	MessageTypeServerHitRejected   MessageType = "hitRejected"
	MessageTypeServerLeaderboard   MessageType = "leaderboard"
)

// Message is an inbound or outbound frame. Payload holds the frame's JSON object,
// including its "type" field for inbound frames.
type Message struct {
	// ClientID is the connection the message arrived on. Empty for server messages.
	ClientID string          `json:"-"`
	Type     MessageType     `json:"type"`
	Payload  json.RawMessage `json:"-"`
}

// Target is a target as seen by clients.
type Target struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type ClientLogin struct {
	Username string `json:"username"`
	// Token is required when the server verifies identities.
	Token string `json:"token,omitempty"`
}

type ClientHit struct {
	TargetID uint64 `json:"targetId"`
}

type ClientGetLeaderboard struct{}

// ClientGameEnd is client telemetry sent when a round ends. It does not change game state.
type ClientGameEnd struct {
	FinalScore int     `json:"finalScore"`
	GameTime   float64 `json:"gameTime"`
	TargetsHit int     `json:"targetsHit"`
}

type ServerLoginSuccess struct {
	Username string `json:"username"`
}

type ServerLoginFailure struct {
	Reason string `json:"reason"`
}

type ServerInitTargets struct {
	Targets []Target `json:"targets"`
}

type ServerNewTarget struct {
	Target Target `json:"target"`
}

type ServerUpdateTargets struct {
	Targets []Target `json:"targets"`
}

type ServerTargetHit struct {
	TargetID uint64 `json:"targetId"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type ServerHitRejected struct {
	TargetID uint64 `json:"targetId"`
}

type ServerLeaderboard struct {
	Data []LeaderboardEntry `json:"data"`
}
