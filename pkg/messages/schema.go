package messages

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// payloads maps every message type to its payload struct.
var payloads = map[MessageType]interface{}{
	MessageTypeClientLogin:          &ClientLogin{},
	MessageTypeClientHit:            &ClientHit{},
	MessageTypeClientGetLeaderboard: &ClientGetLeaderboard{},
	MessageTypeClientGameEnd:        &ClientGameEnd{},
	MessageTypeServerLoginSuccess:   &ServerLoginSuccess{},
	MessageTypeServerLoginFailure:   &ServerLoginFailure{},
	MessageTypeServerInitTargets:    &ServerInitTargets{},
	MessageTypeServerNewTarget:      &ServerNewTarget{},
	MessageTypeServerUpdateTargets:  &ServerUpdateTargets{},
	MessageTypeServerTargetHit:      &ServerTargetHit{},
	MessageTypeServerHitRejected:    &ServerHitRejected{},
	MessageTypeServerLeaderboard:    &ServerLeaderboard{},
}

// Schemas returns the JSON Schema of the payload of every message type.
// Every frame carries its type in an additional "type" field.
func Schemas() map[MessageType]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schemas := make(map[MessageType]*jsonschema.Schema, len(payloads))
	for t, payload := range payloads {
		schema := reflector.Reflect(payload)
		schema.Title = string(t)
		schema.Description = fmt.Sprintf("Payload of the %s message", t)
		schemas[t] = schema
	}
	return schemas
}
