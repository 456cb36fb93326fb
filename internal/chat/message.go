// Package chat defines the transport-independent inbound message model.
//
// The transport layer (Telegram today) maps its own update types onto
// Message before anything downstream sees them, so the extractor, resolver
// and ledger never import a transport SDK.
package chat

import "encoding/json"

// Sender identifies the account that sent a message.
type Sender struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsBot     bool   `json:"is_bot"`
}

// Message is one inbound chat message as delivered by the transport.
// Date is epoch seconds, as received on the wire.
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
	Date      int64
	Sender    Sender
	ChatType  string
	ChatTitle string
}

// envelope mirrors the raw event structure persisted for audit. The shape
// matches what the bot has always stored: enough to reconstruct who said
// what, where, and when, without depending on a transport SDK type.
type envelope struct {
	MessageID int          `json:"message_id"`
	From      Sender       `json:"from"`
	Chat      envelopeChat `json:"chat"`
	Date      int64        `json:"date"`
	Text      string       `json:"text"`
}

type envelopeChat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

// RawEnvelope serializes the message into the opaque audit payload stored
// alongside an acknowledgment. The ledger never inspects this after writing.
func (m Message) RawEnvelope() ([]byte, error) {
	return json.Marshal(envelope{
		MessageID: m.MessageID,
		From:      m.Sender,
		Chat: envelopeChat{
			ID:    m.ChatID,
			Type:  m.ChatType,
			Title: m.ChatTitle,
		},
		Date: m.Date,
		Text: m.Text,
	})
}
