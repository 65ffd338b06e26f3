package models

// Message is one immutable entry in a conversation log. Timestamp is
// server-assigned at write time, in milliseconds since epoch. Messages
// are ordered by (timestamp, message id) through their storage key.
type Message struct {
	MessageID      string `json:"message_id"`
	RoomID         string `json:"room_id"`
	ConversationID string `json:"conversation_id"`
	SenderCountry  string `json:"sender_country"`
	Content        string `json:"content"`
	Timestamp      int64  `json:"timestamp"`
}
