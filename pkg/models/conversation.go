package models

// Conversation is the stored metadata for one negotiation channel.
// Participants are kept in sorted order; the record is written once and
// never mutated.
type Conversation struct {
	RoomID       string   `json:"room_id"`
	Participants []string `json:"participants"`
}

// HasParticipant reports whether c lists the given country.
func (c Conversation) HasParticipant(country string) bool {
	for _, p := range c.Participants {
		if p == country {
			return true
		}
	}
	return false
}

// ConversationSummary is the list-endpoint view of a conversation.
type ConversationSummary struct {
	ConversationID string   `json:"conversation_id"`
	Participants   []string `json:"participants"`
}
