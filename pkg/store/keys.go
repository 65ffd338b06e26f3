package store

import "fmt"

// Key layout. The zero-padded 20-digit millisecond timestamp inside
// message keys makes lexicographic key order equal chronological order,
// with ties at the same millisecond broken by message id.
//
//	room:<room_id>:seat:<country>      seat claim marker
//	room:<room_id>:conversations       JSON array of conversation ids
//	conv:<conv_id>:meta                conversation metadata
//	conv:<conv_id>:msg:<ts20>:<msgid>  message record

// SeatKey is the claim-marker key for one (room, country) seat.
func SeatKey(roomID, country string) string {
	return fmt.Sprintf("room:%s:seat:%s", roomID, country)
}

// RoomConversationsKey holds the per-room conversation id index.
func RoomConversationsKey(roomID string) string {
	return fmt.Sprintf("room:%s:conversations", roomID)
}

// ConversationMetaKey holds a conversation's metadata record.
func ConversationMetaKey(convID string) string {
	return fmt.Sprintf("conv:%s:meta", convID)
}

// MessagePrefix is the common prefix of all message keys in a
// conversation.
func MessagePrefix(convID string) string {
	return fmt.Sprintf("conv:%s:msg:", convID)
}

// MessageKey builds the storage key for one message.
func MessageKey(convID string, ts int64, msgID string) string {
	return fmt.Sprintf("conv:%s:msg:%020d:%s", convID, ts, msgID)
}

// MessageBoundary builds the exclusive lower bound used by incremental
// reads: every key lexicographically <= this boundary carries a timestamp
// at or before `since`. The terminator is ';', the byte after the ':'
// separator, so the boundary sorts after every real key within the
// `since` millisecond and strictly before any later one.
func MessageBoundary(convID string, since int64) string {
	return fmt.Sprintf("conv:%s:msg:%020d;", convID, since)
}
