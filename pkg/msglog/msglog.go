// Package msglog is the append-only, time-ordered message log. Messages
// live under keys whose zero-padded millisecond timestamp makes the
// store's lexicographic key order equal chronological order.
package msglog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"councild/pkg/apperr"
	"councild/pkg/convo"
	"councild/pkg/logger"
	"councild/pkg/models"
	"councild/pkg/store"
)

const (
	// MaxContentBytes bounds message content; the minimum is one byte.
	MaxContentBytes = 4096
	// MaxFetch caps a single read. Clients page by resubmitting the last
	// observed timestamp as `since`.
	MaxFetch = 200
)

// Log appends and reads conversation messages.
type Log struct {
	kv  store.KV
	dir *convo.Directory
	now func() time.Time
}

// New builds a Log over the given store and directory.
func New(kv store.KV, dir *convo.Directory) *Log {
	return &Log{kv: kv, dir: dir, now: time.Now}
}

// authorize loads the conversation and checks the caller may touch it:
// the conversation must exist, belong to the caller's room, and list the
// caller as a participant.
func (l *Log) authorize(claims models.Claims, convID string) (models.Conversation, error) {
	meta, ok, err := l.dir.Get(convID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !ok {
		return models.Conversation{}, apperr.NotFound("conversation not found")
	}
	if meta.RoomID != claims.RoomID || !meta.HasParticipant(claims.Country) {
		return models.Conversation{}, apperr.Forbidden("not a participant of this conversation")
	}
	return meta, nil
}

// Append writes one message and returns its id. The timestamp is
// assigned server-side at write time; the id is a random UUID. Validation
// happens before the single store write, so a failed append leaves no
// partial state.
func (l *Log) Append(claims models.Claims, convID, content string) (string, error) {
	if len(content) < 1 || len(content) > MaxContentBytes {
		return "", apperr.BadRequest("content must be 1-4096 bytes")
	}
	if _, err := l.authorize(claims, convID); err != nil {
		return "", err
	}

	ts := l.now().UnixMilli()
	msgID := uuid.NewString()
	msg := models.Message{
		MessageID:      msgID,
		RoomID:         claims.RoomID,
		ConversationID: convID,
		SenderCountry:  claims.Country,
		Content:        content,
		Timestamp:      ts,
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", apperr.Internal("message encode failed", err)
	}
	if err := l.kv.Put(store.MessageKey(convID, ts, msgID), string(raw)); err != nil {
		return "", apperr.Internal("message write failed", err)
	}
	logger.Info("message_appended", "conversation", convID, "sender", claims.Country, "id", msgID)
	return msgID, nil
}

// Read returns up to MaxFetch messages strictly after `since`
// (milliseconds), in ascending chronological order. since=0 reads from
// the beginning. The store's List contract returns keys already sorted;
// filtering is a plain boundary-key comparison.
func (l *Log) Read(claims models.Claims, convID string, since int64) ([]models.Message, error) {
	if _, err := l.authorize(claims, convID); err != nil {
		return nil, err
	}

	keys, err := l.kv.List(store.MessagePrefix(convID))
	if err != nil {
		return nil, apperr.Internal("message list failed", err)
	}

	boundary := store.MessageBoundary(convID, since)
	out := make([]models.Message, 0, min(len(keys), MaxFetch))
	for _, key := range keys {
		// Strictly-greater-than filtering: a key equal to or before the
		// boundary is a message at or before `since`.
		if since > 0 && key <= boundary {
			continue
		}
		raw, ok, err := l.kv.Get(key)
		if err != nil {
			return nil, apperr.Internal("message fetch failed", err)
		}
		if !ok {
			continue
		}
		var msg models.Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			return nil, apperr.Internal("message decode failed", err)
		}
		out = append(out, msg)
		if len(out) >= MaxFetch {
			break
		}
	}
	return out, nil
}
