// Package convo derives conversation identities and keeps conversation
// metadata plus the per-room conversation index.
package convo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"councild/pkg/apperr"
	"councild/pkg/country"
	"councild/pkg/logger"
	"councild/pkg/models"
	"councild/pkg/store"
)

const (
	minParticipants = 2
	maxParticipants = 3
)

// DeriveID computes the deterministic conversation id for a participant
// set: sha256 over "room:p1:p2[:p3]" with participants sorted, truncated
// to 16 bytes and hex-encoded. Order-independent and side-effect free.
func DeriveID(roomID string, participants []string) string {
	sorted := country.Sorted(participants)
	sum := sha256.Sum256([]byte(roomID + ":" + strings.Join(sorted, ":")))
	return hex.EncodeToString(sum[:16])
}

// Directory persists conversation metadata and the room index.
type Directory struct {
	kv store.KV
}

// NewDirectory builds a Directory over the given store.
func NewDirectory(kv store.KV) *Directory {
	return &Directory{kv: kv}
}

func validParticipants(participants []string, caller string) error {
	if len(participants) < minParticipants || len(participants) > maxParticipants {
		return apperr.BadRequest("participants must be 2 or 3")
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if !country.Valid(p) {
			return apperr.BadRequest("invalid participant country")
		}
		if _, dup := seen[p]; dup {
			return apperr.BadRequest("duplicate participant")
		}
		seen[p] = struct{}{}
	}
	if _, ok := seen[caller]; !ok {
		return apperr.Forbidden("caller must be a participant")
	}
	return nil
}

// Create derives the conversation id for (room, participants) and
// persists metadata plus a room-index entry on first creation. Re-creating
// the same set is idempotent: the existing metadata is left untouched and
// the same id is returned.
func (d *Directory) Create(claims models.Claims, roomID string, participants []string) (string, error) {
	if roomID != claims.RoomID {
		return "", apperr.Unauthorized("room mismatch")
	}
	if err := validParticipants(participants, claims.Country); err != nil {
		return "", err
	}

	convID := DeriveID(claims.RoomID, participants)
	metaKey := store.ConversationMetaKey(convID)
	_, exists, err := d.kv.Get(metaKey)
	if err != nil {
		return "", apperr.Internal("conversation lookup failed", err)
	}
	if exists {
		return convID, nil
	}

	meta := models.Conversation{
		RoomID:       claims.RoomID,
		Participants: country.Sorted(participants),
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return "", apperr.Internal("conversation encode failed", err)
	}
	if err := d.kv.Put(metaKey, string(raw)); err != nil {
		return "", apperr.Internal("conversation write failed", err)
	}
	if err := d.indexAppend(claims.RoomID, convID); err != nil {
		return "", err
	}
	logger.Info("conversation_created", "room", claims.RoomID, "conversation", convID)
	return convID, nil
}

// indexAppend adds convID to the room's conversation index unless it is
// already present. The duplicate check guards against retried or racing
// creates re-appending the same id.
func (d *Directory) indexAppend(roomID, convID string) error {
	idxKey := store.RoomConversationsKey(roomID)
	ids, err := d.readIndex(idxKey)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == convID {
			return nil
		}
	}
	ids = append(ids, convID)
	raw, err := json.Marshal(ids)
	if err != nil {
		return apperr.Internal("room index encode failed", err)
	}
	if err := d.kv.Put(idxKey, string(raw)); err != nil {
		return apperr.Internal("room index write failed", err)
	}
	return nil
}

func (d *Directory) readIndex(idxKey string) ([]string, error) {
	raw, ok, err := d.kv.Get(idxKey)
	if err != nil {
		return nil, apperr.Internal("room index lookup failed", err)
	}
	if !ok {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, apperr.Internal("room index decode failed", err)
	}
	return ids, nil
}

// Get loads conversation metadata by id.
func (d *Directory) Get(convID string) (models.Conversation, bool, error) {
	raw, ok, err := d.kv.Get(store.ConversationMetaKey(convID))
	if err != nil {
		return models.Conversation{}, false, apperr.Internal("conversation lookup failed", err)
	}
	if !ok {
		return models.Conversation{}, false, nil
	}
	var meta models.Conversation
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return models.Conversation{}, false, apperr.Internal("conversation decode failed", err)
	}
	return meta, true, nil
}

// List returns the conversations in the caller's room that include the
// caller as a participant. Index entries whose metadata is missing (a
// half-finished create) are skipped.
func (d *Directory) List(claims models.Claims) ([]models.ConversationSummary, error) {
	ids, err := d.readIndex(store.RoomConversationsKey(claims.RoomID))
	if err != nil {
		return nil, err
	}
	out := make([]models.ConversationSummary, 0, len(ids))
	for _, id := range ids {
		meta, ok, err := d.Get(id)
		if err != nil {
			return nil, err
		}
		if !ok || !meta.HasParticipant(claims.Country) {
			continue
		}
		out = append(out, models.ConversationSummary{
			ConversationID: id,
			Participants:   meta.Participants,
		})
	}
	return out, nil
}
