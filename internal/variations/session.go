package variations

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/errors"
	"github.com/kleytondigital/shopflow-catalog-ai-sub006/pkg/redis"
)

// DraftState is the serialized form of one editing session's working set.
// A session owns its set exclusively; two sessions on the same product
// resolve last-write-wins at commit time.
type DraftState struct {
	SessionID string        `json:"session_id"`
	ProductID uuid.UUID     `json:"product_id"`
	Version   int64         `json:"version"`
	Items     []Combination `json:"items"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// draftKV is the slice of the Redis client the draft store needs.
type draftKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DraftSessionKey(productID, sessionID string) string
}

// DraftStore persists editing sessions in Redis as JSON blobs with a TTL, so
// an abandoned form expires on its own.
type DraftStore struct {
	kv  draftKV
	ttl time.Duration
}

// NewDraftStore builds a draft store. A non-positive TTL means drafts never
// expire.
func NewDraftStore(kv draftKV, ttl time.Duration) *DraftStore {
	return &DraftStore{kv: kv, ttl: ttl}
}

// Save serializes the state and refreshes the session TTL.
func (d *DraftStore) Save(ctx context.Context, state DraftState) error {
	state.UpdatedAt = time.Now().UTC()
	blob, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode draft session")
	}
	key := d.kv.DraftSessionKey(state.ProductID.String(), state.SessionID)
	if err := d.kv.Set(ctx, key, string(blob), d.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store draft session")
	}
	return nil
}

// Load returns the session state, or a not-found error when the session is
// unknown or has expired.
func (d *DraftStore) Load(ctx context.Context, productID uuid.UUID, sessionID string) (*DraftState, error) {
	key := d.kv.DraftSessionKey(productID.String(), sessionID)
	blob, err := d.kv.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "editing session not found or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load draft session")
	}
	var state DraftState
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode draft session")
	}
	return &state, nil
}

// Delete discards the session.
func (d *DraftStore) Delete(ctx context.Context, productID uuid.UUID, sessionID string) error {
	key := d.kv.DraftSessionKey(productID.String(), sessionID)
	if err := d.kv.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete draft session")
	}
	return nil
}
