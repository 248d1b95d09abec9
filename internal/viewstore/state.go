package viewstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/chartscope/internal/contract"
	"github.com/huangsam/chartscope/schema"
)

// stateVersion is bumped whenever the encoding of schema.ViewState changes.
// Entries with another version are treated as missing.
const stateVersion = 1

// LoadViewState reads the view state stored under key. ok is false when the
// store is nil or holds nothing usable for key.
func LoadViewState(store contract.ViewStore, key string) (state schema.ViewState, ok bool, err error) {
	if store == nil {
		return schema.ViewState{}, false, nil
	}
	data, version, _, err := store.Get(key)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.ViewState{}, false, nil
	}
	if err != nil {
		return schema.ViewState{}, false, fmt.Errorf("failed to read view state %s: %w", key, err)
	}
	if version != stateVersion {
		contract.Logger().Debug("ignoring view state with old version", "key", key, "version", version)
		return schema.ViewState{}, false, nil
	}
	if err := json.Unmarshal(data, &state); err != nil {
		contract.Logger().Warn("ignoring unreadable view state", "key", key, "err", err)
		return schema.ViewState{}, false, nil
	}
	return state, true, nil
}

// SaveViewState writes state under key. A nil store is a no-op.
func SaveViewState(store contract.ViewStore, key string, state schema.ViewState) error {
	if store == nil {
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode view state: %w", err)
	}
	if err := store.Set(key, data, stateVersion, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save view state %s: %w", key, err)
	}
	return nil
}
