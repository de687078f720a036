package artifact

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// StorageSlot is a key-value pair put into contract storage on deployment.
type StorageSlot struct {
	Key   []byte
	Value []byte
}

type storageSlotAux struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MarshalJSON implements the json.Marshaler interface, key and value are
// hex-encoded.
func (s StorageSlot) MarshalJSON() ([]byte, error) {
	return json.Marshal(storageSlotAux{
		Key:   hex.EncodeToString(s.Key),
		Value: hex.EncodeToString(s.Value),
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *StorageSlot) UnmarshalJSON(data []byte) error {
	var aux storageSlotAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	key, err := hex.DecodeString(aux.Key)
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	if len(key) == 0 {
		return errors.New("empty key")
	}
	value, err := hex.DecodeString(aux.Value)
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	s.Key, s.Value = key, value
	return nil
}

// ReadStorageSlots parses storage slots descriptor file: a JSON array of
// {"key": "<hex>", "value": "<hex>"} objects.
func ReadStorageSlots(path string) ([]StorageSlot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read storage slots: %w", err)
	}
	var slots []StorageSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("can't parse storage slots %s: %w", path, err)
	}
	return slots, nil
}

// SlotsToDeployData converts slots into deployment data parameter: an array
// of [key, value] byte string pairs.
func SlotsToDeployData(slots []StorageSlot) []any {
	data := make([]any, 0, len(slots))
	for _, s := range slots {
		data = append(data, []any{s.Key, s.Value})
	}
	return data
}
