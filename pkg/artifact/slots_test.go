package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const nftSlotsPath = "../../contracts/nft/storage_slots.json"

func TestReadStorageSlots(t *testing.T) {
	slots, err := ReadStorageSlots(nftSlotsPath)
	require.NoError(t, err)
	require.Equal(t, []StorageSlot{{Key: []byte("metadataName"), Value: []byte("Example")}}, slots)

	dir := t.TempDir()
	testCases := map[string]string{
		"not an array": `{"key": "01", "value": "02"}`,
		"bad key":      `[{"key": "zz", "value": "02"}]`,
		"empty key":    `[{"key": "", "value": "02"}]`,
		"bad value":    `[{"key": "01", "value": "0"}]`,
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "slots.json")
			require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
			_, err := ReadStorageSlots(path)
			require.Error(t, err)
		})
	}
	t.Run("empty value", func(t *testing.T) {
		path := filepath.Join(dir, "slots.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"key": "01", "value": ""}]`), 0o644))
		slots, err := ReadStorageSlots(path)
		require.NoError(t, err)
		require.Equal(t, []StorageSlot{{Key: []byte{1}, Value: []byte{}}}, slots)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadStorageSlots(filepath.Join(dir, "missing.json"))
		require.Error(t, err)
	})
}

func TestStorageSlot_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]StorageSlot{{Key: []byte{0xab}, Value: []byte{1, 2}}})
	require.NoError(t, err)
	require.JSONEq(t, `[{"key": "ab", "value": "0102"}]`, string(data))
}

func TestSlotsToDeployData(t *testing.T) {
	require.Equal(t, []any{}, SlotsToDeployData(nil))
	require.Equal(t, []any{
		[]any{[]byte{1}, []byte{2}},
		[]any{[]byte{3}, []byte{}},
	}, SlotsToDeployData([]StorageSlot{
		{Key: []byte{1}, Value: []byte{2}},
		{Key: []byte{3}, Value: []byte{}},
	}))
}
