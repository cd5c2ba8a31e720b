package tpht_test

import (
	"testing"

	"github.com/EinfachAndy/oha/pkg/tpht"
	"github.com/stretchr/testify/require"
)

func key8(n uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> (8 * i))
	}

	return b
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := tpht.New(tpht.Config{KeySize: 0, ValueSize: 8, MaxElems: 4})
	require.ErrorIs(t, err, tpht.ErrInvalidConfig)
}

func TestInsertLookupRemove_NoTimeoutSlot(t *testing.T) {
	tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 16, Resizable: true})
	require.NoError(t, err)

	v, err := tbl.Insert(key8(1), key8(100), 0)
	require.NoError(t, err)
	require.Equal(t, key8(100), v)

	got, ok := tbl.Lookup(key8(1))
	require.True(t, ok)
	require.Equal(t, key8(100), got)

	removed, ok := tbl.Remove(key8(1))
	require.True(t, ok)
	require.Equal(t, key8(100), removed)

	_, ok = tbl.Lookup(key8(1))
	require.False(t, ok)
}

func TestInsert_Idempotent(t *testing.T) {
	tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 16})
	require.NoError(t, err)

	v1, err := tbl.Insert(key8(1), key8(11), 0)
	require.NoError(t, err)

	v2, err := tbl.Insert(key8(1), key8(99), 0)
	require.NoError(t, err)

	require.Equal(t, v1, v2)
	require.Equal(t, 1, tbl.Len())
}

func TestAddTimeoutSlot_Cap(t *testing.T) {
	tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 16})
	require.NoError(t, err)

	for i := 0; i < 127; i++ {
		_, err := tbl.AddTimeoutSlot(100, 16, true)
		require.NoError(t, err)
	}

	_, err = tbl.AddTimeoutSlot(100, 16, true)
	require.ErrorIs(t, err, tpht.ErrTooManySlots)
}

func TestIncreaseGlobalTime_Monotonic(t *testing.T) {
	tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 16})
	require.NoError(t, err)

	require.NoError(t, tbl.IncreaseGlobalTime(100))
	require.ErrorIs(t, tbl.IncreaseGlobalTime(50), tpht.ErrTimeWentBackwards)
}

// TestTwoSlotTimeoutSweep directly reproduces spec scenario 5: two slots
// with different timeouts, entries migrated between them, swept in
// registration order.
func TestTwoSlotTimeoutSweep(t *testing.T) {
	tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 100, Resizable: true})
	require.NoError(t, err)

	slot1, err := tbl.AddTimeoutSlot(50, 128, true)
	require.NoError(t, err)
	slot2, err := tbl.AddTimeoutSlot(200, 128, true)
	require.NoError(t, err)

	require.NoError(t, tbl.IncreaseGlobalTime(1000))

	for i := uint64(0); i < 100; i++ {
		_, err := tbl.Insert(key8(i), key8(i), 0)
		require.NoError(t, err)
	}

	require.NoError(t, tbl.IncreaseGlobalTime(2000))
	require.Empty(t, tbl.NextTimeoutEntries(1000))

	ok, err := tbl.SetTimeoutSlot(key8(5), slot1)
	require.NoError(t, err)
	require.True(t, ok)

	for i := uint64(10); i < 30; i++ {
		require.NoError(t, tbl.IncreaseGlobalTime(2000+int64(i)))
		ok, err := tbl.SetTimeoutSlot(key8(i), slot1)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.NoError(t, tbl.IncreaseGlobalTime(2050))

	entries := tbl.NextTimeoutEntries(1000)
	require.Len(t, entries, 1)
	require.Equal(t, key8(5), entries[0].Key)

	require.NoError(t, tbl.IncreaseGlobalTime(2064))

	entries = tbl.NextTimeoutEntries(1000)
	require.Len(t, entries, 5)

	for i, e := range entries {
		require.Equal(t, key8(uint64(10+i)), e.Key)
	}

	for i := uint64(15); i < 25; i++ {
		ok, err := tbl.SetTimeoutSlot(key8(i), slot2)
		require.NoError(t, err)
		require.True(t, ok)
	}

	require.NoError(t, tbl.IncreaseGlobalTime(2080))

	entries = tbl.NextTimeoutEntries(1000)
	require.Len(t, entries, 5)

	for i, e := range entries {
		require.Equal(t, key8(uint64(25+i)), e.Key)
	}

	// Keys 15..24 moved into slot2 (timeout 200) keep the timestamp they
	// were assigned when first enrolled (2015..2024), since moving
	// between two nonzero slots preserves timestamp. They become ripe,
	// in ascending order, once global time passes ts+200 for each.
	require.NoError(t, tbl.IncreaseGlobalTime(2024+200))

	entries = tbl.NextTimeoutEntries(1000)
	require.Len(t, entries, 10)

	for i, e := range entries {
		require.Equal(t, key8(uint64(15+i)), e.Key)
	}
}

// TestUpdateTimeForEntry directly reproduces spec scenario 6.
func TestUpdateTimeForEntry(t *testing.T) {
	tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 16, Resizable: true})
	require.NoError(t, err)

	slot1, err := tbl.AddTimeoutSlot(1000, 16, true)
	require.NoError(t, err)

	require.NoError(t, tbl.IncreaseGlobalTime(1000))
	_, err = tbl.Insert(key8(7), key8(7), slot1)
	require.NoError(t, err)

	require.NoError(t, tbl.IncreaseGlobalTime(1001))
	_, err = tbl.Insert(key8(9), key8(9), slot1)
	require.NoError(t, err)

	require.NoError(t, tbl.IncreaseGlobalTime(1999))
	require.Empty(t, tbl.NextTimeoutEntries(10))

	ok := tbl.UpdateTimeForEntry(key8(7), 2500)
	require.True(t, ok)

	require.NoError(t, tbl.IncreaseGlobalTime(2001))
	entries := tbl.NextTimeoutEntries(10)
	require.Len(t, entries, 1)
	require.Equal(t, key8(9), entries[0].Key)

	require.NoError(t, tbl.IncreaseGlobalTime(3500))
	entries = tbl.NextTimeoutEntries(10)
	require.Len(t, entries, 1)
	require.Equal(t, key8(7), entries[0].Key)
}

// TestRemove_EvictsFromTimeoutSlot checks that removing an enrolled entry
// also frees its slot in the heap, so a later sweep never reports it.
func TestRemove_EvictsFromTimeoutSlot(t *testing.T) {
	tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 16, Resizable: true})
	require.NoError(t, err)

	slot1, err := tbl.AddTimeoutSlot(10, 16, true)
	require.NoError(t, err)

	require.NoError(t, tbl.IncreaseGlobalTime(0))
	_, err = tbl.Insert(key8(1), key8(1), slot1)
	require.NoError(t, err)

	_, ok := tbl.Remove(key8(1))
	require.True(t, ok)

	require.NoError(t, tbl.IncreaseGlobalTime(1000))
	require.Empty(t, tbl.NextTimeoutEntries(10))
}
