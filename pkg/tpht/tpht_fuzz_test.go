package tpht_test

import (
	"testing"

	"github.com/EinfachAndy/oha/pkg/tpht"
	"github.com/stretchr/testify/require"
)

// FuzzInsertSweep exercises insert/advance-time/sweep sequences and
// checks the one invariant that must hold no matter what: every entry a
// sweep reports really had its timeout elapsed against the clock value
// current at the moment of that sweep.
func FuzzInsertSweep(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8}, int64(100))
	f.Add([]byte{0, 0, 0, 0, 0, 0, 0, 0}, int64(0))

	f.Fuzz(func(t *testing.T, seed []byte, timeoutSeed int64) {
		if len(seed) < 8 {
			return
		}

		timeout := timeoutSeed % 1000
		if timeout < 0 {
			timeout = -timeout
		}

		tbl, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 1, MaxElems: 1, Resizable: true})
		require.NoError(t, err)

		slot, err := tbl.AddTimeoutSlot(timeout, 1, true)
		require.NoError(t, err)

		var clock int64
		enrolledAt := map[string]int64{}

		for i := 0; i+7 < len(seed); i += 8 {
			k := seed[i : i+8]

			clock += int64(k[0])
			require.NoError(t, tbl.IncreaseGlobalTime(clock))

			_, err := tbl.Insert(k, k[:1], slot)
			require.NoError(t, err)

			if _, seen := enrolledAt[string(k)]; !seen {
				enrolledAt[string(k)] = clock
			}
		}

		clock += 10_000
		require.NoError(t, tbl.IncreaseGlobalTime(clock))

		entries := tbl.NextTimeoutEntries(1 << 20)
		for _, e := range entries {
			require.LessOrEqual(t, len(e.Key), 8)
			require.LessOrEqual(t, enrolledAt[string(e.Key)]+timeout, clock)
		}
	})
}
