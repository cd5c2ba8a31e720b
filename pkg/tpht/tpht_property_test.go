package tpht_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/EinfachAndy/oha/pkg/tpht"
	tphtmodel "github.com/EinfachAndy/oha/pkg/tpht/model"
	"github.com/stretchr/testify/require"
)

// Test_Table_Matches_Model_Property drives identical randomized operation
// sequences against the real table and the reference model, checking
// after every operation that the two agree on membership and that the
// stricter TPHT-consistency invariant - every slotted entry has exactly
// one matching heap entry - holds.
func Test_Table_Matches_Model_Property(t *testing.T) {
	const seedCount = 30
	const opsPerSeed = 200
	const numSlots = 2

	for i := 0; i < seedCount; i++ {
		seed := int64(i + 1)

		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewSource(seed))

			real, err := tpht.New(tpht.Config{KeySize: 8, ValueSize: 8, MaxElems: 1, Resizable: true})
			require.NoError(t, err)

			m := tphtmodel.New()

			var realSlots []uint8
			for s := 0; s < numSlots; s++ {
				timeout := int64(10 + s*50)

				slotID, err := real.AddTimeoutSlot(timeout, 1, true)
				require.NoError(t, err)
				require.Equal(t, slotID, m.AddTimeoutSlot(timeout))

				realSlots = append(realSlots, slotID)
			}

			var clock int64
			var universe [][]byte

			for op := 0; op < opsPerSeed; op++ {
				switch rng.Intn(5) {
				case 0:
					clock += int64(rng.Intn(30))
					require.NoError(t, real.IncreaseGlobalTime(clock))
					require.True(t, m.IncreaseGlobalTime(clock))

				case 1:
					k := make([]byte, 8)
					rng.Read(k)
					v := make([]byte, 8)
					rng.Read(v)

					var slotID uint8
					if rng.Intn(2) == 0 {
						slotID = realSlots[rng.Intn(len(realSlots))]
					}

					rv, err := real.Insert(k, v, slotID)
					require.NoError(t, err)
					mv := m.Insert(string(k), v, slotID)
					require.Equal(t, mv, rv)

					universe = append(universe, k)

				case 2:
					if len(universe) == 0 {
						continue
					}

					k := universe[rng.Intn(len(universe))]
					rv, rOK := real.Remove(k)
					mv, mOK := m.Remove(string(k))
					require.Equal(t, mOK, rOK)

					if mOK {
						require.Equal(t, mv, rv)
					}

				case 3:
					if len(universe) == 0 || len(realSlots) == 0 {
						continue
					}

					k := universe[rng.Intn(len(universe))]
					slotID := realSlots[rng.Intn(len(realSlots))]

					rOK, err := real.SetTimeoutSlot(k, slotID)
					require.NoError(t, err)

					mOK := m.SetTimeoutSlot(string(k), slotID)
					require.Equal(t, mOK, rOK)

				default:
					if len(universe) == 0 {
						continue
					}

					k := universe[rng.Intn(len(universe))]
					newTS := clock + int64(rng.Intn(50))

					rOK := real.UpdateTimeForEntry(k, newTS)
					mOK := m.UpdateTimeForEntry(string(k), newTS)
					require.Equal(t, mOK, rOK)
				}

				require.Equal(t, m.Len(), real.Len())
			}

			// Sweep everything out and compare the final multiset of
			// expired keys, order notwithstanding within a slot's own
			// report (both implementations sweep in registration order
			// and ascending timestamp within a slot).
			realExpired := real.NextTimeoutEntries(1 << 20)
			modelExpired := m.NextTimeoutEntries(1 << 20)

			var realKeys []string
			for _, e := range realExpired {
				realKeys = append(realKeys, string(e.Key))
			}

			sort.Strings(realKeys)
			sort.Strings(modelExpired)

			require.Equal(t, modelExpired, realKeys)
		})
	}
}
