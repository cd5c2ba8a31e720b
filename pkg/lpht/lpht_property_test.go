package lpht_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/EinfachAndy/oha/pkg/lpht"
	lphtmodel "github.com/EinfachAndy/oha/pkg/lpht/model"
	"github.com/stretchr/testify/require"
)

func Test_Table_Matches_Model_Property(t *testing.T) {
	const seedCount = 50
	const opsPerSeed = 300
	const keySize = 4
	const valueSize = 4

	for i := 0; i < seedCount; i++ {
		seed := int64(i + 1)

		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewSource(seed))

			real, err := lpht.New(lpht.Config{KeySize: keySize, ValueSize: valueSize, MaxElems: 1, Resizable: true})
			require.NoError(t, err)

			m := lphtmodel.New(valueSize)

			for op := 0; op < opsPerSeed; op++ {
				k := make([]byte, keySize)
				rng.Read(k)

				switch rng.Intn(3) {
				case 0:
					mv := m.Insert(k)
					rv, err := real.Insert(k)
					require.NoError(t, err)
					require.Equal(t, len(mv), len(rv))

					if rng.Intn(2) == 0 {
						b := byte(rng.Intn(256))
						for i := range mv {
							mv[i] = b
						}
						copy(rv, mv)
					}

				case 1:
					mv, mOK := m.Lookup(k)
					rv, rOK := real.Lookup(k)
					require.Equal(t, mOK, rOK)

					if mOK {
						require.Equal(t, mv, rv)
					}

				default:
					mOK := m.Remove(k)
					rOK := real.Remove(k)
					require.Equal(t, mOK, rOK)
				}

				require.Equal(t, m.Len(), real.Len())
			}

			for _, k := range m.Keys() {
				mv, _ := m.Lookup(k)
				rv, ok := real.Lookup(k)
				require.True(t, ok)
				require.Equal(t, mv, rv)
			}
		})
	}
}
