package lpht_test

import (
	"testing"

	"github.com/EinfachAndy/oha/pkg/lpht"
	"github.com/stretchr/testify/require"
)

// FuzzInsertLookupRemove feeds arbitrary key byte streams through a
// resizable table and checks that every inserted key remains looked-up-able
// with its written value until removed, and not after.
func FuzzInsertLookupRemove(f *testing.F) {
	f.Add([]byte{0, 0, 0, 0})
	f.Add([]byte{1, 2, 3, 4})

	f.Fuzz(func(t *testing.T, seed []byte) {
		if len(seed) == 0 {
			return
		}

		tbl, err := lpht.New(lpht.Config{KeySize: 4, ValueSize: 1, MaxElems: 1, Resizable: true})
		require.NoError(t, err)

		for i := 0; i+3 < len(seed); i += 4 {
			k := seed[i : i+4]

			switch seed[i] % 3 {
			case 0, 1:
				v, err := tbl.Insert(k)
				require.NoError(t, err)
				v[0] = k[0]
			default:
				tbl.Remove(k)
			}
		}

		for i := 0; i+3 < len(seed); i += 4 {
			k := seed[i : i+4]

			v, ok := tbl.Lookup(k)
			if ok {
				require.Equal(t, k[0], v[0])
			}
		}
	})
}
