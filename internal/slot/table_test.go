package slot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type key struct {
	sat    string
	column int
}

func TestNewTable(t *testing.T) {
	tbl := NewTable[key, *int]()

	require.NotNil(t, tbl)
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, 0, tbl.Created())
	require.Equal(t, 0, tbl.Retired())
}

func TestTable_GetOrCreate(t *testing.T) {
	tbl := NewTable[key, *int]()
	calls := 0
	create := func() (*int, error) {
		calls++
		v := calls
		return &v, nil
	}

	v, created, err := tbl.GetOrCreate(key{"G01", 0}, create)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 1, *v)

	v, created, err = tbl.GetOrCreate(key{"G01", 0}, create)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, 1, *v)
	require.Equal(t, 1, calls)

	_, _, err = tbl.GetOrCreate(key{"G01", 1}, func() (*int, error) { return nil, errors.New("boom") })
	require.EqualError(t, err, "boom")
	require.Equal(t, 1, tbl.Len())
	require.Equal(t, 1, tbl.Created())
}

func TestTable_Retire(t *testing.T) {
	tbl := NewTable[key, int]()
	_, _, _ = tbl.GetOrCreate(key{"G05", 0}, func() (int, error) { return 7, nil })

	require.True(t, tbl.Retire(key{"G05", 0}))
	require.False(t, tbl.Retire(key{"G05", 0}))
	require.Equal(t, 1, tbl.Retired())

	_, ok := tbl.Get(key{"G05", 0})
	require.False(t, ok)

	v, created, err := tbl.GetOrCreate(key{"G05", 0}, func() (int, error) { return 9, nil })
	require.NoError(t, err)
	require.True(t, created, "a retired key comes back as a new entry")
	require.Equal(t, 9, v)
}

func TestTable_RetireUnless(t *testing.T) {
	tbl := NewTable[key, int]()
	for _, k := range []key{{"G01", 0}, {"G01", 1}, {"G03", 0}, {"R10", 2}} {
		_, _, err := tbl.GetOrCreate(k, func() (int, error) { return 0, nil })
		require.NoError(t, err)
	}

	n := tbl.RetireUnless(func(k key) bool { return k.sat != "G01" })
	require.Equal(t, 2, n)
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, 2, tbl.Retired())

	tbl.Reset()
	require.Equal(t, 0, tbl.Len())
	require.Equal(t, 0, tbl.Created())
}
