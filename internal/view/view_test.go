package view

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendReadRoundTrip(t *testing.T) {
	v, err := Create(filepath.Join(t.TempDir(), "view.ge"), "orders")
	require.NoError(t, err)
	defer v.Close()

	addr, err := v.Append([]byte(`{"id":1}`))
	require.NoError(t, err)

	got, err := v.Read(addr)
	require.NoError(t, err)
	require.Equal(t, []byte(`{"id":1}`), got)
}

func TestAddressWireRoundTrip(t *testing.T) {
	v, err := Create(filepath.Join(t.TempDir(), "view.ge"), "orders")
	require.NoError(t, err)
	defer v.Close()

	addr, err := v.Append([]byte("hello"))
	require.NoError(t, err)

	wire := addr.Encode()
	decoded, err := DecodeAddress(wire[:])
	require.NoError(t, err)
	require.Equal(t, addr, decoded)
}

func TestConcurrentAppendsArePreserved(t *testing.T) {
	v, err := Create(filepath.Join(t.TempDir(), "view.ge"), "orders")
	require.NoError(t, err)
	defer v.Close()

	const n = 50
	addrs := make([]Address, n)
	done := make(chan int, n)

	for i := 0; i < n; i++ {
		i := i
		go func() {
			addr, err := v.Append([]byte(fmt.Sprintf("payload-%d", i)))
			require.NoError(t, err)
			addrs[i] = addr
			done <- i
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	for i := 0; i < n; i++ {
		got, err := v.Read(addrs[i])
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("payload-%d", i), string(got))
	}
}

func TestScanVisitsEveryRecordInOrder(t *testing.T) {
	v, err := Create(filepath.Join(t.TempDir(), "view.ge"), "orders")
	require.NoError(t, err)
	defer v.Close()

	want := []string{"a", "b", "c"}
	for _, w := range want {
		_, err := v.Append([]byte(w))
		require.NoError(t, err)
	}

	var got []string
	require.NoError(t, v.Scan(func(addr Address, payload []byte) error {
		got = append(got, string(payload))
		return nil
	}))

	require.Equal(t, want, got)
}

func TestScanAfterSetPrimaryIndexSkipsOnlyDescriptionBlobs(t *testing.T) {
	v, err := Create(filepath.Join(t.TempDir(), "view.ge"), "orders")
	require.NoError(t, err)
	defer v.Close()

	// SetPrimaryIndex rewrites the description, appending a second blob
	// ahead of any records; Scan must still find exactly the records, not
	// any part of either description.
	require.NoError(t, v.SetPrimaryIndex("orders_id"))

	want := []string{"a", "b", "c"}
	for _, w := range want {
		_, err := v.Append([]byte(w))
		require.NoError(t, err)
	}

	var got []string
	require.NoError(t, v.Scan(func(addr Address, payload []byte) error {
		got = append(got, string(payload))
		return nil
	}))

	require.Equal(t, want, got)
}

func TestReadRejectsLengthMismatch(t *testing.T) {
	v, err := Create(filepath.Join(t.TempDir(), "view.ge"), "orders")
	require.NoError(t, err)
	defer v.Close()

	addr, err := v.Append([]byte("hello"))
	require.NoError(t, err)

	tampered := addr
	tampered.Length = 3
	_, err = v.Read(tampered)
	require.Error(t, err)
}
