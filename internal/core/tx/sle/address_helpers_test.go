package sle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountID_RoundTrip(t *testing.T) {
	tt := []struct {
		description string
		id          [20]byte
	}{
		{description: "zero id"},
		{description: "low bytes", id: [20]byte{0x01, 0x02, 0x03}},
		{description: "high bytes", id: [20]byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8, 0xf7, 0xf6, 0xf5, 0xf4, 0xf3, 0xf2, 0xf1, 0xf0, 0xef, 0xee, 0xed, 0xec}},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			address, err := EncodeAccountID(tc.id)
			require.NoError(t, err)
			require.NotEmpty(t, address)
			require.Equal(t, byte('r'), address[0], "classic addresses start with r")

			decoded, err := DecodeAccountID(address)
			require.NoError(t, err)
			require.Equal(t, tc.id, decoded)
		})
	}
}

func TestDecodeAccountID_Invalid(t *testing.T) {
	_, err := DecodeAccountID("")
	require.Error(t, err)

	_, err = DecodeAccountID("not-an-address")
	require.Error(t, err)

	// A flipped character breaks the checksum.
	address, err := EncodeAccountID([20]byte{0x11})
	require.NoError(t, err)
	tampered := []byte(address)
	if tampered[len(tampered)-1] == 'r' {
		tampered[len(tampered)-1] = 'p'
	} else {
		tampered[len(tampered)-1] = 'r'
	}
	_, err = DecodeAccountID(string(tampered))
	require.Error(t, err)
}

func TestSerialize_RoundTripEntries(t *testing.T) {
	channel := &PayChannel{
		Account:     [20]byte{1},
		Destination: [20]byte{2},
		Amount:      NewXRPAmountFromInt(100_000),
		Balance:     NewXRPAmountFromInt(0),
		SettleDelay: 86_400,
		PublicKey:   []byte{0xed, 1, 2, 3},
		OwnerNode:   3,
	}
	data, err := SerializePayChannel(channel)
	require.NoError(t, err)

	parsed, err := ParsePayChannel(data)
	require.NoError(t, err)
	require.Equal(t, channel, parsed)

	// Serialization is deterministic.
	again, err := SerializePayChannel(parsed)
	require.NoError(t, err)
	require.Equal(t, data, again)

	// The type tag is enforced.
	_, err = ParseAccountRoot(data)
	require.ErrorIs(t, err, ErrWrongType)
}
