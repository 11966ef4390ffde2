package offchain

import (
	"testing"

	solana "github.com/cielu/solana-kit"
	"github.com/stretchr/testify/require"
)

func addr(b byte) solana.Address {
	var a solana.Address
	a[0] = b
	return a
}

func TestEncodeSortsSignatoriesAndEmitsExpectedBytes(t *testing.T) {
	a := addr(0xAA)
	b := addr(0x01)
	content := []byte("Hello\nworld")

	encoded, err := Encode(Message{Signatories: []solana.Address{a, b}, Content: content})
	require.NoError(t, err)

	expected := append([]byte{}, signingDomain...)
	expected = append(expected, 0x01, 0x02)
	expected = append(expected, b[:]...)
	expected = append(expected, a[:]...)
	expected = append(expected, content...)
	require.Equal(t, expected, encoded)
}

func TestDecodeRoundTripReturnsSortedSignatories(t *testing.T) {
	a := addr(0xAA)
	b := addr(0x01)
	content := []byte("Hello\nworld")

	encoded, err := Encode(Message{Signatories: []solana.Address{a, b}, Content: content})
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, []solana.Address{b, a}, decoded.Signatories)
	require.Equal(t, content, decoded.Content)
}

func TestEncodeRejectsEmptySignatories(t *testing.T) {
	_, err := Encode(Message{Content: []byte("x")})
	require.Error(t, err)
}

func TestEncodeRejectsEmptyContent(t *testing.T) {
	_, err := Encode(Message{Signatories: []solana.Address{addr(1)}})
	require.Error(t, err)
}

func TestEncodeRejectsDuplicateSignatories(t *testing.T) {
	a := addr(5)
	_, err := Encode(Message{Signatories: []solana.Address{a, a}, Content: []byte("x")})
	require.Error(t, err)
}

func TestDecodeRejectsWrongDomain(t *testing.T) {
	_, err := Decode([]byte("not an off-chain message at all, too short"))
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedSignatories(t *testing.T) {
	encoded, err := Encode(Message{Signatories: []solana.Address{addr(1)}, Content: []byte("x")})
	require.NoError(t, err)
	_, err = Decode(encoded[:len(encoded)-5])
	require.Error(t, err)
}
