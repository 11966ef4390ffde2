package solana_test

import (
	"testing"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/crypto"
	"github.com/stretchr/testify/require"
)

func TestTransactionSignAndMarshalRoundTrip(t *testing.T) {
	payerKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	payer := solana.Address(payerKP.Address)

	program := addr(2)
	account := addr(3)

	m := solana.NewTransactionMessage().
		SetFeePayer(payer).
		SetBlockhashLifetime(solana.BlockhashLifetime{Blockhash: addr(9), LastValidBlockHeight: 100}).
		AppendInstructions(solana.NewInstruction(program, []solana.AccountMeta{
			solana.NewAccountMeta(account, true, false),
		}, []byte{0xAA}))

	compiled, err := solana.Compile(m)
	require.NoError(t, err)

	unsigned := solana.NewUnsignedTransaction(compiled)
	require.False(t, unsigned.IsFullySigned())

	signed, err := unsigned.SignWith([]solana.TransactionSigner{solana.KeyPairSigner{KeyPair: payerKP}})
	require.NoError(t, err)
	require.True(t, signed.IsFullySigned())

	wire, err := signed.MarshalBinary()
	require.NoError(t, err)

	roundTrip, err := solana.UnmarshalTransaction(wire)
	require.NoError(t, err)
	require.Equal(t, signed.Signatures, roundTrip.Signatures)
	require.Equal(t, signed.Message.Header, roundTrip.Message.Header)

	b64, err := signed.Base64()
	require.NoError(t, err)
	require.NotEmpty(t, b64)

	b58, err := signed.Base58()
	require.NoError(t, err)
	require.NotEmpty(t, b58)
}

func TestTransactionMarshalRejectsSignatureCountMismatch(t *testing.T) {
	payer := addr(1)
	program := addr(2)
	m := solana.NewTransactionMessage().
		SetFeePayer(payer).
		SetBlockhashLifetime(solana.BlockhashLifetime{Blockhash: addr(9)}).
		AppendInstructions(solana.NewInstruction(program, nil, nil))

	compiled, err := solana.Compile(m)
	require.NoError(t, err)

	tx := solana.Transaction{Message: compiled}
	_, err = tx.MarshalBinary()
	require.Error(t, err)
}
