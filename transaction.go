package solana

import (
	"encoding/base64"

	"github.com/cielu/solana-kit/codec"
	"github.com/cielu/solana-kit/core"
	"github.com/mr-tron/base58"
)

// SignaturesCountMismatchContext is the context carried when a
// Transaction's Signatures slice doesn't match its compiled message's
// required signer count.
type SignaturesCountMismatchContext struct {
	Expected int
	Got      int
}

// Transaction is the signed wire wrapper around a compiled message: a
// compact-array of signatures followed by the message bytes, the shape
// every Solana transaction takes on the wire. Grounded on the teacher's
// types.Transaction, narrowed to the CompiledTransactionMessage this kit
// already models instead of re-deriving account ordering here.
type Transaction struct {
	Signatures []Signature
	Message    CompiledTransactionMessage
}

// NewUnsignedTransaction builds a Transaction with a zero-filled signature
// slot for each required signer, ready for SignWith to fill in.
func NewUnsignedTransaction(message CompiledTransactionMessage) Transaction {
	return Transaction{
		Signatures: make([]Signature, message.Header.NumSignerAccounts),
		Message:    message,
	}
}

// SignWith signs tx's compiled message with every signer whose address
// appears among the message's required signers, placing each signature at
// the index matching the signer's position in StaticAccounts. Missing
// signers leave their slot zero-filled.
func (tx Transaction) SignWith(signers []TransactionSigner) (Transaction, error) {
	bodyBytes, err := MarshalCompiledMessage(tx.Message)
	if err != nil {
		return Transaction{}, err
	}

	bySigner := make(map[Address]TransactionSigner, len(signers))
	for _, s := range signers {
		bySigner[s.SignerAddress()] = s
	}

	out := tx
	out.Signatures = append([]Signature(nil), tx.Signatures...)
	numSigners := int(tx.Message.Header.NumSignerAccounts)
	for i := 0; i < numSigners && i < len(tx.Message.StaticAccounts); i++ {
		addr := tx.Message.StaticAccounts[i]
		signer, ok := bySigner[addr]
		if !ok {
			continue
		}
		sig, err := signer.SignTransactionMessage(bodyBytes)
		if err != nil {
			return Transaction{}, err
		}
		out.Signatures[i] = sig
	}
	return out, nil
}

// IsFullySigned reports whether every required signature slot is filled.
func (tx Transaction) IsFullySigned() bool {
	for _, sig := range tx.Signatures {
		if sig.IsZero() {
			return false
		}
	}
	return len(tx.Signatures) == int(tx.Message.Header.NumSignerAccounts)
}

// MarshalBinary renders tx to the exact bytes a validator hashes: a
// compact-array of 64-byte signatures followed by the compiled message.
func (tx Transaction) MarshalBinary() ([]byte, error) {
	if len(tx.Signatures) != int(tx.Message.Header.NumSignerAccounts) {
		return nil, core.New(core.CodeInvalidByteLength, SignaturesCountMismatchContext{
			Expected: int(tx.Message.Header.NumSignerAccounts),
			Got:      len(tx.Signatures),
		})
	}
	messageBytes, err := MarshalCompiledMessage(tx.Message)
	if err != nil {
		return nil, err
	}
	body := appendCompactSignatures(nil, tx.Signatures)
	return append(body, messageBytes...), nil
}

// UnmarshalTransaction inverts MarshalBinary.
func UnmarshalTransaction(data []byte) (Transaction, error) {
	numSigs, offset, err := codec.ShortU16.Read(data, 0)
	if err != nil {
		return Transaction{}, err
	}
	signatures := make([]Signature, numSigs)
	for i := range signatures {
		if err := requireLen(data, offset, SignatureLength); err != nil {
			return Transaction{}, err
		}
		copy(signatures[i][:], data[offset:offset+SignatureLength])
		offset += SignatureLength
	}
	message, err := UnmarshalCompiledMessage(data[offset:])
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{Signatures: signatures, Message: message}, nil
}

// Base64 renders the signed wire transaction as base64, the encoding
// sendTransaction expects.
func (tx Transaction) Base64() (string, error) {
	b, err := tx.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Base58 renders the signed wire transaction as base58.
func (tx Transaction) Base58() (string, error) {
	b, err := tx.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}

func appendCompactSignatures(body []byte, signatures []Signature) []byte {
	lengthPrefix, _ := codec.Encode[uint16](codec.ShortU16, uint16(len(signatures)))
	body = append(body, lengthPrefix...)
	for _, s := range signatures {
		body = append(body, s[:]...)
	}
	return body
}
