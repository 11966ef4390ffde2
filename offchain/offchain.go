// Package offchain implements the off-chain message v1 codec described in
// spec §6: a fixed signing domain, a version byte, a sorted, deduplicated
// list of signatory addresses, and arbitrary message content. It is used
// only for off-chain signing requests (wallet "sign this message" flows)
// and never appears in an on-chain transaction. Grounded on the teacher's
// fixed-layout marshaling style in types/message.go, generalized to the
// sentinel-domain + sorted-signatories shape this format requires.
package offchain

import (
	"bytes"
	"sort"

	solana "github.com/cielu/solana-kit"
	"github.com/cielu/solana-kit/core"
)

// Version is the only off-chain message version this codec understands.
const Version = 1

// signingDomain is the fixed 16-byte prefix every off-chain message
// starts with: 0xFF followed by the ASCII text "solana offchain", chosen
// so an off-chain message can never be mistaken for the start of a
// well-formed on-chain transaction (which always starts with a
// compact-array length byte < 0xFF for any realistic signature count).
var signingDomain = append([]byte{0xFF}, []byte("solana offchain")...)

// Message is the logical off-chain message: a set of signatories (which
// the wire form always carries sorted) and opaque content bytes.
type Message struct {
	Signatories []solana.Address
	Content     []byte
}

// EmptySignatoriesContext is the context carried by CodeInvalidConstant
// when a message has no signatories.
type EmptySignatoriesContext struct{}

// DuplicateSignatoryContext is the context carried by CodeDuplicateAccount
// when two signatories repeat the same address.
type DuplicateSignatoryContext struct {
	Address solana.Address
}

// EmptyContentContext is the context carried by CodeInvalidConstant when a
// message's content is empty.
type EmptyContentContext struct{}

// SignatoryCountOutOfRangeContext is the context carried by
// CodeNumberOutOfRange when Encode is given more signatories than a u8
// count can hold. A zero count is reported with EmptySignatoriesContext.
type SignatoryCountOutOfRangeContext struct {
	Count int
}

// Encode renders msg to its wire form: signingDomain, version byte,
// signatory count, each signatory sorted ascending, then content. Encode
// sorts the signatories itself but rejects duplicates (two byte-identical
// signatories) as malformed input rather than silently collapsing them.
func Encode(msg Message) ([]byte, error) {
	if len(msg.Signatories) == 0 {
		return nil, core.New(core.CodeInvalidConstant, EmptySignatoriesContext{})
	}
	if len(msg.Signatories) > 255 {
		return nil, core.New(core.CodeNumberOutOfRange, SignatoryCountOutOfRangeContext{Count: len(msg.Signatories)})
	}
	if len(msg.Content) == 0 {
		return nil, core.New(core.CodeInvalidConstant, EmptyContentContext{})
	}

	sorted := append([]solana.Address(nil), msg.Signatories...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return nil, core.New(core.CodeDuplicateAccount, DuplicateSignatoryContext{Address: sorted[i]})
		}
	}

	out := make([]byte, 0, len(signingDomain)+2+len(sorted)*solana.AddressLength+len(msg.Content))
	out = append(out, signingDomain...)
	out = append(out, byte(Version))
	out = append(out, byte(len(sorted)))
	for _, addr := range sorted {
		out = append(out, addr[:]...)
	}
	out = append(out, msg.Content...)
	return out, nil
}

// Decode inverts Encode, validating the signing domain, version,
// signatory count and uniqueness, and non-empty content. The returned
// Message's Signatories are already sorted, matching what Encode wrote.
func Decode(data []byte) (Message, error) {
	if len(data) < len(signingDomain) || !bytes.Equal(data[:len(signingDomain)], signingDomain) {
		return Message{}, core.New(core.CodeInvalidConstant, struct{ Want []byte }{signingDomain})
	}
	offset := len(signingDomain)

	if offset >= len(data) {
		return Message{}, core.New(core.CodeByteArrayTooShort, struct{ Need, Have int }{offset + 1, len(data)})
	}
	version := data[offset]
	offset++
	if version != Version {
		return Message{}, core.New(core.CodeVersionNumberOutOfRange, struct{ Got byte }{version})
	}

	if offset >= len(data) {
		return Message{}, core.New(core.CodeByteArrayTooShort, struct{ Need, Have int }{offset + 1, len(data)})
	}
	count := int(data[offset])
	offset++
	if count == 0 {
		return Message{}, core.New(core.CodeInvalidConstant, EmptySignatoriesContext{})
	}

	need := offset + count*solana.AddressLength
	if len(data) < need {
		return Message{}, core.New(core.CodeByteArrayTooShort, struct{ Need, Have int }{need, len(data)})
	}
	signatories := make([]solana.Address, count)
	for i := 0; i < count; i++ {
		copy(signatories[i][:], data[offset:offset+solana.AddressLength])
		offset += solana.AddressLength
	}
	for i := 1; i < len(signatories); i++ {
		if bytes.Compare(signatories[i][:], signatories[i-1][:]) <= 0 {
			return Message{}, core.New(core.CodeDuplicateAccount, DuplicateSignatoryContext{Address: signatories[i]})
		}
	}

	content := data[offset:]
	if len(content) == 0 {
		return Message{}, core.New(core.CodeInvalidConstant, EmptyContentContext{})
	}

	return Message{Signatories: signatories, Content: append([]byte(nil), content...)}, nil
}
