package solana

import (
	"github.com/cielu/solana-kit/codec"
	"github.com/cielu/solana-kit/core"
)

// VersionNumberOutOfRangeContext is the context carried by
// CodeVersionNumberOutOfRange.
type VersionNumberOutOfRangeContext struct {
	Version int
}

// MarshalCompiledMessage renders a CompiledTransactionMessage to the exact
// bytes a validator hashes: step 2-6 of the compiler. Every length prefix
// uses the short-u16 compact format via the codec package, matching the
// teacher's MarshalLegacy/MarshalV0 byte-for-byte but built on the codec
// algebra instead of manual byte-slice appends.
func MarshalCompiledMessage(m CompiledTransactionMessage) ([]byte, error) {
	var body []byte

	if m.Version != MessageVersionLegacy {
		version := int(m.Version)
		if version < 0 || version > 127 {
			return nil, core.New(core.CodeVersionNumberOutOfRange, VersionNumberOutOfRangeContext{version})
		}
		body = append(body, byte(version)|0x80)
	}

	body = append(body, m.Header.NumSignerAccounts, m.Header.NumReadonlySignerAccounts, m.Header.NumReadonlyNonSignerAccounts)

	body = appendCompactAddresses(body, m.StaticAccounts)
	body = append(body, m.LifetimeToken[:]...)

	lengthPrefix, err := codec.Encode[uint16](codec.ShortU16, uint16(len(m.Instructions)))
	if err != nil {
		return nil, err
	}
	body = append(body, lengthPrefix...)
	for _, ins := range m.Instructions {
		body = append(body, ins.ProgramAddressIndex)
		body = appendCompactBytes(body, ins.AccountIndices)
		body = appendCompactBytes(body, ins.Data)
	}

	if m.Version != MessageVersionLegacy {
		lookupsPrefix, err := codec.Encode[uint16](codec.ShortU16, uint16(len(m.AddressTableLookups)))
		if err != nil {
			return nil, err
		}
		body = append(body, lookupsPrefix...)
		for _, lookup := range m.AddressTableLookups {
			body = append(body, lookup.LookupTableAddress[:]...)
			body = appendCompactBytes(body, lookup.WritableIndexes)
			body = appendCompactBytes(body, lookup.ReadonlyIndexes)
		}
	}

	return body, nil
}

func appendCompactAddresses(body []byte, addresses []Address) []byte {
	lengthPrefix, _ := codec.Encode[uint16](codec.ShortU16, uint16(len(addresses)))
	body = append(body, lengthPrefix...)
	for _, a := range addresses {
		body = append(body, a[:]...)
	}
	return body
}

func appendCompactBytes(body []byte, data []byte) []byte {
	lengthPrefix, _ := codec.Encode[uint16](codec.ShortU16, uint16(len(data)))
	body = append(body, lengthPrefix...)
	return append(body, data...)
}

// UnmarshalCompiledMessage inverts MarshalCompiledMessage. It determines
// legacy-vs-versioned by peeking the first byte the same way the teacher's
// Message.UnmarshalWithDecoder does (top bit set implies versioned).
func UnmarshalCompiledMessage(data []byte) (CompiledTransactionMessage, error) {
	offset := 0
	version := MessageVersionLegacy
	if len(data) > 0 && data[0]&0x80 != 0 {
		version = MessageVersion(data[0] &^ 0x80)
		offset++
	}
	if err := requireLen(data, offset, 3); err != nil {
		return CompiledTransactionMessage{}, err
	}
	header := CompiledMessageHeader{
		NumSignerAccounts:            data[offset],
		NumReadonlySignerAccounts:    data[offset+1],
		NumReadonlyNonSignerAccounts: data[offset+2],
	}
	offset += 3

	numAccounts, offset, err := codec.ShortU16.Read(data, offset)
	if err != nil {
		return CompiledTransactionMessage{}, err
	}
	staticAccounts := make([]Address, numAccounts)
	for i := range staticAccounts {
		if err := requireLen(data, offset, AddressLength); err != nil {
			return CompiledTransactionMessage{}, err
		}
		copy(staticAccounts[i][:], data[offset:offset+AddressLength])
		offset += AddressLength
	}

	if err := requireLen(data, offset, AddressLength); err != nil {
		return CompiledTransactionMessage{}, err
	}
	var lifetimeToken Blockhash
	copy(lifetimeToken[:], data[offset:offset+AddressLength])
	offset += AddressLength

	numInstructions, offset, err := codec.ShortU16.Read(data, offset)
	if err != nil {
		return CompiledTransactionMessage{}, err
	}
	instructions := make([]CompiledInstruction, numInstructions)
	for i := range instructions {
		if err := requireLen(data, offset, 1); err != nil {
			return CompiledTransactionMessage{}, err
		}
		programIdx := data[offset]
		offset++

		numAccountIndices, newOffset, err := codec.ShortU16.Read(data, offset)
		if err != nil {
			return CompiledTransactionMessage{}, err
		}
		offset = newOffset
		if err := requireLen(data, offset, int(numAccountIndices)); err != nil {
			return CompiledTransactionMessage{}, err
		}
		accountIndices := append([]byte(nil), data[offset:offset+int(numAccountIndices)]...)
		offset += int(numAccountIndices)

		dataLen, newOffset, err := codec.ShortU16.Read(data, offset)
		if err != nil {
			return CompiledTransactionMessage{}, err
		}
		offset = newOffset
		if err := requireLen(data, offset, int(dataLen)); err != nil {
			return CompiledTransactionMessage{}, err
		}
		insData := append([]byte(nil), data[offset:offset+int(dataLen)]...)
		offset += int(dataLen)

		instructions[i] = CompiledInstruction{
			ProgramAddressIndex: programIdx,
			AccountIndices:      accountIndices,
			Data:                insData,
		}
	}

	var lookups []CompiledAddressTableLookup
	if version != MessageVersionLegacy {
		numLookups, newOffset, err := codec.ShortU16.Read(data, offset)
		if err != nil {
			return CompiledTransactionMessage{}, err
		}
		offset = newOffset
		lookups = make([]CompiledAddressTableLookup, numLookups)
		for i := range lookups {
			if err := requireLen(data, offset, AddressLength); err != nil {
				return CompiledTransactionMessage{}, err
			}
			var tableAddr Address
			copy(tableAddr[:], data[offset:offset+AddressLength])
			offset += AddressLength

			numWritable, newOffset, err := codec.ShortU16.Read(data, offset)
			if err != nil {
				return CompiledTransactionMessage{}, err
			}
			offset = newOffset
			if err := requireLen(data, offset, int(numWritable)); err != nil {
				return CompiledTransactionMessage{}, err
			}
			writable := append([]byte(nil), data[offset:offset+int(numWritable)]...)
			offset += int(numWritable)

			numReadonly, newOffset, err := codec.ShortU16.Read(data, offset)
			if err != nil {
				return CompiledTransactionMessage{}, err
			}
			offset = newOffset
			if err := requireLen(data, offset, int(numReadonly)); err != nil {
				return CompiledTransactionMessage{}, err
			}
			readonly := append([]byte(nil), data[offset:offset+int(numReadonly)]...)
			offset += int(numReadonly)

			lookups[i] = CompiledAddressTableLookup{
				LookupTableAddress: tableAddr,
				WritableIndexes:    writable,
				ReadonlyIndexes:    readonly,
			}
		}
	}

	return CompiledTransactionMessage{
		Version:             version,
		Header:              header,
		StaticAccounts:      staticAccounts,
		LifetimeToken:       lifetimeToken,
		Instructions:        instructions,
		AddressTableLookups: lookups,
	}, nil
}

func requireLen(data []byte, offset, n int) error {
	if offset < 0 || offset+n > len(data) {
		return core.New(core.CodeByteArrayTooShort, struct{ Need, Have int }{n, len(data) - offset})
	}
	return nil
}
