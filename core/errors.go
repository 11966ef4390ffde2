// Package core holds the coded-error model shared by every layer of
// solana-kit, following the teacher's core/errors.go sentinel-and-wrap
// convention but extended to carry typed, code-keyed context the way
// spec.md §7 requires.
package core

import (
	"errors"
	"fmt"
)

// Code identifies a stable, matchable error kind. Callers should switch on
// Code rather than on the error's Error() string.
type Code string

const (
	// Codec errors (C1-C3).
	CodeNumberOutOfRange                          Code = "NumberOutOfRange"
	CodeInvalidConstant                           Code = "InvalidConstant"
	CodeInvalidEnumVariant                        Code = "InvalidEnumVariant"
	CodeEnumDiscriminatorOutOfRange                Code = "EnumDiscriminatorOutOfRange"
	CodeCannotUseLexicalValuesAsEnumDiscriminators Code = "CannotUseLexicalValuesAsEnumDiscriminators"
	CodeLiteralUnionDiscriminatorOutOfRange        Code = "LiteralUnionDiscriminatorOutOfRange"
	CodeInvalidLiteralUnionVariant                 Code = "InvalidLiteralUnionVariant"
	CodeInvalidPatternMatchValue                   Code = "InvalidPatternMatchValue"
	CodeInvalidPatternMatchBytes                   Code = "InvalidPatternMatchBytes"
	CodeEncodedBytesContainsSentinel               Code = "EncodedBytesContainsSentinel"
	CodeSentinelMissingInDecodedBytes              Code = "SentinelMissingInDecodedBytes"
	CodeByteArrayTooShort                          Code = "ByteArrayTooShort"

	// Address / key errors (C4).
	CodeStringLengthOutOfRange       Code = "StringLengthOutOfRange"
	CodeInvalidByteLength            Code = "InvalidByteLength"
	CodeInvalidOffCurveAddress       Code = "InvalidOffCurveAddress"
	CodeMalformedPda                 Code = "MalformedPda"
	CodePdaBumpSeedOutOfRange        Code = "PdaBumpSeedOutOfRange"
	CodeMaxSeedsExceeded             Code = "MaxSeedsExceeded"
	CodeMaxSeedLengthExceeded        Code = "MaxSeedLengthExceeded"
	CodeInvalidSeedsPointOnCurve     Code = "InvalidSeedsPointOnCurve"
	CodeFailedToFindViablePdaBump    Code = "FailedToFindViablePdaBumpSeed"
	CodePdaEndsWithPdaMarker         Code = "PdaEndsWithPdaMarker"
	CodeInvalidKeyPairByteLength     Code = "InvalidKeyPairByteLength"
	CodePublicKeyMustMatchPrivateKey Code = "PublicKeyMustMatchPrivateKey"
	CodeSignatureStringLengthOutOfRange Code = "SignatureStringLengthOutOfRange"
	CodeInvalidSignatureByteLength   Code = "InvalidSignatureByteLength"

	// Transaction message errors (C6/C7).
	CodeVersionNumberOutOfRange       Code = "VersionNumberOutOfRange"
	CodeFeePayerMissing               Code = "FeePayerMissing"
	CodeLifetimeMissing               Code = "LifetimeMissing"
	CodeAddressLookupTableEntryMissing Code = "AddressLookupTableEntryMissing"
	CodeProgramMustBeStatic           Code = "ProgramMustBeStatic"
	CodeDuplicateAccount              Code = "DuplicateAccount"
	CodeSignatureMissingForAddress    Code = "SignatureMissingForAddress"
	CodeSignerCannotUseLookupTable    Code = "SignerCannotUseLookupTable"
	CodeNonceAdvanceInstructionMissing Code = "NonceAdvanceInstructionMissing"

	// Planner/executor errors (C8/C9).
	CodeTransactionTooLarge         Code = "TransactionTooLarge"
	CodeInstructionCannotFit        Code = "InstructionCannotFit"
	CodeNonDivisibleSequentialTooLarge Code = "NonDivisibleSequentialTooLarge"
	CodeAborted                     Code = "Aborted"

	// Confirmation errors (C10).
	CodeBlockHeightExceeded                              Code = "BlockHeightExceeded"
	CodeInvalidNonce                                      Code = "InvalidNonce"
	CodeNonceAccountNotFound                              Code = "NonceAccountNotFound"
	CodeTransactionFailedWhenSimulatingToEstimateComputeLimit Code = "TransactionFailedWhenSimulatingToEstimateComputeLimit"
	CodeSendTransactionPreflightFailure                   Code = "SendTransactionPreflightFailure"
)

// Error is the coded error implementation used everywhere in the kit. It
// carries a stable Code, an arbitrary context value (usually a small
// struct specific to the code), and an optional wrapped cause.
type Error struct {
	Code    Code
	Context any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v (%+v)", e.Code, e.Cause, e.Context)
	}
	return fmt.Sprintf("%s: %+v", e.Code, e.Context)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a coded Error with the given context and no wrapped cause.
func New(code Code, context any) *Error {
	return &Error{Code: code, Context: context}
}

// Wrap builds a coded Error that wraps cause.
func Wrap(code Code, context any, cause error) *Error {
	return &Error{Code: code, Context: context, Cause: cause}
}

// As reports whether err (or something it wraps) is a *Error with the given
// code, returning it if so.
func As(err error, code Code) (*Error, bool) {
	var coded *Error
	for e := err; e != nil; e = errors.Unwrap(e) {
		if c, ok := e.(*Error); ok {
			coded = c
			if c.Code == code {
				return c, true
			}
		}
	}
	if coded != nil {
		return coded, coded.Code == code
	}
	return nil, false
}

// PreflightFailureContext is the context carried by send-transaction
// preflight failures that wrap a simulation error.
type PreflightFailureContext struct {
	SimulationError error
}

// SimulationEstimateFailureContext is the context carried when compute-unit
// limit estimation fails because the simulated transaction itself failed.
type SimulationEstimateFailureContext struct {
	SimulationError error
}

// UnwrapSimulationError descends through preflight-failure and
// simulation-estimate-failure wrapping layers (CodeSendTransactionPreflightFailure,
// CodeTransactionFailedWhenSimulatingToEstimateComputeLimit) to return the
// root cause. Any other error is returned unchanged.
func UnwrapSimulationError(err error) error {
	for {
		coded, ok := err.(*Error)
		if !ok {
			return err
		}
		switch coded.Code {
		case CodeSendTransactionPreflightFailure:
			if ctx, ok := coded.Context.(PreflightFailureContext); ok && ctx.SimulationError != nil {
				err = ctx.SimulationError
				continue
			}
			return err
		case CodeTransactionFailedWhenSimulatingToEstimateComputeLimit:
			if ctx, ok := coded.Context.(SimulationEstimateFailureContext); ok && ctx.SimulationError != nil {
				err = ctx.SimulationError
				continue
			}
			return err
		default:
			return err
		}
	}
}
