// Package transaction implements the boundary record produced downstream of
// the circuit outputs: a fixed-layout, little-endian serialized transaction
// whose identifier is a BLAKE2s digest over its load-bearing fields.
package transaction

import (
	"bytes"
	"fmt"

	"golang.org/x/crypto/blake2s"
)

// Record counts and fixed field sizes of the wire format. All sizes are in
// bytes.
const (
	NumInputRecords  = 2
	NumOutputRecords = 2

	SerialNumberSize    = 32
	CommitmentSize      = 32
	MemoSize            = 32
	DigestSize          = 32
	InnerCircuitIDSize  = 32
	ProofSize           = 192
	ProgramCommitSize   = 32
	LocalDataRootSize   = 32
	SignatureSize       = 64
	EncryptedRecordSize = 288
)

// Transaction is one serialized ledger record. Fields are fixed-size so the
// wire format is a raw concatenation with no framing.
//
// Equality and the identifier are a contract of the load-bearing fields only:
// serial numbers, commitments and the memorandum. The proof, the signatures,
// the program commitment and the local-data root are explicitly excluded from
// both, so re-proving or re-signing a transaction never changes its identity.
type Transaction struct {
	OldSerialNumbers [NumInputRecords][SerialNumberSize]byte
	NewCommitments   [NumOutputRecords][CommitmentSize]byte
	Memorandum       [MemoSize]byte

	LedgerDigest      [DigestSize]byte
	InnerCircuitID    [InnerCircuitIDSize]byte
	Proof             [ProofSize]byte
	ProgramCommitment [ProgramCommitSize]byte
	LocalDataRoot     [LocalDataRootSize]byte

	ValueBalance int64
	Network      uint8

	Signatures       [NumInputRecords][SignatureSize]byte
	EncryptedRecords [NumOutputRecords][EncryptedRecordSize]byte
}

// ID returns the transaction identifier: the 256-bit BLAKE2s digest of the
// concatenation of all serial numbers, then all commitments, then the
// memorandum. Proof, signatures, program commitment and local-data root do
// not contribute.
func (tx *Transaction) ID() [32]byte {
	var preimage bytes.Buffer
	for i := range tx.OldSerialNumbers {
		preimage.Write(tx.OldSerialNumbers[i][:])
	}
	for i := range tx.NewCommitments {
		preimage.Write(tx.NewCommitments[i][:])
	}
	preimage.Write(tx.Memorandum[:])
	return blake2s.Sum256(preimage.Bytes())
}

// Equal compares the load-bearing fields only; see the type documentation.
func (tx *Transaction) Equal(other *Transaction) bool {
	return tx.OldSerialNumbers == other.OldSerialNumbers &&
		tx.NewCommitments == other.NewCommitments &&
		tx.Memorandum == other.Memorandum
}

func (tx *Transaction) String() string {
	id := tx.ID()
	return fmt.Sprintf("Transaction{id: %x, network: %d, value balance: %d}", id[:8], tx.Network, tx.ValueBalance)
}
