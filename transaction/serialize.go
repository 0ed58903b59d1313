package transaction

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Wire format: the little-endian concatenation, in order, of serial numbers,
// new commitments, memorandum, ledger digest, inner-circuit id, proof,
// program commitment, local-data root, 8-byte signed value balance, 1-byte
// network id, signatures, encrypted records.

// DecodeError reports which transaction field failed to decode.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("transaction: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports which transaction field failed to encode.
type EncodeError struct {
	Field string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("transaction: encode %s: %v", e.Field, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// WriteLE serializes the transaction to w in wire order.
func (tx *Transaction) WriteLE(w io.Writer) error {
	write := func(field string, b []byte) error {
		if _, err := w.Write(b); err != nil {
			return &EncodeError{Field: field, Err: err}
		}
		return nil
	}

	for i := range tx.OldSerialNumbers {
		if err := write("serial number", tx.OldSerialNumbers[i][:]); err != nil {
			return err
		}
	}
	for i := range tx.NewCommitments {
		if err := write("commitment", tx.NewCommitments[i][:]); err != nil {
			return err
		}
	}
	if err := write("memorandum", tx.Memorandum[:]); err != nil {
		return err
	}
	if err := write("ledger digest", tx.LedgerDigest[:]); err != nil {
		return err
	}
	if err := write("inner circuit id", tx.InnerCircuitID[:]); err != nil {
		return err
	}
	if err := write("proof", tx.Proof[:]); err != nil {
		return err
	}
	if err := write("program commitment", tx.ProgramCommitment[:]); err != nil {
		return err
	}
	if err := write("local data root", tx.LocalDataRoot[:]); err != nil {
		return err
	}
	var balance [8]byte
	binary.LittleEndian.PutUint64(balance[:], uint64(tx.ValueBalance))
	if err := write("value balance", balance[:]); err != nil {
		return err
	}
	if err := write("network", []byte{tx.Network}); err != nil {
		return err
	}
	for i := range tx.Signatures {
		if err := write("signature", tx.Signatures[i][:]); err != nil {
			return err
		}
	}
	for i := range tx.EncryptedRecords {
		if err := write("encrypted record", tx.EncryptedRecords[i][:]); err != nil {
			return err
		}
	}
	return nil
}

// Bytes serializes the transaction to a fresh buffer.
func (tx *Transaction) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.WriteLE(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Size returns the serialized size in bytes; constant for every transaction.
func (tx *Transaction) Size() int {
	return NumInputRecords*SerialNumberSize +
		NumOutputRecords*CommitmentSize +
		MemoSize + DigestSize + InnerCircuitIDSize + ProofSize +
		ProgramCommitSize + LocalDataRootSize +
		8 + 1 +
		NumInputRecords*SignatureSize +
		NumOutputRecords*EncryptedRecordSize
}

// ReadLE deserializes a transaction from r. Every fallible step returns a
// DecodeError naming the field that failed instead of panicking.
func ReadLE(r io.Reader) (*Transaction, error) {
	read := func(field string, b []byte) error {
		if _, err := io.ReadFull(r, b); err != nil {
			return &DecodeError{Field: field, Err: err}
		}
		return nil
	}

	tx := new(Transaction)
	for i := range tx.OldSerialNumbers {
		if err := read("serial number", tx.OldSerialNumbers[i][:]); err != nil {
			return nil, err
		}
	}
	for i := range tx.NewCommitments {
		if err := read("commitment", tx.NewCommitments[i][:]); err != nil {
			return nil, err
		}
	}
	if err := read("memorandum", tx.Memorandum[:]); err != nil {
		return nil, err
	}
	if err := read("ledger digest", tx.LedgerDigest[:]); err != nil {
		return nil, err
	}
	if err := read("inner circuit id", tx.InnerCircuitID[:]); err != nil {
		return nil, err
	}
	if err := read("proof", tx.Proof[:]); err != nil {
		return nil, err
	}
	if err := read("program commitment", tx.ProgramCommitment[:]); err != nil {
		return nil, err
	}
	if err := read("local data root", tx.LocalDataRoot[:]); err != nil {
		return nil, err
	}
	var balance [8]byte
	if err := read("value balance", balance[:]); err != nil {
		return nil, err
	}
	tx.ValueBalance = int64(binary.LittleEndian.Uint64(balance[:]))
	var network [1]byte
	if err := read("network", network[:]); err != nil {
		return nil, err
	}
	tx.Network = network[0]
	for i := range tx.Signatures {
		if err := read("signature", tx.Signatures[i][:]); err != nil {
			return nil, err
		}
	}
	for i := range tx.EncryptedRecords {
		if err := read("encrypted record", tx.EncryptedRecords[i][:]); err != nil {
			return nil, err
		}
	}
	return tx, nil
}
