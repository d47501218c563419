package wire

import "errors"

var (
	// ErrShortRead indicates the stream ended before a field was complete.
	ErrShortRead = errors.New("wire: unexpected end of data")

	// ErrNonCanonicalVarInt indicates a varint that uses a wider prefix than its value needs.
	ErrNonCanonicalVarInt = errors.New("wire: non-canonical varint")

	// ErrInvalidBase58 indicates a string with characters outside the base58 alphabet.
	ErrInvalidBase58 = errors.New("wire: invalid base58 string")

	// ErrChecksum indicates a base58check payload whose checksum does not match.
	ErrChecksum = errors.New("wire: checksum mismatch")
)
