// Package format defines the small enumerations shared across the archive wire format:
// field types, hash functions, compression algorithms and entry types.
package format

import (
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"hash/crc32"
)

type (
	// FieldType is the resolved kind of a header field.
	FieldType uint8
	// HashFunction identifies the digest algorithm of a Hash field.
	HashFunction uint8
	// CompressionType identifies a block compression algorithm.
	CompressionType uint8
	// EntryType is the value of the TYP field.
	EntryType uint8
)

const (
	FieldTypeFlag     FieldType = 0 // FieldTypeFlag carries no value.
	FieldTypeUInt     FieldType = 1 // FieldTypeUInt is an unsigned integer of width 1, 2, 4 or 8.
	FieldTypeString   FieldType = 2 // FieldTypeString is a 2-byte length prefix followed by bytes.
	FieldTypeHash     FieldType = 3 // FieldTypeHash is a fixed-size digest.
	FieldTypeTimespec FieldType = 4 // FieldTypeTimespec is seconds, optionally with nanoseconds.
	FieldTypeBlob     FieldType = 5 // FieldTypeBlob is a payload size; bytes follow the header.
)

const (
	HashCRC32  HashFunction = 1 // HashCRC32 is a 4-byte CRC32 (IEEE).
	HashSHA1   HashFunction = 2 // HashSHA1 is a 20-byte SHA-1.
	HashSHA256 HashFunction = 3 // HashSHA256 is a 32-byte SHA-256.
	HashSHA384 HashFunction = 4 // HashSHA384 is a 48-byte SHA-384.
	HashSHA512 HashFunction = 5 // HashSHA512 is a 64-byte SHA-512.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	EntryRegular   EntryType = 'F'
	EntryDirectory EntryType = 'D'
	EntrySymlink   EntryType = 'L'
	EntryFIFO      EntryType = 'P'
	EntryCharDev   EntryType = 'C'
	EntryBlockDev  EntryType = 'B'
	EntrySocket    EntryType = 'S'
	EntryWhiteout  EntryType = 'W'
	EntryDoor      EntryType = 'R'
	EntryPort      EntryType = 'T'
	EntryMetadata  EntryType = 'M'
)

func (t FieldType) String() string {
	switch t {
	case FieldTypeFlag:
		return "Flag"
	case FieldTypeUInt:
		return "UInt"
	case FieldTypeString:
		return "String"
	case FieldTypeHash:
		return "Hash"
	case FieldTypeTimespec:
		return "Timespec"
	case FieldTypeBlob:
		return "Blob"
	default:
		return "Unknown"
	}
}

func (h HashFunction) String() string {
	switch h {
	case HashCRC32:
		return "CRC32"
	case HashSHA1:
		return "SHA1"
	case HashSHA256:
		return "SHA256"
	case HashSHA384:
		return "SHA384"
	case HashSHA512:
		return "SHA512"
	default:
		return "Unknown"
	}
}

// Size returns the digest size in bytes, or 0 for an unknown function.
func (h HashFunction) Size() int {
	switch h {
	case HashCRC32:
		return 4
	case HashSHA1:
		return 20
	case HashSHA256:
		return 32
	case HashSHA384:
		return 48
	case HashSHA512:
		return 64
	default:
		return 0
	}
}

// Valid reports whether h is a known hash function.
func (h HashFunction) Valid() bool {
	return h.Size() != 0
}

// New returns a fresh hash.Hash for h, or nil for an unknown function.
//
// Digests are compared as the hash's Sum output, so CRC32 values are big-endian.
func (h HashFunction) New() hash.Hash {
	switch h {
	case HashCRC32:
		return crc32.NewIEEE()
	case HashSHA1:
		return sha1.New() //nolint:gosec
	case HashSHA256:
		return sha256.New()
	case HashSHA384:
		return sha512.New384()
	case HashSHA512:
		return sha512.New()
	default:
		return nil
	}
}

// HashFunctionForSize returns the hash function producing size-byte digests.
func HashFunctionForSize(size int) (HashFunction, bool) {
	for h := HashCRC32; h <= HashSHA512; h++ {
		if h.Size() == size {
			return h, true
		}
	}

	return 0, false
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a lower-case algorithm name to its CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}

func (e EntryType) String() string {
	switch e {
	case EntryRegular:
		return "Regular"
	case EntryDirectory:
		return "Directory"
	case EntrySymlink:
		return "Symlink"
	case EntryFIFO:
		return "FIFO"
	case EntryCharDev:
		return "CharDevice"
	case EntryBlockDev:
		return "BlockDevice"
	case EntrySocket:
		return "Socket"
	case EntryWhiteout:
		return "Whiteout"
	case EntryDoor:
		return "Door"
	case EntryPort:
		return "Port"
	case EntryMetadata:
		return "Metadata"
	default:
		return "Unknown"
	}
}
