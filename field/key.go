package field

import (
	"fmt"
	"strings"

	"github.com/arloliu/aarchive/errs"
)

// KeySize is the length of a field key on the wire.
const KeySize = 3

// Key is a 3-character field key name such as "PAT" or "DAT".
type Key [KeySize]byte

// Standard field keys.
var (
	KeyTYP = MustKey("TYP") // entry type
	KeyPAT = MustKey("PAT") // path
	KeyLNK = MustKey("LNK") // symlink target
	KeyDEV = MustKey("DEV") // device id
	KeyUID = MustKey("UID") // owner id
	KeyGID = MustKey("GID") // group id
	KeyMOD = MustKey("MOD") // access mode
	KeyFLG = MustKey("FLG") // file flags
	KeyMTM = MustKey("MTM") // modification time
	KeyBTM = MustKey("BTM") // backup time
	KeyCTM = MustKey("CTM") // creation time
	KeyDAT = MustKey("DAT") // file data
	KeySIZ = MustKey("SIZ") // file size
	KeyCKS = MustKey("CKS") // CRC32 of DAT
	KeySH1 = MustKey("SH1") // SHA-1 of DAT
	KeySH2 = MustKey("SH2") // SHA-256 of DAT
	KeySH3 = MustKey("SH3") // SHA-384 of DAT
	KeySH5 = MustKey("SH5") // SHA-512 of DAT
	KeyXAT = MustKey("XAT") // extended attributes
	KeyACL = MustKey("ACL") // access control list
	KeyINO = MustKey("INO") // inode number
	KeyNLK = MustKey("NLK") // link count
)

// ParseKey validates s and returns it as a Key.
//
// A key is exactly three characters from A-Z and 0-9.
func ParseKey(s string) (Key, error) {
	var k Key
	if len(s) != KeySize {
		return k, fmt.Errorf("%w: %q must be %d characters", errs.ErrInvalidFieldKey, s, KeySize)
	}
	copy(k[:], s)
	if !k.Valid() {
		return Key{}, fmt.Errorf("%w: %q", errs.ErrInvalidFieldKey, s)
	}

	return k, nil
}

// MustKey is like ParseKey but panics on an invalid key.
func MustKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}

	return k
}

// Valid reports whether every character of k is in A-Z or 0-9.
func (k Key) Valid() bool {
	for _, c := range k {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}

	return true
}

func (k Key) String() string {
	return string(k[:])
}

// ParseKeyList parses a comma separated key list such as "TYP,PAT,DAT".
// Surrounding whitespace is ignored and duplicate keys are kept once, in first-seen order.
func ParseKeyList(s string) ([]Key, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	keys := make([]Key, 0, len(parts))
	seen := make(map[Key]struct{}, len(parts))
	for _, part := range parts {
		k, err := ParseKey(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	return keys, nil
}

// JoinKeys formats keys as a comma separated list, the inverse of ParseKeyList.
func JoinKeys(keys []Key) string {
	var sb strings.Builder
	sb.Grow(len(keys) * (KeySize + 1))
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.Write(k[:])
	}

	return sb.String()
}
