package archive

import "strings"

// MaxPathLength is the longest entry path accepted by ValidPath.
const MaxPathLength = 1023

// ValidPath reports whether p is safe to materialize below an extraction root.
//
// The empty path names the root itself and is valid. A valid path is relative,
// at most MaxPathLength bytes, free of NUL bytes and empty segments, and contains
// no ".." segment. A "." segment is allowed only as the first segment.
func ValidPath(p string) bool {
	if p == "" {
		return true
	}
	if len(p) > MaxPathLength || strings.IndexByte(p, 0) >= 0 || p[0] == '/' {
		return false
	}

	for i, seg := range strings.Split(p, "/") {
		switch seg {
		case "":
			return false
		case "..":
			return false
		case ".":
			if i > 0 {
				return false
			}
		}
	}

	return true
}
