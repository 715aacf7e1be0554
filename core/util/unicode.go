package util

import (
	"unicode/utf16"
	"unicode/utf8"
)

const (
	UNI_SUR_HIGH_START = 0xD800
	UNI_SUR_HIGH_END   = 0xDBFF
	UNI_SUR_LOW_START  = 0xDC00
	UNI_SUR_LOW_END    = 0xDFFF

	UNI_REPLACEMENT_CHAR = 0xFFFD
)

/*
Transcodes UTF-8 bytes into UTF-16 code units, appending to dst.
Invalid sequences are replaced with U+FFFD; code points above the BMP
become surrogate pairs.
*/
func UTF8ToUTF16(utf8Bytes []byte, dst []uint16) []uint16 {
	for len(utf8Bytes) > 0 {
		r, size := utf8.DecodeRune(utf8Bytes)
		utf8Bytes = utf8Bytes[size:]
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			dst = append(dst, uint16(hi), uint16(lo))
		} else {
			dst = append(dst, uint16(r))
		}
	}
	return dst
}

func IsValidUTF16String(s []uint16) bool {
	size := len(s)
	for i := 0; i < size; i++ {
		ch := s[i]
		if ch >= UNI_SUR_HIGH_START && ch <= UNI_SUR_HIGH_END {
			if i < size-1 {
				i++
				if next := s[i]; next < UNI_SUR_LOW_START || next > UNI_SUR_LOW_END {
					// Unmatched high surrogate
					return false
				}
			} else {
				// Unmatched high surrogate
				return false
			}
		} else if ch >= UNI_SUR_LOW_START && ch <= UNI_SUR_LOW_END {
			// Unmatched low surrogate
			return false
		}
	}
	return true
}
