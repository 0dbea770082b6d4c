package vkbase

import (
	"unsafe"
)

const end = "\x00"
const endChar byte = '\x00'

// ToBytes will take an unsafe.Pointer and length in bytes and convert it
// to a byte slice
func ToBytes(ptr unsafe.Pointer, lenInBytes int) []byte {
	return unsafe.Slice((*byte)(ptr), lenInBytes)
}

// safeString null terminates s for the C side of the binding.
func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

// safeStrings returns a null terminated copy of list; the input is left
// untouched so names can still be logged and compared.
func safeStrings(list []string) []string {
	ret := make([]string, len(list))
	for i := range list {
		ret[i] = safeString(list[i])
	}
	return ret
}

func trimNull(s string) string {
	for len(s) > 0 && s[len(s)-1] == endChar {
		s = s[:len(s)-1]
	}
	return s
}

func contains(list []string, s string) bool {
	s = trimNull(s)
	for _, v := range list {
		if trimNull(v) == s {
			return true
		}
	}
	return false
}
