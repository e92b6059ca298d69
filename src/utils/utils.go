package utils

import "unsafe"

// B2S converts a byte slice to a string without copying. b must not be
// modified afterwards.
func B2S(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

func StringPointer(s string) *string {
	return &s
}
