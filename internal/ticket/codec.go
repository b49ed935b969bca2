package ticket

import "encoding/base64"

// Base64 codec shared by tickets, conversation IDs and sealed blobs.
// Standard encoding, to keep stored keys and callback payloads uniform.

func EncodeKey(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeKey(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
