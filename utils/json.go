package utils

import (
	json "github.com/bytedance/sonic"
)

// JsonString is meant for log fields and comparisons; encoding errors yield
// an empty string.
func JsonString(obj any) string {
	jsonStr, _ := json.Marshal(obj)
	return string(jsonStr)
}

func JsonIndent(obj any) ([]byte, error) {
	return json.MarshalIndent(obj, "", "  ")
}
