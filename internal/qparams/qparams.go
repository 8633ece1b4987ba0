package qparams

import (
	"strings"

	"github.com/wireline-dev/wireline/kv"
)

// Parse splits a raw query component into ordered key/value pairs. Keys may
// repeat; order of appearance is preserved. A fragment without '=' becomes a
// key with an empty value.
func Parse(dst *kv.Storage, raw string) {
	for len(raw) > 0 {
		var fragment string
		fragment, raw, _ = strings.Cut(raw, "&")
		if fragment == "" {
			continue
		}

		key, value, _ := strings.Cut(fragment, "=")
		dst.Add(key, value)
	}
}
