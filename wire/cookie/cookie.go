package cookie

import "strings"

// Parse splits a Cookie header value on ';' into discrete name/value pairs
// and merges them into jar. Keys are unique; a repeated name overrides the
// earlier pair. Fragments without '=' are silently skipped: cookies are not
// worth failing a request over.
func Parse(jar map[string]string, value string) {
	for len(value) > 0 {
		var fragment string
		fragment, value, _ = strings.Cut(value, ";")

		name, val, found := strings.Cut(fragment, "=")
		if !found {
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		jar[name] = strings.TrimSpace(val)
	}
}
