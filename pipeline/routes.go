package pipeline

import (
	"fmt"
	"strings"

	"github.com/indigo-web/utils/strcomp"
	"github.com/wireline-dev/wireline/wire/verb"
)

// Route is a registered handler binding. It is consumed read-only by the
// dispatch stage.
type Route struct {
	Handler Handler
	// ContentType restricts the route to requests carrying the media type.
	// Empty accepts anything.
	ContentType string
	// Bucket names the rate-limit group of the route. Empty means the default
	// bucket.
	Bucket string
}

type routeTable map[string]map[verb.Verb]Route

// RouteSet accumulates route registrations before they are atomically
// installed into a pipeline, either at startup or via Reload.
type RouteSet struct {
	routes routeTable
}

func NewRouteSet() *RouteSet {
	return &RouteSet{
		routes: make(routeTable),
	}
}

// Add registers a handler for the verb and path. Registering the same pair
// twice is a programming error and panics, same as net/http's ServeMux.
func (s *RouteSet) Add(v verb.Verb, path, contentType string, handler Handler) *RouteSet {
	return s.add(v, path, Route{
		Handler:     handler,
		ContentType: contentType,
	})
}

// AddLimited registers a handler tagged with a named rate-limit bucket.
func (s *RouteSet) AddLimited(v verb.Verb, path, contentType, bucket string, handler Handler) *RouteSet {
	return s.add(v, path, Route{
		Handler:     handler,
		ContentType: contentType,
		Bucket:      bucket,
	})
}

func (s *RouteSet) add(v verb.Verb, path string, route Route) *RouteSet {
	path = stripTrailingSlash(path)

	methods := s.routes[path]
	if methods == nil {
		methods = make(map[verb.Verb]Route)
		s.routes[path] = methods
	}

	if _, occupied := methods[v]; occupied {
		panic(fmt.Errorf("route already registered: %s %s", v, path))
	}

	methods[v] = route

	return s
}

func (t routeTable) lookup(path string) (map[verb.Verb]Route, bool) {
	methods, found := t[stripTrailingSlash(path)]
	return methods, found
}

func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return path
}

// allowString renders the verbs a path answers to, in vocabulary order.
func allowString(methods map[verb.Verb]Route) string {
	var allowed strings.Builder

	for _, v := range verb.List {
		if _, found := methods[v]; found {
			if allowed.Len() > 0 {
				allowed.WriteByte(',')
			}
			allowed.WriteString(v.String())
		}
	}

	return allowed.String()
}

// mediaType strips parameters like charset off a content-type tag.
func mediaType(contentType string) string {
	media, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(media)
}

func sameMediaType(a, b string) bool {
	return strcomp.EqualFold(mediaType(a), mediaType(b))
}
