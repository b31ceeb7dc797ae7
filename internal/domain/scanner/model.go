package scanner

// CacheKey is the fixed key the scanner-enabled flag is cached under in the
// local kv store. All viewers read and write the same key.
const CacheKey = "scanner_enabled"

// State is the resolved scanner-enabled flag plus where the value came
// from, for display and logging.
type State struct {
	Enabled bool
	Source  string // "backend", "cache", or "default"
}

// Source constants.
const (
	SourceBackend = "backend"
	SourceCache   = "cache"
	SourceDefault = "default"
)

// Resolve reconciles the authoritative fetch with the cached value.
//
// The backend owns the flag; a successful fetch always wins. On fetch
// failure the last cached value is used rather than forcing false — except
// at cold start with no cache, which fails closed.
//
// INVARIANT: fetchErr == nil implies the returned state mirrors fetched
func Resolve(cached *bool, fetched bool, fetchErr error) State {
	if fetchErr == nil {
		return State{Enabled: fetched, Source: SourceBackend}
	}
	if cached != nil {
		return State{Enabled: *cached, Source: SourceCache}
	}
	return State{Enabled: false, Source: SourceDefault}
}
