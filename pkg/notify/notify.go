// Package notify carries progress notifications from the engine to whoever is
// watching. Emission is fire-and-forget: the engine never waits on an observer and
// behaves the same with none attached.
package notify

// Kind names a notification.
type Kind string

// Notification kinds.
const (
	KindDownloadStatus       Kind = "download-status"
	KindDownload             Kind = "download"
	KindAssetsDownloadStart  Kind = "assets-download-start"
	KindAssetsDownloadStatus Kind = "assets-download-status"
	KindPackageExtract       Kind = "package-extract"
)

// Event is a single notification. Which fields are set depends on Kind:
//
//	download-status         Name, Current (bytes written), Total (last chunk length)
//	download                Name
//	assets-download-start   -
//	assets-download-status  Name, Count, TotalCount, Current/Total (verified bytes)
//	package-extract         OK
type Event struct {
	Kind       Kind
	Name       string
	Current    int64
	Total      int64
	Count      int64
	TotalCount int64
	OK         bool
}

// Hooks carries the callback that receives events.
type Hooks struct {
	OnEvent func(Event)
}

// Emit delivers e to the callback if one is set.
func (h Hooks) Emit(e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// ToChannel returns hooks that forward events to ch without blocking; events are
// dropped while ch is full.
func ToChannel(ch chan<- Event) Hooks {
	return Hooks{OnEvent: func(e Event) {
		select {
		case ch <- e:
		default:
		}
	}}
}

// Multi returns hooks that fan each event out to all of hs in order.
func Multi(hs ...Hooks) Hooks {
	return Hooks{OnEvent: func(e Event) {
		for _, h := range hs {
			h.Emit(e)
		}
	}}
}
