package stage

import "github.com/BurntSushi/xgb/xproto"

// Registry maps native stage windows to their Window. It does not own the
// windows it indexes.
//
// A Registry is touched only from the event loop goroutine: realize and
// unrealize register and unregister, event translation looks up. It is not
// safe for concurrent use.
type Registry struct {
	windows map[xproto.Window]*Window
}

// Register indexes w under xid.
func (r *Registry) Register(xid xproto.Window, w *Window) {
	if r.windows == nil {
		r.windows = make(map[xproto.Window]*Window)
	}
	r.windows[xid] = w
}

// Unregister removes xid. Unknown ids are ignored.
func (r *Registry) Unregister(xid xproto.Window) {
	if r.windows == nil {
		return
	}
	delete(r.windows, xid)
}

// Lookup resolves xid.
func (r *Registry) Lookup(xid xproto.Window) (*Window, bool) {
	if r.windows == nil {
		return nil, false
	}
	w, ok := r.windows[xid]
	return w, ok
}

// Len returns the number of registered windows.
func (r *Registry) Len() int {
	return len(r.windows)
}
