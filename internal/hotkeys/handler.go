package hotkeys

import (
	"fmt"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/rs/zerolog"

	"github.com/1broseidon/x11stage/internal/logger"
)

// Handler binds keys pressed while a stage window has focus.
type Handler struct {
	xu  *xgbutil.XUtil
	log *zerolog.Logger
}

var initOnce sync.Once

// NewHandler prepares keyboard mapping state on xu.
func NewHandler(xu *xgbutil.XUtil) *Handler {
	initOnce.Do(func() {
		keybind.Initialize(xu)
		configureIgnoreMods(xu)
	})
	return &Handler{
		xu:  xu,
		log: logger.WithComponent("hotkeys"),
	}
}

// Bind runs callback when keySequence is pressed on win. The window must
// select KeyPress events; nothing is grabbed.
func (h *Handler) Bind(win xproto.Window, keySequence string, callback func()) error {
	if keySequence == "" {
		return nil
	}
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.log.Debug().Str("keys", keySequence).Msg("key binding triggered")
		callback()
	}).Connect(h.xu, win, keySequence, false)
	if err != nil {
		return fmt.Errorf("failed to bind %q: %w", keySequence, err)
	}
	return nil
}

// Unbind drops every binding on win.
func (h *Handler) Unbind(win xproto.Window) {
	keybind.Detach(h.xu, win)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = ignoreMasks(
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// ignoreMasks returns every combination of CapsLock, NumLock and
// ScrollLock, including none, so bindings fire regardless of lock state.
func ignoreMasks(numLock, scrollLock uint16) []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
