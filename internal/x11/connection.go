package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultAtomCacheSize bounds the interned atom cache when no size is configured.
const DefaultAtomCacheSize = 128

// Connection manages the X11 connection, interned atoms and the task queue
// serialized with event dispatch.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	atoms *lru.Cache[string, xproto.Atom]

	tasks chan func()
	done  chan struct{}
}

// NewConnection connects to display (empty means $DISPLAY).
func NewConnection(display string, atomCacheSize int) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server %q: %w", display, err)
	}

	if atomCacheSize <= 0 {
		atomCacheSize = DefaultAtomCacheSize
	}
	atoms, err := lru.New[string, xproto.Atom](atomCacheSize)
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("failed to create atom cache: %w", err)
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
		atoms: atoms,
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}, nil
}

// RootWindow returns the root window of the default screen.
func (c *Connection) RootWindow() xproto.Window {
	return c.Root
}

// Atom interns name, consulting the cache first.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	if atom, ok := c.atoms.Get(name); ok {
		return atom, nil
	}

	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}

	c.atoms.Add(name, reply.Atom)
	return reply.Atom, nil
}

// ScreenSize returns the pixel size of the default screen.
func (c *Connection) ScreenSize() (width, height int) {
	screen := c.XUtil.Screen()
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.XUtil.Conn().Close()
}
