package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/x11stage/internal/platform"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds platform.Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: outputName,
			Bounds: platform.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}

	return monitors, nil
}

// MonitorSize returns the size of the monitor showing the centre of win,
// falling back to the whole screen when RandR has no answer.
func (c *Connection) MonitorSize(win xproto.Window) (width, height int) {
	monitors, err := c.GetMonitors()
	if err == nil {
		if mon := c.monitorForWindow(monitors, win); mon != nil {
			return mon.Bounds.Width, mon.Bounds.Height
		}
	}
	return c.ScreenSize()
}

func (c *Connection) monitorForWindow(monitors []Monitor, win xproto.Window) *Monitor {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return nil
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return nil
	}

	centerX := int(translate.DstX) + int(geom.Width)/2
	centerY := int(translate.DstY) + int(geom.Height)/2
	return MonitorAt(monitors, centerX, centerY)
}

// MonitorAt returns the monitor containing the point, or nil.
func MonitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		b := monitors[i].Bounds
		if x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height {
			return &monitors[i]
		}
	}
	return nil
}
