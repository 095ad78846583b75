package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/1broseidon/x11stage/internal/config"
	"github.com/1broseidon/x11stage/internal/hotkeys"
	"github.com/1broseidon/x11stage/internal/logger"
	"github.com/1broseidon/x11stage/internal/platform"
	"github.com/1broseidon/x11stage/internal/stage"
	"github.com/1broseidon/x11stage/internal/x11"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a stage window and run the event loop",
	Long: `Open a stage window and run the X event loop until the window manager
asks the window to close, the window is destroyed, or the process is
interrupted.`,
	Example: `  # Open a 1280x720 window
  x11stage run --width 1280 --height 720

  # Start fullscreen on another display
  x11stage run --display :1 --fullscreen

  # Resizable window with verbose logging
  X11STAGE_LOG_LEVEL=debug x11stage run --resizable`,
	RunE: runStage,
}

func init() {
	flags := runCmd.Flags()
	flags.String("title", "", "window title")
	flags.Int("width", 0, "initial stage width")
	flags.Int("height", 0, "initial stage height")
	flags.Bool("fullscreen", false, "request fullscreen on realize")
	flags.Bool("resizable", false, "let the user resize the window")
	flags.Bool("hide-cursor", false, "hide the pointer over the stage")
	flags.Duration("cooloff", 0, "quiet period after a resize before clipped redraws resume")

	viper.BindPFlag("title", flags.Lookup("title"))
	viper.BindPFlag("width", flags.Lookup("width"))
	viper.BindPFlag("height", flags.Lookup("height"))
	viper.BindPFlag("fullscreen", flags.Lookup("fullscreen"))
	viper.BindPFlag("user_resizable", flags.Lookup("resizable"))
	viper.BindPFlag("hide_cursor", flags.Lookup("hide-cursor"))
	viper.BindPFlag("resize_cooloff", flags.Lookup("cooloff"))

	rootCmd.AddCommand(runCmd)
}

// loadConfig reads the config file and applies flag and environment
// overrides on top of it.
func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	applyOverrides(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func applyOverrides(v *viper.Viper, cfg *config.Config) {
	if v.IsSet("display") && v.GetString("display") != "" {
		cfg.Display = v.GetString("display")
	}
	if v.IsSet("title") && v.GetString("title") != "" {
		cfg.Title = v.GetString("title")
	}
	if v.IsSet("width") && v.GetInt("width") > 0 {
		cfg.Width = v.GetInt("width")
	}
	if v.IsSet("height") && v.GetInt("height") > 0 {
		cfg.Height = v.GetInt("height")
	}
	if v.IsSet("fullscreen") {
		cfg.Fullscreen = v.GetBool("fullscreen")
	}
	if v.IsSet("user_resizable") {
		cfg.UserResizable = v.GetBool("user_resizable")
	}
	if v.IsSet("hide_cursor") {
		cfg.CursorVisible = !v.GetBool("hide_cursor")
	}
	if v.IsSet("resize_cooloff") && v.GetDuration("resize_cooloff") > 0 {
		cfg.ResizeCoolOff = v.GetDuration("resize_cooloff")
	}
	if v.IsSet("log_level") && v.GetString("log_level") != "" {
		cfg.LogLevel = v.GetString("log_level")
	}
}

func runStage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), GetConfigFile())
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel, cfg.LogPretty || term.IsTerminal(int(os.Stderr.Fd())))
	log := logger.WithComponent("x11stage")

	conn, err := x11.NewConnection(cfg.Display, cfg.AtomCacheSize)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	presenter := x11.NewWindowPresenter(conn)
	actor := newDemoActor(cfg, conn.Post, func() {
		if onscreen, ok := presenter.DrawFramebuffer().(*x11.Onscreen); ok {
			onscreen.Present()
		}
	})

	var window *stage.Window
	keys := hotkeys.NewHandler(conn.XUtil)
	closeStage := func() {
		if xid := window.XWindow(); xid != 0 {
			keys.Unbind(xid)
		}
		window.Unrealize()
		cancel()
	}

	backend := stage.NewBackend(conn, presenter, conn, stage.Options{
		CoolOff: cfg.ResizeCoolOff,
		EventSink: func(ev platform.Event) {
			log.Info().Stringer("event", ev.Type).Msg("stage event")
			switch ev.Type {
			case platform.EventDelete:
				closeStage()
			case platform.EventDestroyNotify:
				cancel()
			}
		},
	})

	window = backend.NewWindow(actor)
	window.SetTitle(&cfg.Title)
	window.SetCursorVisible(cfg.CursorVisible)
	window.SetAcceptFocus(cfg.AcceptFocus)
	window.SetFullscreen(cfg.Fullscreen)

	if err := window.Realize(); err != nil {
		return err
	}
	defer closeStage()

	if err := keys.Bind(window.XWindow(), cfg.FullscreenKey, func() {
		window.SetFullscreen(!window.FullscreenRequested())
	}); err != nil {
		log.Warn().Err(err).Msg("fullscreen key not bound")
	}
	if err := keys.Bind(window.XWindow(), cfg.QuitKey, closeStage); err != nil {
		log.Warn().Err(err).Msg("quit key not bound")
	}

	if err := window.Show(true); err != nil {
		return err
	}

	log.Info().
		Uint32("xid", uint32(window.XWindow())).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Bool("fullscreen", cfg.Fullscreen).
		Msg("stage shown")

	conn.Run(ctx)
	return nil
}
