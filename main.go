package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"editcore/clipboardx"
	"editcore/config"
	"editcore/editor"
	"editcore/ui"
)

var version = "dev"

var (
	cfgFile   string
	keys      string
	debug     bool
	useState  bool
	watchCfg  bool
	rawOutput bool
	width     int
	height    int
	force     bool
)

var rootCmd = &cobra.Command{
	Use:   "editcore [file]",
	Short: "Replay Emacs-style key sequences against a text buffer",
	Long: `editcore loads a file (or an empty *scratch* buffer), feeds it key
sequences such as "C-a C-k C-y M-y", and prints the resulting buffer.

Keys come from --keys, or one line at a time from standard input.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the effective settings to the config file",
	Long: `init-config writes the settings editcore would run with (defaults plus
EDITCORE_* environment overrides) so they can be edited by hand.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runInitConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.config/editcore/settings.json)")
	rootCmd.Flags().StringVarP(&keys, "keys", "k", "", "key sequence to replay instead of reading stdin")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "log every command to stderr")
	rootCmd.Flags().BoolVar(&useState, "state", false, "restore and save kill ring, points and marks")
	rootCmd.Flags().BoolVar(&watchCfg, "watch", false, "reload the config file while reading stdin")
	rootCmd.Flags().BoolVar(&rawOutput, "raw", false, "print only the buffer text")
	rootCmd.Flags().IntVar(&width, "width", 80, "view width in columns")
	rootCmd.Flags().IntVar(&height, "height", 24, "view height in lines")

	initConfigCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config, or the default settings file when it is unset.
func loadConfig() (cfg *config.Config, path string, err error) {
	if cfgFile == "" {
		cfg, err = config.Load()
		return cfg, config.ConfigPath(), err
	}
	cfg, err = config.LoadFile(cfgFile)
	return cfg, cfgFile, err
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if cfgFile == "" {
		err = cfg.Save()
	} else {
		err = cfg.SaveFile(path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	if debug {
		level.Set(slog.LevelDebug)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	view := editor.NewView(width, height)
	s := editor.New(cfg,
		editor.WithLogger(log),
		editor.WithLevel(level),
		editor.WithWindow(view),
		editor.WithClipboard(clipboardx.New()),
	)

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		s.NewBuffer(filepath.Base(args[0]), string(data))
	} else {
		s.NewBuffer("*scratch*", "")
	}

	if useState {
		if _, err := s.LoadState(cfg.StatePath()); err != nil {
			log.Warn("state not restored", "path", cfg.StatePath(), "err", err)
		}
	}

	d := editor.NewDispatcher(s, nil)
	if cmd.Flags().Changed("keys") {
		if err := d.Feed(keys); err != nil {
			log.Debug("replay", "err", err)
		}
	} else if err := replay(s, d, os.Stdin, path, log); err != nil {
		return err
	}
	view.RecenterIfNeeded(s.Current())

	if useState {
		if err := s.SaveState(cfg.StatePath()); err != nil {
			log.Warn("state not saved", "path", cfg.StatePath(), "err", err)
		}
	}
	return printResult(os.Stdout, s, view)
}

// replay feeds r to d line by line. With --watch, config reloads are
// applied before each line.
func replay(s *editor.Session, d *editor.Dispatcher, r io.Reader, path string, log *slog.Logger) error {
	var updates <-chan config.Update
	if watchCfg {
		w, err := config.Watch(path, config.DefaultDebounce)
		if err != nil {
			log.Warn("config watch failed", "path", path, "err", err)
		} else {
			defer w.Close()
			updates = w.Updates()
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case u := <-updates:
			if u.Err != nil {
				log.Warn("config reload failed", "err", u.Err)
			} else {
				log.Info("config reloaded", "path", u.Event.Name)
				s.ApplyConfig(u.Config)
			}
		default:
		}
		if err := d.Feed(sc.Text()); err != nil {
			log.Debug("replay", "err", err)
		}
	}
	return sc.Err()
}

func printResult(w io.Writer, s *editor.Session, view *editor.View) error {
	b := s.Current()
	if rawOutput {
		_, err := io.WriteString(w, b.Text())
		return err
	}
	if err := view.Render(w, b); err != nil {
		return err
	}
	fmt.Fprintln(w, ui.NewStatusBar(b, s.KillRing().Len()).String(view.Width))
	if msg := s.LastMessage(); msg != "" {
		fmt.Fprintln(w, msg)
	}
	return nil
}
