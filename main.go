// Sentinel is a character-terminal client for warehouse barcode-scanner
// terminals driven by a remote Odoo server. The server owns the business
// scenarios; this client renders its replies on a small character grid
// and returns the operator's input.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sentinel/internal/config"
	"sentinel/internal/input"
	"sentinel/internal/log"
	"sentinel/internal/rpc"
	"sentinel/internal/session"
	"sentinel/internal/terminal"
	"sentinel/internal/theme"
	"sentinel/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	profileName string
	configPath  string
	logFile     string
	testFile    string
	audioFile   string
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Warehouse scanner terminal client",
	Long: `Sentinel connects a character terminal to a remote scanner server.

The server drives the session through a small action protocol; sentinel
renders menus, messages and input prompts on the terminal grid and sends
the operator's answers back.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().StringVarP(&profileName, "profile", "p", "sentinel", "connection profile to use")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "profile configuration file")
	rootCmd.Flags().StringVarP(&logFile, "log-file", "l", "~/sentinel.log", "diagnostic log file")
	rootCmd.Flags().StringVarP(&testFile, "test-file", "t", "", "replay script to execute")
	rootCmd.Flags().StringVarP(&audioFile, "audio-file", "b", "~/beep.mp3", "alert sound file")
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic at top level", "error", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "Application crashed. See sentinel_debug.log for details.\n")
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := log.SetFileOutput("sentinel_debug.log"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open debug log: %v\n", err)
	}
	defer log.Close()

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("sentinel requires a terminal to run")
	}

	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := config.Load(config.ExpandPath(path))
	if err != nil {
		return err
	}
	profile, err := cfg.Profile(profileName)
	if err != nil {
		return fmt.Errorf("%w (configuration: %s)", err, path)
	}

	client := rpc.NewClient(
		profile.URL, profile.Database, profile.Login, profile.Password,
		profile.Insecure)
	if err := client.Authenticate(); err != nil {
		return err
	}

	var src input.Source
	var replayFile *os.File
	if testFile != "" {
		replayFile, err = os.Open(config.ExpandPath(testFile))
		if err != nil {
			return fmt.Errorf("failed to open replay script: %w", err)
		}
		defer replayFile.Close()
		src = input.NewReplay(replayFile)
	}

	scr, err := terminal.New()
	if err != nil {
		return err
	}
	defer scr.Fini()

	if src == nil {
		src = input.NewLive(scr)
	}
	queue := input.NewQueue(src)
	u := ui.New(scr, queue, theme.Default())
	u.RestoreBase()

	sess := session.New(session.Params{
		Conn:      client,
		UI:        u,
		Queue:     queue,
		LogFile:   config.ExpandPath(logFile),
		AudioFile: config.ExpandPath(audioFile),
		Replay:    testFile != "",
	})
	if err := sess.Start(); err != nil {
		return err
	}
	return sess.Run()
}
