package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/mediabox/internal/adapter"
	"github.com/mmcdole/mediabox/internal/adapter/remote"
	"github.com/mmcdole/mediabox/internal/domain"
	"github.com/mmcdole/mediabox/internal/notify"
	"github.com/mmcdole/mediabox/internal/session"
	"github.com/mmcdole/mediabox/internal/store"
	"github.com/mmcdole/mediabox/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type options struct {
	configPath string
	add        []string
	list       string
}

func main() {
	var (
		showVersion bool
		opts        options
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/mediabox/config.yaml)")
	flag.Func("add", "add a media URL without starting the UI (repeatable)", func(s string) error {
		opts.add = append(opts.add, s)
		return nil
	})
	flag.StringVar(&opts.list, "list", "", "print the first page of \"albums\" or \"media\" and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("mediabox %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := adapter.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, closer = adapter.NullLogger(), nil
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting mediabox", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, opts.configPath, logger); err != nil {
			return err
		}
	}

	jar, err := session.Open(cfg.Session.Dir, cfg.Server.URL)
	if err != nil {
		logger.Error("failed to open session, credentials will not persist", "error", err)
		jar, _ = session.Open("", cfg.Server.URL)
	}
	defer jar.Close()

	headless := len(opts.add) > 0 || opts.list != ""
	ctx := context.Background()
	if headless {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	client := remote.NewClient(cfg.Server.URL, cfg.Server.Timeout, logger)
	s := store.New(client, jar, store.Options{
		PageSize:       cfg.Paging.PageSize,
		SettleDelay:    cfg.Paging.SettleDelay,
		RequestTimeout: cfg.Server.Timeout,
		DefaultView:    store.View(cfg.UI.DefaultView),
		Context:        ctx,
	}, logger)

	if headless {
		return runHeadless(s, opts)
	}

	p := tea.NewProgram(
		tui.NewModel(s, logger),
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runHeadless drives the store without a UI and prints what it ends up
// with. An interrupt cancels the store's requests; every operation still
// settles before the results are printed.
func runHeadless(s *store.Store, opts options) error {
	switch opts.list {
	case "", "albums", "media":
	default:
		return fmt.Errorf("unknown list %q, want albums or media", opts.list)
	}

	r := store.NewRunner(s)
	for _, url := range opts.add {
		r.Dispatch(store.AddMedia{URL: url})
	}
	switch opts.list {
	case "albums":
		r.Dispatch(store.QueryAlbums{})
	case "media":
		r.Dispatch(store.QueryMedia{})
	}
	if err := r.Wait(); err != nil {
		return err
	}

	st := s.Snapshot()
	switch opts.list {
	case "albums":
		for _, a := range st.AlbumItems() {
			fmt.Printf("%s\t%s\n", a.ID, a.Label())
		}
	case "media":
		for _, m := range st.MediaItems() {
			fmt.Printf("%s\t%s\n", m.ID, m.DisplayTitle())
		}
	}

	failed := false
	for _, n := range st.Notifications {
		if n.Kind == notify.KindError {
			failed = true
			fmt.Fprintf(os.Stderr, "✗ %s\n", n.Content)
		} else {
			fmt.Printf("✓ %s\n", n.Content)
		}
	}
	if st.Main.Modal.Visible {
		fmt.Fprintf(os.Stderr, "%s: %s\n", st.Main.Modal.Header, st.Main.Modal.Message)
		failed = failed || st.Main.Modal.Kind == notify.KindError
	}
	if st.Unauthorized() {
		return domain.ErrUnauthorized
	}
	if failed {
		return errors.New("one or more operations failed")
	}
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *adapter.Config, configPath string, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to mediabox!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	var creds domain.Credentials

	// Loop until the server accepts the credentials
	for {
		fmt.Print("Enter your media service URL (e.g., http://192.168.1.100:8000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Print("Username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println() // Add newline after hidden input

		creds = domain.Credentials{Username: strings.TrimSpace(username), Password: string(password)}
		client := remote.NewClient(serverURL, cfg.Server.Timeout, logger)
		client.SetCredentials(creds)

		fmt.Println()
		if err := pingWithSpinner(client); err != nil {
			fmt.Printf("\n✗ Could not log in: %v\n", err)
			fmt.Println("Please check the URL and credentials and try again.")
			fmt.Println()
			continue
		}

		cfg.Server.URL = serverURL
		break
	}

	if err := adapter.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	jar, err := session.Open(cfg.Session.Dir, cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer jar.Close()
	if err := jar.Save(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// pingWithSpinner checks the server with a visual spinner
func pingWithSpinner(client *remote.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- client.Ping(ctx)
	}()

	frame := 0
	fmt.Printf("\r%s Connecting...", spinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ Connected")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Connecting...", spinnerFrames[frame%len(spinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("connection timed out")
		}
	}
}
