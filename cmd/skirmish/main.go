// Skirmish runs a predator/prey battle arena for NPCs.
// Usage: skirmish [--version] [--plain] [--batch] [--script <file>] [--scenario <path>]
//
//	[--roster <file>] [--out <file>] [--distance <d>] [--random <n>] [--seed <s>]
//	[--log <file>] [--feed <addr>]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nathoo/skirmish/cli"
	"github.com/nathoo/skirmish/config"
	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/factory"
	"github.com/nathoo/skirmish/engine/session"
	"github.com/nathoo/skirmish/feed"
	"github.com/nathoo/skirmish/loader"
	"github.com/nathoo/skirmish/observe"
	"github.com/nathoo/skirmish/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: skirmish [--version] [--plain] [--batch] [--script <file>] [--scenario <path>] " +
	"[--roster <file>] [--out <file>] [--distance <d>] [--random <n>] [--seed <s>] [--log <file>] [--feed <addr>]"

type options struct {
	plain, batch bool
	script       string
	scenario     string
	roster       string
	out          string
	distance     float64
	distanceSet  bool
	random       int
	seed         int64
	logFile      string
	feedAddr     string
}

func main() {
	opts := options{seed: loader.DefaultSeed, logFile: observe.DefaultLogFile}

	args := os.Args[1:]
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("skirmish %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			opts.plain = true
		case "--batch":
			opts.batch = true
		case "--script":
			opts.script = value(&i, "--script")
		case "--scenario":
			opts.scenario = value(&i, "--scenario")
		case "--roster":
			opts.roster = value(&i, "--roster")
		case "--out":
			opts.out = value(&i, "--out")
		case "--log":
			opts.logFile = value(&i, "--log")
		case "--feed":
			opts.feedAddr = value(&i, "--feed")
		case "--distance":
			d, err := strconv.ParseFloat(value(&i, "--distance"), 64)
			if err != nil || d < 0 {
				fmt.Fprintf(os.Stderr, "--distance wants a non-negative number\n")
				os.Exit(1)
			}
			opts.distance, opts.distanceSet = d, true
		case "--random":
			n, err := strconv.Atoi(value(&i, "--random"))
			if err != nil || n < 0 {
				fmt.Fprintf(os.Stderr, "--random wants a non-negative count\n")
				os.Exit(1)
			}
			opts.random = n
		case "--seed":
			s, err := strconv.ParseInt(value(&i, "--seed"), 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed wants an integer\n")
				os.Exit(1)
			}
			opts.seed = s
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q\n%s\n", args[i], usage)
			os.Exit(1)
		}
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// usesTUI reports whether play will hand the terminal to the TUI.
func (o options) usesTUI(terminal bool) bool {
	return !o.batch && o.script == "" && !o.plain && terminal
}

// logOutput is where slog writes. The TUI owns the screen, so logging is
// dropped while it runs.
func logOutput(o options, terminal bool) io.Writer {
	if o.usesTUI(terminal) {
		return io.Discard
	}
	return os.Stderr
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(logOutput(opts, isTerminal()), &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	distance := cfg.Distance
	bounds := factory.Bounds{MaxX: cfg.MaxX, MaxY: cfg.MaxY}

	// A scenario brings its own arena bounds and distance.
	var sc *loader.Scenario
	if opts.scenario != "" {
		sc, err = loadScenario(opts.scenario)
		if err != nil {
			return fmt.Errorf("loading scenario: %w", err)
		}
		bounds = sc.Bounds
		distance = sc.Distance
	}
	if opts.distanceSet {
		distance = opts.distance
	}

	eng := engine.New(factory.New(bounds), engine.WithLogger(log))

	killLog, err := observe.OpenLogger(opts.logFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := killLog.Close(); err != nil {
			log.Warn("closing kill log", "err", err)
		}
	}()
	eng.AddObserver(killLog)
	eng.AddObserver(observe.Slog{Log: log})

	feedAddr := cfg.FeedAddr
	if opts.feedAddr != "" {
		feedAddr = opts.feedAddr
	}
	var hub *feed.Hub
	if feedAddr != "" {
		hub = feed.NewHub(log)
		eng.AddObserver(hub)
	}

	if opts.roster != "" {
		if err := loadRoster(eng, opts.roster, log); err != nil {
			return err
		}
	}
	if opts.random > 0 {
		if err := eng.Populate(engine.NewRNG(opts.seed), opts.random); err != nil {
			return fmt.Errorf("populating arena: %w", err)
		}
	}

	// The feed server lives as long as the arena session does.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if hub != nil {
		srv := &http.Server{Addr: feedAddr, Handler: hub, ReadHeaderTimeout: 10 * time.Second}
		g.Go(func() error {
			log.InfoContext(ctx, "kill feed listening", "addr", feedAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("kill feed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer stop()
		return play(ctx, eng, sc, distance, opts, cfg)
	})

	return g.Wait()
}

// play runs the arena in the selected mode and returns when it is done.
func play(ctx context.Context, eng *engine.Engine, sc *loader.Scenario, distance float64, opts options, cfg config.Config) error {
	if opts.batch {
		screen := observe.NewScreen(os.Stdout)
		screen.Color = isTerminal()
		eng.AddObserver(screen)
		if err := runBatch(ctx, os.Stdout, eng, sc, distance); err != nil {
			return err
		}
		return saveRoster(eng, opts.out)
	}

	if sc != nil {
		if _, err := sc.Apply(eng); err != nil {
			return fmt.Errorf("applying scenario: %w", err)
		}
	}
	s := session.New(eng, distance, opts.seed)

	// Script mode: open file, force plain, echo commands.
	if opts.script != "" {
		f, err := os.Open(opts.script)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(s)
		c.In = f
		c.EchoInput = true
		c.SaveDir = cfg.SaveDir
		c.Run()
		return saveRoster(eng, opts.out)
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if !opts.usesTUI(isTerminal()) {
		c := cli.New(s)
		c.SaveDir = cfg.SaveDir
		c.Run()
		return saveRoster(eng, opts.out)
	}

	if err := tui.Run(s, cfg.SaveDir); err != nil {
		return err
	}
	return saveRoster(eng, opts.out)
}

// runBatch places the scenario's NPCs, then prints the roster before and
// after every battle. Without scenario fights it runs one battle at distance.
// Kill lines come from whatever observers eng already has.
func runBatch(ctx context.Context, w io.Writer, eng *engine.Engine, sc *loader.Scenario, distance float64) error {
	var dumpErr error
	dump := func(label string) {
		if dumpErr != nil {
			return
		}
		if _, dumpErr = fmt.Fprintf(w, "%s (%d):\n", label, eng.Len()); dumpErr == nil {
			dumpErr = eng.Dump(w)
		}
	}
	fight := func(d float64) engine.BattleReport {
		dump("Before battle")
		r := eng.Battle(d)
		dump("After battle")
		slog.DebugContext(ctx, "battle report", "battle", r.ID, "distance", r.Distance,
			"before", r.Before, "after", r.After)
		return r
	}

	fought := 0
	if sc != nil {
		reports, err := sc.Run(eng, fight)
		if err != nil {
			return fmt.Errorf("applying scenario: %w", err)
		}
		fought = len(reports)
	}
	if fought == 0 {
		fight(distance)
	}
	return dumpErr
}

func loadScenario(path string) (*loader.Scenario, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return loader.Load(path)
	}
	return loader.LoadFile(path)
}

// loadRoster reads a roster file. A bad line stops the load but keeps what
// came before it.
func loadRoster(eng *engine.Engine, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	report, err := eng.Load(f)
	var lineErr *engine.LineError
	switch {
	case errors.As(err, &lineErr):
		fmt.Fprintf(os.Stderr, "Roster %s: %v (kept %d npcs)\n", path, err, report.Loaded)
	case err != nil:
		return fmt.Errorf("reading roster: %w", err)
	}
	log.Debug("roster loaded", "path", path, "npcs", report.Loaded)
	return nil
}

func saveRoster(eng *engine.Engine, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}
	if err := eng.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("saving roster: %w", err)
	}
	return f.Close()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
