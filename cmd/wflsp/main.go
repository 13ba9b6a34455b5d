// Command wflsp is a thin CLI harness driving the analysis core for
// manual testing: it wires filecache -> astcache -> langservice and
// optionally exposes the result over the mcpapi MCP tool surface.
// Not a product surface (spec.md §1 excludes an editor transport); this
// exists only so the pieces built for that surface can be exercised
// outside of a test binary.
//
// Grounded on the teacher's cmd/lci/main.go: a single cli.App, a
// loadConfigWithOverrides-style flag-merge helper, and one subcommand
// per mode of operation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/config"
	"github.com/standardbeagle/wflsp/internal/filecache"
	"github.com/standardbeagle/wflsp/internal/langservice"
	"github.com/standardbeagle/wflsp/internal/logging"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/mcpapi"
	"github.com/standardbeagle/wflsp/internal/schema"
	"github.com/standardbeagle/wflsp/internal/version"
	"github.com/standardbeagle/wflsp/pkg/pathutil"
)

// loadConfigWithOverrides loads the coordinator config from root and
// applies CLI flag overrides, mirroring the teacher's
// loadConfigWithOverrides.
func loadConfigWithOverrides(c *cli.Context, root string) (*config.Config, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config from %s: %w", root, err)
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Excludes = append(cfg.Excludes, excludeFlags...)
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if c.IsSet("debounce-ms") {
		cfg.DebounceMs = c.Int("debounce-ms")
	}
	return cfg, nil
}

// harness bundles the wired collaborators a subcommand drives.
type harness struct {
	cfg     *config.Config
	log     *logging.Logger
	files   *filecache.Cache
	cache   *astcache.Cache
	service *langservice.Service
	params  *schema.ParamSchema
}

// loadParamSchema reads root's nextflow_schema.json, if present. Its
// absence is not an error (spec.md §4.4: no schema means no param
// validation, not a hard failure).
func loadParamSchema(root string) (*schema.ParamSchema, error) {
	path := filepath.Join(root, "nextflow_schema.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return schema.LoadParamSchema(path, raw)
}

func newHarness(ctx context.Context, c *cli.Context, root string, publish langservice.PublishFunc) (*harness, error) {
	cfg, err := loadConfigWithOverrides(c, root)
	if err != nil {
		return nil, err
	}
	log := logging.New(os.Stderr, cfg.Level())

	files := filecache.New()
	cache := astcache.New(files)

	params, err := loadParamSchema(root)
	if err != nil {
		log.Warn("parameter schema at %s: %v", root, err)
	} else {
		cache.ParamSchema = params
	}

	service := langservice.New(files, cache, time.Duration(cfg.DebounceMs)*time.Millisecond, publish, log)

	if err := service.Initialize(ctx, root, cfg.EffectiveExcludes(root), cfg.SuppressFutureWarnings); err != nil {
		return nil, fmt.Errorf("initialize workspace: %w", err)
	}

	return &harness{cfg: cfg, log: log, files: files, cache: cache, service: service, params: params}, nil
}

func main() {
	app := &cli.App{
		Name:                   "wflsp",
		Usage:                  "Analysis core for a workflow-script language, driven from the command line",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Workspace root to analyze",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Additional glob patterns excluded from the workspace scan",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "ERROR|WARN|INFO|DEBUG",
			},
			&cli.IntFlag{
				Name:  "debounce-ms",
				Usage: "Override the update debounce window, in milliseconds",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "Analyze the workspace once and print diagnostics",
				Action: checkCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Start the MCP tool server with stdio transport",
				Action: mcpCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootFromContext(c *cli.Context) (string, error) {
	root := c.String("root")
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}
	return abs, nil
}

// checkCommand runs one analysis pass and prints every discovered URI's
// diagnostics as JSON, then exits — a non-interactive smoke test for the
// orchestrator.
func checkCommand(c *cli.Context) error {
	root, err := rootFromContext(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := newHarness(ctx, c, root, nil)
	if err != nil {
		return err
	}

	type fileReport struct {
		URI         string        `json:"uri"`
		Diagnostics []interface{} `json:"diagnostics"`
	}
	var reports []fileReport
	for _, uri := range h.cache.URIs() {
		unit, ok := h.cache.GetSourceUnit(uri)
		if !ok {
			continue
		}
		diags := unit.Diagnostics()
		entries := make([]interface{}, len(diags))
		for i, d := range diags {
			entries[i] = d
		}
		reports = append(reports, fileReport{URI: pathutil.ToRelative(string(uri), root), Diagnostics: entries})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// mcpCommand starts the analysis core and exposes it over MCP on stdio
// until interrupted, mirroring the teacher's mcpCommand's signal
// handling and graceful shutdown.
func mcpCommand(c *cli.Context) error {
	root, err := rootFromContext(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, err := newHarness(ctx, c, root, func(changed []lsptypes.URI) {
		// Diagnostics-on-change stay silent over stdio; an MCP host pulls
		// them via the diagnostics tool instead of being pushed updates.
		_ = changed
	})
	if err != nil {
		return err
	}

	mcpServer := mcpapi.New(h.cache, h.service, h.params, h.log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- mcpServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		shutdown(h)
		return err
	case sig := <-sigChan:
		h.log.Info("received signal %v, shutting down", sig)
		cancel()
		shutdown(h)
		return <-errChan
	}
}

func shutdown(h *harness) {
	if h.service != nil {
		h.service.Shutdown()
	}
}
