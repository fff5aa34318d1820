package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	_ "github.com/GriffinCanCode/xhost/internal/examples/greeter"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/logging"
	"github.com/GriffinCanCode/xhost/internal/infrastructure/server"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

const usage = `usage:
  xhost [flags] serve
  xhost [flags] list [libraries|packages|commands|functions]
  xhost [flags] command NAME [ARGS...]
  xhost [flags] function NAME [ARGS...]

flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xhost", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	var libs, globals stringList
	fs.Var(&libs, "lib", "Library to load (repeatable, path or http(s) URL)")
	fs.Var(&globals, "set", "Seed a global, NAME=VALUE (repeatable)")
	dir := fs.String("dir", "", "Directory to scan for libraries")
	pattern := fs.String("pattern", "", "Glob matched against paths below -dir")
	profile := fs.String("profile", "", "YAML or TOML startup profile")
	port := fs.String("port", "", "Server port")
	host := fs.String("host", "", "Server host")
	dev := fs.Bool("dev", false, "Development mode (console logs, debug level)")
	dump := fs.Bool("dump", false, "Print the engine state as JSON when done")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "xhost: %v\n", err)
		return 1
	}
	if *profile != "" {
		p, err := config.LoadProfile(*profile)
		if err != nil {
			fmt.Fprintf(stderr, "xhost: %v\n", err)
			return 1
		}
		cfg.Apply(p)
	}
	cfg.Library.Paths = append(cfg.Library.Paths, libs...)
	if *dir != "" {
		cfg.Library.Dir = *dir
	}
	if *pattern != "" {
		cfg.Library.Pattern = *pattern
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}
	for _, kv := range globals {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			fmt.Fprintf(stderr, "xhost: -set expects NAME=VALUE, got %q\n", kv)
			return 2
		}
		if cfg.Globals == nil {
			cfg.Globals = map[string]string{}
		}
		cfg.Globals[name] = value
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		Output:      stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "xhost: logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	h := server.NewHost(cfg, logger)
	defer h.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := h.Autoload(ctx); err != nil {
		fmt.Fprintf(stderr, "xhost: %v\n", err)
	}

	rest := fs.Args()
	code := 0
	switch rest[0] {
	case "serve":
		code = serve(ctx, cfg, h, logger)
	case "list":
		what := "libraries"
		if len(rest) > 1 {
			what = rest[1]
		}
		code = list(h, what, stdout, stderr)
	case "command", "function":
		if len(rest) < 2 {
			fs.Usage()
			return 2
		}
		code = call(h, rest[0], rest[1], rest[2:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "xhost: unknown mode %q\n", rest[0])
		fs.Usage()
		return 2
	}

	if *dump {
		data, err := h.Engine.Dump()
		if err != nil {
			fmt.Fprintf(stderr, "xhost: dump: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
	}
	return code
}

func serve(ctx context.Context, cfg *config.Config, h *server.Host, logger *logging.Logger) int {
	srv := server.NewServer(cfg, h, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
			return 1
		}
		return 0
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			return 1
		}
		return 0
	}
}

func list(h *server.Host, what string, stdout, stderr io.Writer) int {
	var out string
	switch what {
	case "libraries":
		out = h.Loader.ListLibraries()
	case "packages":
		out = h.Loader.ListPackages()
	case "commands":
		out = h.Loader.ListCommands()
	case "functions":
		out = h.Loader.ListFunctions()
	default:
		fmt.Fprintf(stderr, "xhost: cannot list %q\n", what)
		return 2
	}
	if out != "" {
		fmt.Fprintln(stdout, out)
	}
	return 0
}

func call(h *server.Host, kind, name string, args []string, stdout, stderr io.Writer) int {
	invoke := h.Loader.CallFunction
	if kind == "command" {
		invoke = h.Loader.CallCommand
	}

	result, err := invoke(name, args)
	if err != nil {
		fmt.Fprintf(stderr, "xhost: %v\n", err)
		return 1
	}
	if result != "" {
		fmt.Fprintln(stdout, result)
	}
	return 0
}
