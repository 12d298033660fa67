package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/hubastard/hiopengl/engine/core"
	"github.com/hubastard/hiopengl/engine/gfx"
	glbackend "github.com/hubastard/hiopengl/engine/gfx/gl"
	"github.com/hubastard/hiopengl/engine/logging"
	"github.com/hubastard/hiopengl/engine/platform"
)

// GLFW must run on the process main thread. init runs on it, so locking
// here keeps main's goroutine there.
func init() {
	runtime.LockOSThread()
}

type options struct {
	cfg     core.Config
	capture string
	verbose bool
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	fl := flag.NewFlagSet("hiopengl", flag.ContinueOnError)
	fl.SetOutput(stderr)
	var (
		configPath = fl.String("config", "", "YAML config file")
		frames     = fl.Int("frames", -1, "stop after N frames (0 runs until the exit key)")
		capture    = fl.String("capture", "", "write the first frame to this PNG and exit")
		wireframe  = fl.Bool("wireframe", false, "draw triangle outlines")
		shaderDir  = fl.String("shaders", "", "directory whose .vert/.frag files override the built-in shaders")
		policy     = fl.String("shader-policy", "", `"report" logs shader errors and skips the pass, "strict" aborts`)
		verbose    = fl.Bool("v", false, "debug logging")
	)
	fl.Usage = func() {
		fmt.Fprintf(fl.Output(), "usage: hiopengl [flags]\n\nDraws two triangles until the exit key (space by default) is pressed.\n\n")
		fl.PrintDefaults()
	}
	if err := fl.Parse(args); err != nil {
		return options{}, err
	}
	if fl.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fl.Args())
	}

	cfg := core.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = core.LoadConfig(*configPath); err != nil {
			return options{}, err
		}
	}
	if *frames >= 0 {
		cfg.MaxFrames = *frames
	}
	if *wireframe {
		cfg.Wireframe = true
	}
	if *shaderDir != "" {
		cfg.ShaderDir = *shaderDir
	}
	if *policy != "" {
		cfg.ShaderPolicy = core.ShaderPolicy(*policy)
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	return options{cfg: cfg, capture: *capture, verbose: *verbose}, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(log)

	if err != nil {
		log.Error("invalid arguments", "err", err)
		return -1
	}

	var overrides fs.FS
	if opts.cfg.ShaderDir != "" {
		overrides = os.DirFS(opts.cfg.ShaderDir)
	}
	var app core.App = NewScene(overrides)
	var capture *captureApp
	if opts.capture != "" {
		capture = &captureApp{App: app, path: opts.capture}
		app = capture
	}

	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg, nil)
	}
	newDevice := func(_ core.Window, _ core.Config) (gfx.Device, error) {
		return glbackend.NewDeviceGL()
	}

	if err := core.Run(app, opts.cfg, newWindow, newDevice); err != nil {
		log.Error("fatal", "err", err)
		return -1
	}
	if capture != nil && capture.err != nil {
		log.Error("capture failed", "err", capture.err)
		return -1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
