// Callout watches a mirrored game screen and calls out what it sees:
// HP warnings, enemy bearings, zone movement, and answers to voice commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/callout-gg/callout/internal/config"
	"github.com/callout-gg/callout/internal/log"
	"github.com/callout-gg/callout/pkg/frame"
	"github.com/callout-gg/callout/pkg/pipeline"
	"github.com/callout-gg/callout/pkg/speech"
	"github.com/callout-gg/callout/pkg/vision"
	"github.com/callout-gg/callout/pkg/web"
)

func main() {
	app := &cli.App{
		Name:  "callout",
		Usage: "real-time game screen perception and voice callouts",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "fps",
				Usage: "capture rate in frames per second",
				Value: config.DefaultFPS,
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "YAML screen profile path (defaults to the built-in 1080x2340 layout)",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "frame source: mirror or mock",
				Value: "mirror",
			},
			&cli.StringFlag{
				Name:  "mirror-url",
				Usage: "websocket URL of the screen mirror (overrides MIRROR_URL)",
			},
			&cli.StringFlag{
				Name:  "dashboard",
				Usage: "dashboard listen port, empty disables it",
				Value: config.DefaultDashboardPort,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn, or error",
				Value: "info",
			},
			&cli.Float64Flag{
				Name:  "alert-interval",
				Usage: "seconds between automatic alert sweeps",
				Value: config.DefaultAlertInterval,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log.Init(c.String("log-level"))
	logger := log.Component("main")

	profile := vision.DefaultProfile()
	if path := c.String("profile"); path != "" {
		var err error
		profile, err = vision.LoadProfile(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("load profile: %v", err), 1)
		}
	}

	templates := vision.LoadTemplates(profile)
	defer templates.Close()
	if templates.Len() == 0 {
		logger.Warn("no templates loaded, template matching disabled")
	}

	source, err := buildSource(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// No speech synthesis engine ships with the binary; responses are
	// logged through the mock voice until one is plugged in.
	voice := speech.NewMockVoice()

	cfg := pipeline.Config{
		Source:        source,
		FPS:           c.Int("fps"),
		Profile:       profile,
		Templates:     templates,
		Voice:         voice,
		AlertInterval: time.Duration(c.Float64("alert-interval") * float64(time.Second)),
	}

	session := pipeline.NewSession(cfg)

	var server *web.Server
	if port := c.String("dashboard"); port != "" {
		server = web.NewServer(port, session, session)
		session.SetPublisher(server)
		server.StartAsync()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := session.Start(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("start session: %v", err), 1)
	}
	logger.Info("callout running", "session", session.ID, "fps", c.Int("fps"))

	<-ctx.Done()
	session.Stop()
	if server != nil {
		if err := server.Shutdown(); err != nil {
			logger.Warn("dashboard shutdown", "error", err)
		}
	}
	return nil
}

func buildSource(c *cli.Context) (frame.Source, error) {
	switch c.String("source") {
	case "mirror":
		url := c.String("mirror-url")
		if url == "" {
			url = config.MirrorURL()
		}
		if url == "" {
			return nil, fmt.Errorf("mirror source needs --mirror-url or MIRROR_URL")
		}
		return frame.NewMirror(url), nil
	case "mock":
		return frame.NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown source %q", c.String("source"))
	}
}
