// The MIT License (MIT)

// Copyright (c) 2017-2020 Uber Technologies Inc.

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"os"
	"os/signal"
	"path"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/uber/throttler/bench"
	"github.com/uber/throttler/common/config"
	"github.com/uber/throttler/common/log/tag"
	"github.com/uber/throttler/common/metrics"
	"github.com/uber/throttler/common/throttle"
	"github.com/uber/throttler/tools/common/commoncli"
)

const (
	flagRoot        = "root"
	flagConfig      = "config"
	flagEnv         = "env"
	flagZone        = "zone"
	flagCalls       = "calls"
	flagLatency     = "latency"
	flagFailureRate = "failure-rate"
	flagNoColor     = "no-color"
)

const (
	defaultRoot   = "."
	defaultConfig = "config/throttlebench"
	defaultEnv    = "development"
	defaultZone   = ""
)

// defaultTarget is benched when the config has no per-target entries
const defaultTarget = "default"

func runHandler(c *cli.Context) error {
	env := getEnvironment(c)
	zone := getZone(c)
	configDir := getConfigDir(c)

	var cfg bench.Config
	if err := config.Load(env, configDir, zone, &cfg); err != nil {
		return commoncli.Problem("failed to load config", err)
	}
	applyFlags(c, &cfg.Load)
	if err := cfg.Validate(); err != nil {
		return commoncli.Problem("invalid config", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return commoncli.Problem("failed to create logger", err)
	}
	logger.Info("Loaded config",
		tag.Env(env),
		tag.Zone(zone),
		tag.ConfigDir(configDir),
	)

	scope, closer, err := cfg.Metrics.NewRootScope()
	if err != nil {
		return commoncli.Problem("failed to create metrics scope", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close metrics scope", tag.Error(err))
		}
	}()

	collection, err := throttle.NewCollection(cfg.Throttle,
		throttle.WithLogger(logger),
		throttle.WithMetricsScope(metrics.NewScope(scope)),
	)
	if err != nil {
		return commoncli.Problem("invalid throttle table", err)
	}

	targets := cfg.Throttle.TargetNames()
	if len(targets) == 0 {
		targets = []string{defaultTarget}
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()
	results, err := bench.Run(ctx, bench.Params{
		Targets:  targets,
		Resolver: collection,
		Load:     cfg.Load,
		Logger:   logger,
	})
	if err != nil {
		return commoncli.Problem("bench run failed", err)
	}

	bench.Render(c.App.Writer, results, !c.Bool(flagNoColor))
	return nil
}

func applyFlags(c *cli.Context, load *bench.Load) {
	if c.IsSet(flagCalls) {
		load.Calls = c.Int(flagCalls)
	}
	if c.IsSet(flagLatency) {
		load.Latency = c.Duration(flagLatency)
	}
	if c.IsSet(flagFailureRate) {
		load.FailureRate = c.Float64(flagFailureRate)
	}
}

func getRootDir(c *cli.Context) string {
	rootDir := c.String(flagRoot)
	if len(rootDir) == 0 {
		var err error
		if rootDir, err = os.Getwd(); err != nil {
			rootDir = "."
		}
	}
	return rootDir
}

func getConfigDir(c *cli.Context) string {
	return path.Join(getRootDir(c), c.String(flagConfig))
}

func getEnvironment(c *cli.Context) string {
	return strings.TrimSpace(c.String(flagEnv))
}

func getZone(c *cli.Context) string {
	return strings.TrimSpace(c.String(flagZone))
}

func buildCLI() *cli.App {
	app := cli.NewApp()
	app.Name = "throttlebench"
	app.Usage = "Drive synthetic calls through the configured throttle table"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    flagRoot,
			Aliases: []string{"r"},
			Value:   defaultRoot,
			Usage:   "root directory of execution environment",
			EnvVars: []string{config.EnvKeyRoot},
		},
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Value:   defaultConfig,
			Usage:   "config dir path relative to root",
			EnvVars: []string{config.EnvKeyConfigDir},
		},
		&cli.StringFlag{
			Name:    flagEnv,
			Aliases: []string{"e"},
			Value:   defaultEnv,
			Usage:   "runtime environment",
			EnvVars: []string{config.EnvKeyEnvironment},
		},
		&cli.StringFlag{
			Name:    flagZone,
			Aliases: []string{"z"},
			Value:   defaultZone,
			Usage:   "availability zone",
			EnvVars: []string{config.EnvKeyAvailabilityZone},
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "run",
			Usage: "run the bench against every configured target",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  flagCalls,
					Usage: "calls per target, overrides load.calls",
				},
				&cli.DurationFlag{
					Name:  flagLatency,
					Usage: "duration of each synthetic call, overrides load.latency",
				},
				&cli.Float64Flag{
					Name:  flagFailureRate,
					Usage: "probability in [0, 1] that a call fails, overrides load.failureRate",
				},
				&cli.BoolFlag{
					Name:  flagNoColor,
					Usage: "disable colored table headers",
				},
			},
			Action: func(c *cli.Context) error {
				return runHandler(c)
			},
		},
	}

	return app
}

func main() {
	app := buildCLI()
	commoncli.ExitHandler(app.Run(os.Args))
}
