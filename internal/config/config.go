package config

import (
	"flag"
	"io"
	"os"
	"runtime"
	"strconv"

	"motionbench/internal/failure"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	StrategySequential = "sequential"
	StrategyFarm       = "farm"
	StrategyPool       = "pool"

	WaitSpin  = "spin"
	WaitBlock = "block"
)

type Config struct {
	VideoPath      string
	Threshold      int    // k, percentage of differing pixels that counts as motion
	Parallelism    int    // dispatcher + workers
	Strategy       string // sequential, farm or pool
	WaitMode       string // pool workers: spin or block
	Pin            bool   // pool: pin dispatcher and workers to cores
	Verbose        bool
	JSONReport     bool
	LogDirectory   string
	MaxParallelism int
}

// Load reads defaults from the environment, after merging an optional
// .env file (MOTION_ENV_FILE, default ".env").
func Load() *Config {
	envFile := getEnv("MOTION_ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		// Existing variables win over the file.
		_ = godotenv.Load(envFile)
	}

	return &Config{
		Threshold:      getEnvAsInt("MOTION_THRESHOLD", 10),
		Parallelism:    getEnvAsInt("MOTION_PARALLELISM", 0),
		Strategy:       getEnv("MOTION_STRATEGY", StrategyFarm),
		WaitMode:       getEnv("MOTION_WAIT_MODE", WaitBlock),
		Pin:            getEnvAsBool("MOTION_PIN", true),
		Verbose:        getEnvAsBool("MOTION_VERBOSE", false),
		LogDirectory:   getEnv("LOG_DIR", ""),
		MaxParallelism: runtime.NumCPU(),
	}
}

// ParseArgs applies command-line flags and the positional arguments
// <path> <k> [parallelism] on top of the loaded values. A help request
// returns flag.ErrHelp unwrapped after printing usage.
func (c *Config) ParseArgs(args []string, usage io.Writer) error {
	fs := flag.NewFlagSet("motionbench", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "dispatch strategy: sequential, farm or pool")
	fs.StringVar(&c.WaitMode, "wait", c.WaitMode, "pool worker wait mode: block, or spin to busy-wait on a dedicated core")
	fs.BoolVar(&c.Pin, "pin", c.Pin, "pin pool dispatcher and workers to cores")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log progress to stderr")
	fs.BoolVar(&c.JSONReport, "json", c.JSONReport, "write the run report as JSON to stderr")
	fs.StringVar(&c.LogDirectory, "logdir", c.LogDirectory, "also append logs to files in this directory")
	fs.Usage = func() {
		io.WriteString(usage, "Usage: motionbench [flags] video k [pardegree]\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return failure.Configuration("parse flags", err)
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 3 {
		fs.Usage()
		return failure.Configurationf("parse args", "expected video k [pardegree], got %d arguments", len(rest))
	}

	c.VideoPath = rest[0]

	k, err := strconv.Atoi(rest[1])
	if err != nil {
		return failure.Configurationf("parse args", "k must be an integer, got %q", rest[1])
	}
	c.Threshold = k

	if len(rest) == 3 {
		p, err := strconv.Atoi(rest[2])
		if err != nil {
			return failure.Configurationf("parse args", "pardegree must be an integer, got %q", rest[2])
		}
		c.Parallelism = p
	}

	return nil
}

// Concurrent reports whether the configured strategy spawns workers.
func (c *Config) Concurrent() bool {
	return c.Strategy == StrategyFarm || c.Strategy == StrategyPool
}

// Workers returns the number of worker goroutines implied by Parallelism.
func (c *Config) Workers() int {
	if !c.Concurrent() {
		return 1
	}
	return c.Parallelism - 1
}

// Validate checks the configuration before anything is opened.
func (c *Config) Validate() error {
	if c.VideoPath == "" {
		return failure.Configurationf("validate", "no video path given")
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		return failure.Configurationf("validate", "k must be between 0 and 100, got %d", c.Threshold)
	}

	switch c.Strategy {
	case StrategySequential, StrategyFarm, StrategyPool:
	default:
		return failure.Configurationf("validate", "unknown strategy %q", c.Strategy)
	}

	switch c.WaitMode {
	case WaitSpin, WaitBlock:
	default:
		return failure.Configurationf("validate", "unknown wait mode %q", c.WaitMode)
	}

	if !c.Concurrent() {
		return nil
	}
	if c.Parallelism < 2 {
		return failure.Configurationf("validate", "at least 2 concurrent activities are needed, got %d", c.Parallelism)
	}
	if c.MaxParallelism > 0 && c.Parallelism > c.MaxParallelism {
		return failure.Configurationf("validate", "at most %d concurrent activities are allowed, got %d", c.MaxParallelism, c.Parallelism)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
