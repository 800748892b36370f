// Package cmd implements the caminos command-line interface: run a
// single configuration, bench a batch concurrently, and convert between
// the binary and text Result encodings.
package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/codefan-byte/caminos-tfg-sub000/internal/config"
	"github.com/codefan-byte/caminos-tfg-sub000/internal/experiment"
	"github.com/codefan-byte/caminos-tfg-sub000/internal/result"
	"github.com/codefan-byte/caminos-tfg-sub000/simulation"
)

var (
	logLevel       string
	maxConcurrency int
	binaryOutput   bool
)

var rootCmd = &cobra.Command{
	Use:   "caminos",
	Short: "Cycle-accurate discrete-event simulator for interconnection networks",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <configuration.yaml>",
	Short: "Run a single Configuration file to completion",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(args[0])
		if err != nil {
			logrus.Fatalf("load configuration: %v", err)
		}
		logrus.Infof("starting run: warmup=%d measured=%d topology=%s traffic=%s",
			cfg.Warmup, cfg.Measured, cfg.Topology.Kind, cfg.Traffic.Kind)

		r := simulation.New(cfg).Run()
		writeResult(r)
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench <configuration.yaml>",
	Short: "Expand a Configuration's launch_configurations and run them concurrently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(args[0])
		if err != nil {
			logrus.Fatalf("load configuration: %v", err)
		}
		expanded := config.Expand(cfg)
		logrus.Infof("bench: %d run(s), concurrency=%d", len(expanded), maxConcurrency)

		batch, err := experiment.Run(context.Background(), expanded, nil, maxConcurrency)
		if err != nil {
			logrus.Fatalf("bench run failed: %v", err)
		}
		writeBatch(batch)
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <result.bin>",
	Short: "Decode a binary Result file and print it as YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			logrus.Fatalf("read %s: %v", args[0], err)
		}
		r, err := result.DecodeResult(data)
		if err != nil {
			logrus.Fatalf("decode: %v", err)
		}
		text, err := result.MarshalText(r)
		if err != nil {
			logrus.Fatalf("marshal: %v", err)
		}
		os.Stdout.Write(text)
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <result.yaml>",
	Short: "Encode a YAML Result file into the binary tagged-union format",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			logrus.Fatalf("read %s: %v", args[0], err)
		}
		r, err := result.UnmarshalText(data)
		if err != nil {
			logrus.Fatalf("unmarshal: %v", err)
		}
		os.Stdout.Write(result.EncodeResult(r))
	},
}

func writeResult(r *result.Result) {
	if binaryOutput {
		os.Stdout.Write(result.EncodeResult(r))
		return
	}
	text, err := result.MarshalText(r)
	if err != nil {
		logrus.Fatalf("marshal result: %v", err)
	}
	os.Stdout.Write(text)
}

func writeBatch(b *result.Batch) {
	if binaryOutput {
		os.Stdout.Write(result.Encode(b.ToValue()))
		return
	}
	for i, r := range b.Results {
		text, err := result.MarshalText(r)
		if err != nil {
			logrus.Fatalf("marshal result %d: %v", i, err)
		}
		os.Stdout.Write(text)
		os.Stdout.WriteString("---\n")
	}
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&binaryOutput, "binary", false, "Emit the binary tagged-union Result format instead of YAML")
	benchCmd.Flags().IntVar(&maxConcurrency, "concurrency", 0, "Maximum concurrent runs (0 = unbounded)")

	rootCmd.AddCommand(runCmd, benchCmd, decodeCmd, encodeCmd)
}
