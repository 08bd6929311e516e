// Package cmd wires strongholdctl's cobra command tree: each subcommand
// opens a [stronghold.Stronghold] facade against a local snapshot file,
// performs one operation, and commits the result back before exiting, since
// a CLI invocation has no long-lived process to keep the facade warm
// between runs.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/genericclioptions"
)

const defaultSnapshotName = ".stronghold/vault.snap"

var (
	rootCmd = &cobra.Command{
		Use:   "strongholdctl",
		Short: "Process-local secrets vault CLI",
		Long:  "strongholdctl drives a Stronghold facade directly against a local snapshot file, one operation per invocation.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging(verbose)
			traceID = uuid.New().String()
			log.Printf("trace %s: %s", traceID, os.Args[0])
		},
	}

	verbose      bool
	snapshotPath string
	streams      = genericclioptions.NewDefaultIOStreams()

	// traceID correlates one invocation's log lines; there is no request
	// spanning multiple processes to tie together, but it keeps the
	// convention that every facade operation logs under a stable id.
	traceID string
)

func logAndExit(err error, msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n\n", msg, err)
	os.Exit(1)
}

func defaultSnapshotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultSnapshotName
	}

	return filepath.Join(home, defaultSnapshotName)
}

// MustInitialize registers every subcommand onto the root command.
func MustInitialize() error {
	cfg, err := loadFileConfig("")
	if err != nil {
		logAndExit(err, "failed to load config file")
	}

	defaultSnapshot := defaultSnapshotPath()
	if cfg.SnapshotPath != "" {
		defaultSnapshot = cfg.SnapshotPath
	}

	if cfg.Argon2.MemoryKiB != 0 || cfg.Argon2.Time != 0 || cfg.Argon2.Parallelism != 0 {
		params := defaultArgon2Params()

		if cfg.Argon2.MemoryKiB != 0 {
			params.Memory = cfg.Argon2.MemoryKiB
		}

		if cfg.Argon2.Time != 0 {
			params.Time = cfg.Argon2.Time
		}

		if cfg.Argon2.Parallelism != 0 {
			params.Parallelism = cfg.Argon2.Parallelism
		}

		argon2Params = &params
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", defaultSnapshot, "Path to the stronghold snapshot file")

	for _, build := range []func() (*cobra.Command, error){
		newCreateClientCmd,
		newWriteSecretCmd,
		newRevokeSecretCmd,
		newDeleteSecretCmd,
		newRecordExistsCmd,
		newVaultExistsCmd,
		newGenerateKeyCmd,
		newPublicKeyCmd,
		newSignCmd,
		newHashCmd,
		newWriteVaultCmd,
		newCommitCmd,
		newLoadSnapshotCmd,
		newStatCmd,
		newVersionCmd,
	} {
		c, err := build()
		if err != nil {
			logAndExit(err, "failed to initialize command")
		}

		rootCmd.AddCommand(c)
	}

	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(enabled bool) {
	log.SetFlags(0)

	if enabled {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
}
