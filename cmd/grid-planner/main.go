package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"grid-planner/internal/config"
)

// Build-time variables set via ldflags.
var (
	version = "0.1.0"
	commit  = ""
)

var (
	cfg *config.Config
	log *logrus.Logger
)

func versionString() string {
	if commit != "" {
		return fmt.Sprintf("grid-planner version %s (commit: %s)", version, commit)
	}
	return fmt.Sprintf("grid-planner version %s-dev", version)
}

func newLogger(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "grid-planner",
		Short:   "A* path finding on occupancy grids",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			log = newLogger(cfg.LogLevel)
			return nil
		},
		SilenceUsage: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newViewCmd())
	root.AddCommand(newServeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
