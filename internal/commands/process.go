package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/config"
	"github.com/settled-dev/settled/internal/engine"
	"github.com/settled-dev/settled/internal/ingest"
	"github.com/settled-dev/settled/internal/model"
	"github.com/settled-dev/settled/internal/rejectlog"
	"github.com/settled-dev/settled/internal/report"
)

func newProcessCommand() *cobra.Command {
	var configPath string
	var format string

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Process a transaction file and print the final account balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runProcess(args[0], format, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "settled.yaml", "config file path")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or table")

	return cmd
}

// loadConfig reads the config file, falling back to defaults when the file
// does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runProcess(path, outFormat string, cfg *config.Config, stdout, stderr io.Writer) error {
	source := ingest.DefaultRegistry().Get(cfg.Input.Format)
	if source == nil {
		return fmt.Errorf("unknown input format %q", cfg.Input.Format)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()

	eng := engine.New()
	runID := uuid.New().String()
	var rejects []rejectlog.Entry

	reject := func(kind model.TxKind, clientID uint16, txID uint32, cause error) {
		fmt.Fprintf(stderr, "rejected transaction: %v\n", cause)
		rejects = append(rejects, rejectlog.Entry{
			Timestamp: time.Now().UTC(),
			RunID:     runID,
			Kind:      string(kind),
			ClientID:  clientID,
			TxID:      txID,
			Reason:    cause.Error(),
		})
	}

	err = source.Parse(f,
		func(tx model.Transaction) {
			if err := eng.Apply(tx); err != nil {
				reject(tx.Kind, tx.ClientID, tx.TxID, err)
			}
		},
		func(rowErr ingest.RowError) {
			reject("", 0, 0, fmt.Errorf("row %d: %w", rowErr.Row, rowErr.Err))
		},
	)
	if err != nil {
		return fmt.Errorf("reading transactions: %w", err)
	}

	if cfg.Rejects.Enabled && len(rejects) > 0 {
		if err := rejectlog.Append(cfg.Rejects.Path, rejects); err != nil {
			return fmt.Errorf("writing reject log: %w", err)
		}
	}

	snaps := eng.Snapshot()
	switch outFormat {
	case "csv":
		return report.WriteCSV(stdout, snaps, cfg.Output.Scale)
	case "table":
		return report.RenderTable(snaps, cfg.Output.Scale)
	default:
		return fmt.Errorf("unknown output format %q", outFormat)
	}
}
