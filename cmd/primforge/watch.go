package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/philipparndt/primforge/pkg/calibration"
	"github.com/philipparndt/primforge/pkg/export"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/philipparndt/primforge/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [model]",
	Short: "Re-export a model whenever it or its calibration changes",
	Args:  cobra.ExactArgs(1),
	Run:   runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addExportFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	modelPath := args[0]
	settings := loadSettings()

	out, opts, err := exportOptions(cmd, modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := resolveScale(cmd, modelPath, exportScale); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rebuild := func() {
		if err := watchExport(cmd, modelPath, out, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting model: %v\n", err)
		}
	}
	rebuild()

	fw, err := watcher.NewFileWatcher(settings.WatchDebounce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()
	fw.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
	}

	files := []string{modelPath, calibration.SidecarPath(modelPath)}
	if err := fw.Watch(files, func(changed string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Changed: %s\n", filepath.Base(changed))
		rebuild()
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching model: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", modelPath)
	fw.Run(ctx)
}

// watchExport reloads the model and scale on every change. Errors are reported
// and the previous export is kept.
func watchExport(cmd *cobra.Command, modelPath, out string, opts export.Options) error {
	m, err := model.LoadFile(modelPath)
	if err != nil {
		return err
	}
	if opts.Scale, err = resolveScale(cmd, modelPath, exportScale); err != nil {
		return err
	}
	return exportModel(cmd, m, out, opts)
}
