package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nhle/dayplan/internal/backup"
)

var (
	exportPassword string
	exportOut      string
	exportShare    string

	importPassword string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup of all goals and preferences",
	Long: `Export every goal and the exportable preferences to a JSON document.

With --password the document is encrypted. Without --out the file is written
to the backup cache directory. --share additionally writes an email message
with the backup attached, ready for any mail client.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore goals and preferences from a backup",
	Long:  `Replace every goal and the exported preferences with the contents of a backup file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVar(&exportPassword, "password", "", "Encrypt the backup with this password")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write the backup to this path instead of the cache")
	exportCmd.Flags().StringVar(&exportShare, "share", "", "Also write an .eml message with the backup attached to this path")

	importCmd.Flags().StringVar(&importPassword, "password", "", "Password of an encrypted backup")
}

func runExport(cmd *cobra.Command, _ []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := backup.NewService(e.store, e.prefs, e.clock, e.log)
	data, err := svc.ExportJSON(cmd.Context(), exportPassword)
	if err != nil {
		return err
	}

	files := backup.NewFiles(afero.NewOsFs(), e.cfg.Backup.CacheDir)
	path := exportOut
	if path == "" {
		if path, err = files.WriteToCache(data); err != nil {
			return err
		}
	} else if err := files.Write(path, data); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if exportShare == "" {
		return nil
	}
	var msg bytes.Buffer
	if err := files.Share(path, &msg); err != nil {
		return err
	}
	if err := files.Write(exportShare, msg.Bytes()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), exportShare)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	e, err := setup(false)
	if err != nil {
		return err
	}
	defer e.Close()

	files := backup.NewFiles(afero.NewOsFs(), e.cfg.Backup.CacheDir)
	data, err := files.ReadFile(args[0])
	if err != nil {
		return err
	}

	svc := backup.NewService(e.store, e.prefs, e.clock, e.log)
	res, err := svc.Import(cmd.Context(), data, importPassword)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d goal(s) from backup of %s\n", res.Tasks, res.ExportDate)
	if e.scheduler.ScheduleDay(cmd.Context()) {
		e.log.Debug("rescheduled notifications after import")
	}
	return nil
}
