// Package cmd holds the command line tools registered next to the PocketBase
// serve command.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ndtreports/config"
	"ndtreports/services"
)

// Deps resolves the conclusion service and settings when a command runs,
// after PocketBase has bootstrapped and the flags were parsed.
type Deps func() (*services.ConclusionService, *config.Settings, error)

// Commands returns every sub-command.
func Commands(deps Deps) []*cobra.Command {
	return []*cobra.Command{
		ExportCommand(deps),
		NextNumberCommand(deps),
	}
}

// ExportCommand writes the PDF, Excel and Word documents of one conclusion.
func ExportCommand(deps Deps) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <conclusion-id>",
		Short: "Write the PDF, XLSX and DOCX documents of a conclusion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, settings, err := deps()
			if err != nil {
				return err
			}
			rec, err := svc.Get(args[0])
			if err != nil {
				return fmt.Errorf("load conclusion %s: %w", args[0], err)
			}

			target := dir
			if target == "" {
				target = settings.Export.Dir
			}
			opts := services.ExportOptions{
				WrapWidth: settings.Export.WrapWidth,
				FontPath:  settings.Export.FontPath,
			}
			paths, err := services.WriteExports(target, services.BuildPresentation(rec), opts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (defaults to export.dir)")

	return cmd
}

// NextNumberCommand prints the number the next conclusion would get.
func NextNumberCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "next-number",
		Short: "Print the next proposed conclusion number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := deps()
			if err != nil {
				return err
			}
			number, err := svc.NextNumber()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), number)
			return nil
		},
	}
}
