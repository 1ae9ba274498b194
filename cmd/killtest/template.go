package main

import (
	"fmt"
	"strings"

	"killtest/internal/importer"

	"github.com/spf13/cobra"
)

func templateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a blank idea document for evaluate or bulk import",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := importer.Format(strings.ToLower(format))
			if f != importer.FormatJSON && f != importer.FormatYAML {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			data, err := importer.Template(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Template format (json, yaml)")
	return cmd
}
