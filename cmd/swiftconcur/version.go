package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"swiftconcur/internal/driver"
	"swiftconcur/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show swiftconcur build information",
		RunE:  runVersion,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	info := version.Current()
	switch strings.ToLower(format) {
	case "pretty":
		fmt.Fprintln(cmd.OutOrStdout(), info.Pretty())
		return nil
	case "json":
		return renderVersionJSON(cmd.OutOrStdout(), info)
	default:
		return driver.InvalidFormat(fmt.Errorf("unsupported format %q (must be pretty or json)", format))
	}
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
