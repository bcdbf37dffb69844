package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cmakegen/internal/version"
)

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show cmakegen build metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(versionFormat)
		info := version.Current()
		if strings.TrimSpace(info.Version) == "" {
			info.Version = "dev"
		}
		switch format {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), info)
		case "pretty":
			info.Version = version.Colored(info.Version, useColor(cmd, os.Stdout))
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
