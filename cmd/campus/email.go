package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deppfellow/campus-manager/internal/lib/email"
	"github.com/spf13/cobra"
)

var emailCmd = &cobra.Command{
	Use:   "email",
	Short: "Email template tools",
}

var emailPreviewCmd = &cobra.Command{
	Use:       "preview [template]",
	Short:     "Render email templates with sample data",
	Long:      `Render one template, or all of them, with sample data. Output goes to stdout or, with --out, to <dir>/<template>.html.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: templateNames(),
	RunE:      runEmailPreview,
}

func init() {
	emailCmd.AddCommand(emailPreviewCmd)

	emailPreviewCmd.Flags().StringP("out", "o", "", "Directory to write rendered HTML files into")
}

func templateNames() []string {
	names := make([]string, 0, len(email.Templates))
	for _, t := range email.Templates {
		names = append(names, string(t))
	}
	return names
}

func runEmailPreview(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	templates := email.Templates
	if len(args) == 1 {
		templates = []email.Template{email.Template(args[0])}
	}

	for _, t := range templates {
		html, err := email.Preview(t)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", t, err)
		}

		if out == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "<!-- %s -->\n%s\n", t, html)
			continue
		}

		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		path := filepath.Join(out, string(t)+".html")
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}
