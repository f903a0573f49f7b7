package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language/display"
)

// table creates an aligned table writer. Remember to call Flush.
func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type localeInfo struct {
	Tag        string `json:"tag"`
	Name       string `json:"name"`
	Categories int    `json:"categories"`
	Current    bool   `json:"current"`
}

func newLocalesCommand(g *globalFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List the locales with data packs",
		Long: `List the locales that have data packs, including packs loaded with --data.
The current locale is marked with '*'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			current := a.locales.Current()
			var infos []localeInfo
			for _, loc := range a.locales.Supported() {
				infos = append(infos, localeInfo{
					Tag:        loc.String(),
					Name:       display.Self.Name(loc),
					Categories: len(a.pool.Categories(loc)),
					Current:    loc == current,
				})
			}
			if jsonOutput {
				return writeJSON(a.out, infos)
			}

			w := table(a.out)
			fmt.Fprintln(w, "\tLOCALE\tNAME\tCATEGORIES")
			for _, info := range infos {
				mark := ""
				if info.Current {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", mark, info.Tag, info.Name, info.Categories)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

type placeholderInfo struct {
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

func newPlaceholdersCommand(g *globalFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: "List the available placeholders",
		Long: `List the built-in placeholders and those defined under "placeholders" in
the configuration. Custom placeholders are marked with '*'.

Data categories of the current locale (e.g. @CITY) are listed with --data-categories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			categories, _ := cmd.Flags().GetBool("data-categories")
			if categories {
				names := a.pool.Categories(a.locales.Current())
				if jsonOutput {
					return writeJSON(a.out, names)
				}
				for _, name := range names {
					fmt.Fprintln(a.out, name)
				}
				return nil
			}

			custom := a.resolver.CustomNames()
			var infos []placeholderInfo
			for _, name := range a.resolver.Names() {
				infos = append(infos, placeholderInfo{Name: name, Custom: slices.Contains(custom, name)})
			}
			if jsonOutput {
				return writeJSON(a.out, infos)
			}
			for _, info := range infos {
				mark := " "
				if info.Custom {
					mark = "*"
				}
				fmt.Fprintf(a.out, "%s @%s\n", mark, info.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().Bool("data-categories", false, "List the data categories of the current locale instead")
	return cmd
}
