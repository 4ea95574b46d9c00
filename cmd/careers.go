package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cris/internal/careers"
)

var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "List the careers, skill weights, synonyms and subjects of the catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		log, _, catalog := setup()

		if err := printCatalog(cmd.OutOrStdout(), catalog); err != nil {
			log.Fatal("printing the career catalog", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(careersCmd)
}

func printCatalog(out io.Writer, catalog *careers.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "CAREER\tSKILL\tWEIGHT\tMATCHES")
	for _, name := range catalog.Names() {
		profile, err := catalog.Profile(name)
		if err != nil {
			return err
		}

		for _, s := range profile.Skills {
			variants := catalog.Synonyms().Variants(s.Skill)
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", profile.Name, s.Skill, s.Weight, strings.Join(variants, ", "))
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\nSubjects: %s\n", strings.Join(catalog.Subjects(), ", "))
	return err
}
