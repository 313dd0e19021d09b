package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkordes/camp-directory/internal/batch"
	"github.com/pkordes/camp-directory/internal/catalog"
	"github.com/pkordes/camp-directory/internal/codec"
	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/importer"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		query     string
		campType  string
		boroughs  []string
		languages []string
		sortKey   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print camps matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ct := domain.CampType(campType)
			if ct != domain.CampTypeAll && !ct.Valid() {
				return fmt.Errorf("unknown camp type %q", campType)
			}
			key := domain.SortKey(sortKey)
			if !key.Valid() {
				return fmt.Errorf("unknown sort key %q", sortKey)
			}

			camps, err := c.campService().List(cmd.Context())
			if err != nil {
				return err
			}
			view := catalog.Apply(camps, domain.FilterState{
				SearchQuery:       query,
				CampType:          ct,
				Boroughs:          boroughs,
				SelectedLanguages: languages,
			}, key)
			return printCamps(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Free-text search")
	cmd.Flags().StringVar(&campType, "type", string(domain.CampTypeAll), "day, vacation or all")
	cmd.Flags().StringSliceVar(&boroughs, "borough", nil, "Only camps in these boroughs")
	cmd.Flags().StringSliceVar(&languages, "language", nil, "Only camps offering any of these languages")
	cmd.Flags().StringVar(&sortKey, "sort", string(domain.SortAlphabetical), "alphabetical, costLowToHigh, costHighToLow or borough")
	return cmd
}

func printCamps(out io.Writer, camps []domain.Camp) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tBOROUGH\tAGES\tLANGUAGES\tCOST")
	for _, c := range camps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Name, c.Type, c.Borough,
			codec.FormatAgeRange(c.AgeRange),
			codec.FormatLanguages(c.Languages),
			codec.FormatCost(c.Cost))
	}
	fmt.Fprintf(tw, "\n%d camps\n", len(camps))
	return tw.Flush()
}

func newImportCmd(c *cli) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Apply a YAML change set to the directory",
		Long: `Apply a YAML change set to the directory.

The file is replayed as edits on a batch session seeded from the store, so
renames delete the old record and unchanged values write nothing. Every
resulting camp is validated before the first write.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open change set: %w", err)
			}
			defer f.Close()

			cs, err := importer.Parse(f)
			if err != nil {
				return err
			}

			svc := c.campService()
			camps, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			session := batch.NewSession(camps)
			if err := cs.Apply(session); err != nil {
				return err
			}

			plan := session.ComputeSavePlan()
			out := cmd.OutOrStdout()
			printPlan(out, plan)
			if plan.Empty() {
				return nil
			}
			for _, u := range plan.Upserts {
				if err := u.Validate(); err != nil {
					return fmt.Errorf("camp %q: %w", u.Name, err)
				}
			}
			if dryRun {
				fmt.Fprintln(out, "dry run: nothing written")
				return nil
			}

			report, err := svc.ApplyPlan(cmd.Context(), plan)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "saved: %d upserted, %d deleted\n", report.Upserted, report.Deleted)
			for _, name := range report.AlreadyGone {
				fmt.Fprintf(out, "already gone: %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the save plan without writing")
	return cmd
}

func printPlan(out io.Writer, plan batch.SavePlan) {
	if plan.Empty() {
		fmt.Fprintln(out, "no changes")
		return
	}
	for _, r := range plan.Renames {
		fmt.Fprintf(out, "rename  %s -> %s\n", r.From, r.To)
	}
	for _, u := range plan.Upserts {
		fmt.Fprintf(out, "upsert  %s\n", u.Name)
	}
	for _, d := range plan.Deletions {
		fmt.Fprintf(out, "delete  %s\n", d)
	}
}

func newGeocodeMissingCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "geocode-missing",
		Short: "Look up coordinates for camps that have an address but no pin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			updated, results, err := c.campService().GeocodeMissing(cmd.Context())
			out := cmd.OutOrStdout()
			for _, r := range results {
				switch {
				case r.Err != nil:
					fmt.Fprintf(out, "error      %s: %v\n", r.Name, r.Err)
				case r.Coordinates == nil:
					fmt.Fprintf(out, "not found  %s\n", r.Name)
				default:
					fmt.Fprintf(out, "found      %s (%.6f, %.6f)\n", r.Name, r.Coordinates.Lat, r.Coordinates.Lng)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d of %d camps updated\n", updated, len(results))
			return nil
		},
	}
}
