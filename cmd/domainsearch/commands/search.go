package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"domainsearch/internal/app"
	"domainsearch/internal/domain"
	"domainsearch/internal/session"
)

const noResultsMessage = "No results found. Try adjusting your search criteria."

func searchCmd() *cobra.Command {
	var (
		c         = domain.DefaultCriteria()
		sortBy    string
		page      int
		favorites []string
	)

	cmd := &cobra.Command{
		Use:   "search [prefix]",
		Short: "Search the catalog and print one page of results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				c.Prefix = args[0]
			}
			var err error
			if c.SortBy, err = domain.ParseSortBy(sortBy); err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			for _, d := range favorites {
				if err := domain.ValidateName(d); err != nil {
					return err
				}
			}

			snap, err := runSearch(cmd.Context(), c, page, favorites)
			if err != nil {
				return err
			}
			return renderPage(cmd.OutOrStdout(), snap)
		},
	}

	f := cmd.Flags()
	f.StringVar(&c.Prefix, "prefix", "", "domain name prefix")
	f.StringVarP(&c.Extension, "extension", "e", "", "domain extension, e.g. .io")
	f.BoolVar(&c.MeaningfulOnly, "meaningful", c.MeaningfulOnly, "only meaningful names")
	f.BoolVar(&c.AvailableOnly, "available", c.AvailableOnly, "only available names")
	f.IntVarP(&c.MaxLength, "max-length", "l", c.MaxLength, "maximum name length (2-63)")
	f.StringVarP(&sortBy, "sort", "s", string(domain.SortRelevance), "sort by relevance, length or price")
	f.IntVarP(&page, "page", "p", 1, "results page")
	f.StringSliceVar(&favorites, "favorite", nil, "mark domains as favorites")
	return cmd
}

// runSearch ведёт сессию так же, как HTTP API.
func runSearch(ctx context.Context, c domain.Criteria, page int, favorites []string) (session.Snapshot, error) {
	repo, closeRepo, err := app.OpenCatalog(ctx, cfg)
	if err != nil {
		return session.Snapshot{}, err
	}
	defer closeRepo()

	mgr := session.NewManager(ctx, app.NewSearchService(repo, cfg, lg), session.NewStore(), lg)
	defer mgr.Close()

	id := mgr.Create().ID
	if _, err := mgr.SetCriteria(id, c); err != nil {
		return session.Snapshot{}, err
	}
	if _, err := mgr.Wait(ctx, id); err != nil {
		return session.Snapshot{}, err
	}
	for _, d := range favorites {
		if _, err := mgr.ToggleFavorite(id, d); err != nil {
			return session.Snapshot{}, err
		}
	}
	return mgr.SetPage(id, page)
}

func renderPage(w io.Writer, snap session.Snapshot) error {
	if snap.Error != "" {
		return fmt.Errorf("%s", snap.Error)
	}
	if snap.Results.Total == 0 {
		_, err := fmt.Fprintln(w, noResultsMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tDOMAIN\tSTATUS\tPRICE\tLENGTH")
	for _, r := range snap.Results.Items {
		star := ""
		if snap.Favorites.Contains(r.Domain) {
			star = "*"
		}
		status := "Taken"
		if r.Available {
			status = "Available"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t$%s\t%d\n", star, r.Domain, status, r.Price.StringFixed(2), r.Length)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nPage %d of %d (%d results)\n", snap.Results.Page, snap.Results.TotalPages, snap.Results.Total)
	return err
}
