package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-skymap/internal/search"
)

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "List stars and constellations whose names contain QUERY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			q := strings.TrimSpace(args[0])
			if q == "" {
				return fmt.Errorf("empty query")
			}
			idx := search.New(a.store)
			stars, consts := idx.Filter(q)

			out := cmd.OutOrStdout()
			var matches []search.Entry
			matches = append(matches, search.Top(stars, limit)...)
			matches = append(matches, search.Top(consts, limit)...)
			writeMatches(out, matches)

			fmt.Fprintf(out, "\n%d stars, %d constellations\n", len(stars), len(consts))
			if e, ok := idx.Resolve(q); ok {
				fmt.Fprintf(out, "enter → %s %s\n", e.ID, e.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", search.DisplayLimit, "matches shown per kind")
	return cmd
}

// writeMatches writes a table of matches. Names are padded by display width
// since most are double-width.
func writeMatches(w io.Writer, matches []search.Entry) {
	fmt.Fprintf(w, "%s %s %s\n", runewidth.FillRight("KIND", 6), runewidth.FillRight("ID", 12), "NAME")
	fmt.Fprintln(w, strings.Repeat("─", 32))
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches")
		return
	}
	for _, e := range matches {
		fmt.Fprintf(w, "%s %s %s\n", runewidth.FillRight(e.Kind.Label(), 6), runewidth.FillRight(e.ID, 12), e.Name)
	}
}
