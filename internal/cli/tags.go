package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tutu-network/kudos/internal/daemon"
)

func init() {
	tagsHistoryCmd.Flags().IntVar(&tagsHistoryLimit, "limit", 10, "Number of revisions to show")
	tagsCmd.AddCommand(tagsShowCmd, tagsSetCmd, tagsHistoryCmd)
	rootCmd.AddCommand(tagsCmd)
}

var tagsHistoryLimit int

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Inspect or replace the popular-tag table",
}

var tagsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current popular tags",
	Args:  cobra.NoArgs,
	RunE:  runTagsShow,
}

var tagsSetCmd = &cobra.Command{
	Use:     "set NAME=COUNT...",
	Short:   "Replace the popular-tag table",
	Example: "  kudos tags set python=120 go=85",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTagsSet,
}

var tagsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent popular-tag updates",
	Args:  cobra.NoArgs,
	RunE:  runTagsHistory,
}

func openDaemon() (*daemon.Daemon, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return daemon.NewWithConfig(cfg, rootCmd.Version)
}

func runTagsShow(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	snap := d.Tags.Snapshot()
	if len(snap) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No popular tags. Run 'kudos tags set name=count ...' to add some.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tCOUNT")
	for _, name := range sortedTags(snap) {
		fmt.Fprintf(w, "%s\t%d\n", name, snap[name])
	}
	return w.Flush()
}

func runTagsSet(cmd *cobra.Command, args []string) error {
	next, err := parseTagPairs(args)
	if err != nil {
		return err
	}

	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	upd, err := d.Tags.Update(next)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated popular tags: %d -> %d entries\n", len(upd.Previous), len(upd.Updated))
	return nil
}

func runTagsHistory(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	revs, err := d.Tags.History(tagsHistoryLimit)
	if err != nil {
		return err
	}
	if len(revs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tag updates recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREVISED\tPREVIOUS\tUPDATED")
	for _, r := range revs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n",
			r.ID,
			time.Unix(r.RevisedAt, 0).Format("2006-01-02 15:04:05"),
			len(r.Previous),
			len(r.Updated),
		)
	}
	return w.Flush()
}
