package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/models"
)

var (
	listSearch   string
	listCategory string
	listStatus   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge points, optionally filtered",
	Run: func(cmd *cobra.Command, args []string) {
		if listStatus != "" {
			if _, ok := models.ParseStatusTag(listStatus); !ok {
				fmt.Println("❌ Status must be one of: new, learning, reviewing, mastered")
				return
			}
		}

		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		eng.SetQuery(listSearch)
		eng.SetCategoryFilter(listCategory)
		eng.SetStatusFilter(listStatus)

		snap := eng.Visible()
		if len(snap.Points) == 0 {
			fmt.Println("No knowledge points match.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTitle\tCategory\tStatus\tMastery\tNext Review")
		fmt.Fprintln(w, "--\t-----\t--------\t------\t-------\t-----------")

		for _, p := range snap.Points {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d%%\t%s\n",
				p.ID, p.Title, p.Category, p.Status.Tag(),
				p.MasteryLevel, p.NextReviewDate.Format("2006-01-02"))
		}
		w.Flush()

		if len(snap.Categories) > 0 {
			fmt.Printf("\nCategories: all")
			for _, c := range snap.Categories {
				fmt.Printf(", %s", c)
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive text search in title and content")
	listCmd.Flags().StringVarP(&listCategory, "category", "g", "", "Filter by exact category")
	listCmd.Flags().StringVarP(&listStatus, "status", "t", "", "Filter by status tag (new/learning/reviewing/mastered)")
}
