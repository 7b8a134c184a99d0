package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show knowledge points due for review today",
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		points := eng.DueToday()
		if len(points) == 0 {
			fmt.Println("✅ Nothing due today! Good job.")
			return
		}

		fmt.Printf("🔥 %d knowledge points due today:\n\n", len(points))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTitle\tCategory\tMastery\tNext Review")
		fmt.Fprintln(w, "--\t-----\t--------\t-------\t-----------")

		for _, p := range points {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d%%\t%s\n",
				p.ID, p.Title, p.Category, p.MasteryLevel,
				p.NextReviewDate.Format("2006-01-02"))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)
}
