package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge point statistics",
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		stats := eng.Stats()

		fmt.Println("📊 Statistics")
		fmt.Println("-------------")
		fmt.Printf("Total:     %d\n", stats.Total)
		fmt.Printf("Due:       %d\n", stats.Due)
		fmt.Printf("Learning:  %d\n", stats.Learning)
		fmt.Printf("Mastered:  %d\n", stats.Mastered)

		// Distribution across the four statuses.
		counts := make(map[models.Status]int)
		for _, p := range eng.All() {
			counts[p.Status]++
		}

		fmt.Println("\n📈 Distribution by status")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Status\tCount")
		fmt.Fprintln(w, "------\t-----")
		for s := models.StatusNew; s <= models.StatusMastered; s++ {
			count := counts[s]
			bar := ""
			for j := 0; j < count; j++ {
				bar += "█"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", s.Tag(), count, bar)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
