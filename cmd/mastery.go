package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/engine"
)

var masteryCmd = &cobra.Command{
	Use:   "set-mastery [id] [level 0-100]",
	Short: "Set a knowledge point's mastery level",
	Long: `Set the mastery level directly. The status is re-derived from the
new level; the next review date is not recomputed.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("❌ Invalid id")
			return
		}
		level, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Println("❌ Invalid mastery level")
			return
		}

		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		p, err := eng.SetMasteryLevel(id, level)
		if errors.Is(err, engine.ErrNotFound) {
			fmt.Println("❌ Knowledge point not found with id:", id)
			return
		}
		if errors.Is(err, engine.ErrStorage) {
			fmt.Println("⚠️  Updated in memory, but saving failed:", err)
		}

		fmt.Printf("✅ '%s' mastery set to %d%% (%s).\n", p.Title, p.MasteryLevel, p.Status.Tag())
	},
}

func init() {
	rootCmd.AddCommand(masteryCmd)
}
