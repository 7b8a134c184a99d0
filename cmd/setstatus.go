package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/engine"
	"github.com/LavenderBridge/knowpoint/internal/models"
)

var setStatusCmd = &cobra.Command{
	Use:   "set-status [id] [new/learning/reviewing/mastered]",
	Short: "Override a knowledge point's status directly",
	Long: `Override the lifecycle status without going through a review.
Mastery level is left unchanged; normally the status is derived from it,
this is the explicit exception.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("❌ Invalid id")
			return
		}
		status, ok := models.ParseStatusTag(args[1])
		if !ok {
			fmt.Println("❌ Status must be one of: new, learning, reviewing, mastered")
			return
		}

		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		p, err := eng.SetStatus(id, status)
		if errors.Is(err, engine.ErrNotFound) {
			fmt.Println("❌ Knowledge point not found with id:", id)
			return
		}
		if errors.Is(err, engine.ErrStorage) {
			fmt.Println("⚠️  Updated in memory, but saving failed:", err)
		}

		fmt.Printf("✅ '%s' is now %s.\n", p.Title, p.Status.Tag())
	},
}

func init() {
	rootCmd.AddCommand(setStatusCmd)
}
