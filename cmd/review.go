package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/engine"
	"github.com/LavenderBridge/knowpoint/internal/models"
)

var reviewCmd = &cobra.Command{
	Use:   "review [optional id]",
	Short: "Start a review session",
	Long: `Start a review session.
If an id is provided, review that specific knowledge point.
If no id is provided, review every point due today.
For each point, report how well you recalled it:
  f: familiar (mastery +10)   v: vague (mastery -5)   x: forgot (mastery -10)`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		var points []models.KnowledgePoint

		if len(args) > 0 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("❌ Invalid id")
				return
			}
			p, err := eng.Get(id)
			if errors.Is(err, engine.ErrNotFound) {
				fmt.Println("❌ Knowledge point not found with id:", id)
				return
			}
			points = append(points, p)
		} else {
			points = eng.DueToday()
			if len(points) == 0 {
				fmt.Println("✅ Nothing due for review today!")
				return
			}
		}

		reader := bufio.NewReader(os.Stdin)

		for i, p := range points {
			fmt.Println("\n========================================")
			fmt.Printf("Reviewing [%d/%d]: %s\n", i+1, len(points), p.Title)
			if p.Category != "" {
				fmt.Printf("Category: %s\n", p.Category)
			}
			fmt.Println("========================================")

			fmt.Println("Press Enter to reveal the content...")
			reader.ReadString('\n')

			if p.Content != "" {
				fmt.Println(p.Content)
			}
			if p.ImagePath != "" {
				fmt.Printf("🖼  Image: %s\n", p.ImagePath)
			}

			fmt.Print("How was your recall? (f: familiar / v: vague / x: forgot / s: skip): ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))

			var delta int
			switch input {
			case "f":
				delta = engine.DeltaFamiliar
			case "v":
				delta = engine.DeltaVague
			case "x":
				delta = engine.DeltaForgot
			case "s", "":
				fmt.Println("⏭  Skipped.")
				continue
			default:
				fmt.Println("⚠️  Invalid input, skipping this point.")
				continue
			}

			updated, err := eng.Review(p.ID, delta)
			if errors.Is(err, engine.ErrStorage) {
				fmt.Println("⚠️  Reviewed in memory, but saving failed:", err)
			} else if err != nil {
				fmt.Printf("❌ Error reviewing point: %v\n", err)
				continue
			}
			fmt.Printf("✅ Mastery %d%% (%s). Next review: %s\n",
				updated.MasteryLevel, updated.Status.Tag(),
				updated.NextReviewDate.Format("2006-01-02"))
		}

		fmt.Println("\n🎉 Review session complete!")
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
