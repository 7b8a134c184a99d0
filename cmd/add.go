package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/engine"
)

var (
	addContent  string
	addImage    string
	addCategory string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new knowledge point",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		p, err := eng.Add(args[0], addContent, addImage, addCategory)
		if errors.Is(err, engine.ErrInvalidInput) {
			fmt.Println("❌ Title must not be empty")
			return
		}
		if errors.Is(err, engine.ErrStorage) {
			fmt.Println("⚠️  Added in memory, but saving failed:", err)
		}

		fmt.Printf("✅ Added '%s' (id %d, first review: %s)\n",
			p.Title, p.ID, p.NextReviewDate.Format("2006-01-02"))
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Content of the knowledge point")
	addCmd.Flags().StringVarP(&addImage, "image", "i", "", "Path to an image to attach (copied into storage)")
	addCmd.Flags().StringVarP(&addCategory, "category", "g", "", "Category name")
}
