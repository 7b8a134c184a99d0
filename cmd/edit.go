package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/engine"
)

var (
	editTitle    string
	editContent  string
	editImage    string
	editCategory string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a knowledge point's title, content, image, or category",
	Long: `Edit overwrites only the descriptive fields; scheduling state is
left untouched. The change is flushed to storage when the command ends.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("❌ Invalid id")
			return
		}

		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		target, err := eng.Get(id)
		if errors.Is(err, engine.ErrNotFound) {
			fmt.Println("❌ Knowledge point not found with id:", id)
			return
		}

		// Apply only the flags that were set.
		if cmd.Flags().Changed("title") {
			target.Title = editTitle
		}
		if cmd.Flags().Changed("content") {
			target.Content = editContent
		}
		if cmd.Flags().Changed("image") {
			target.ImagePath = editImage
		}
		if cmd.Flags().Changed("category") {
			target.Category = editCategory
		}

		_, err = eng.Edit(id, target.Title, target.Content, target.ImagePath, target.Category)
		if errors.Is(err, engine.ErrInvalidInput) {
			fmt.Println("❌ Title must not be empty")
			return
		}
		if err != nil {
			fmt.Println("❌ Error editing knowledge point:", err)
			return
		}

		// Edits are deferred writes; make this one durable now.
		if err := eng.Flush(); err != nil {
			fmt.Println("⚠️  Edited in memory, but saving failed:", err)
			return
		}

		fmt.Println("✅ Knowledge point updated!")
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringVar(&editImage, "image", "", "New image path (copied into storage)")
	editCmd.Flags().StringVar(&editCategory, "category", "", "New category")
}
