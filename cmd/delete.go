package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var forceDelete bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a knowledge point and its stored image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("❌ Invalid id")
			return
		}

		if !forceDelete {
			fmt.Printf("⚠️  Are you sure you want to delete knowledge point %d? (y/N): ", id)
			reader := bufio.NewReader(os.Stdin)
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "y" && input != "yes" {
				fmt.Println("❌ Cancelled.")
				return
			}
		}

		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		imagePath, err := eng.Delete(id)
		if err != nil {
			fmt.Println("⚠️  Deleted in memory, but saving failed:", err)
			return
		}

		if imagePath != "" {
			fmt.Printf("✅ Knowledge point deleted (image %s removed).\n", imagePath)
		} else {
			fmt.Println("✅ Knowledge point deleted.")
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Skip confirmation")
}
