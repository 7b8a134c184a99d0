package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LavenderBridge/knowpoint/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all knowledge points as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := openEngine()
		if err != nil {
			fmt.Println("❌ Storage error:", err)
			return
		}
		defer eng.Close()

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				fmt.Println("❌ Cannot create file:", err)
				return
			}
			defer f.Close()
			out = f
		}

		if err := export.Write(out, eng.All()); err != nil {
			fmt.Println("❌ Export failed:", err)
			return
		}

		if exportOut != "" {
			fmt.Printf("✅ Exported %d knowledge points to %s\n", len(eng.All()), exportOut)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
