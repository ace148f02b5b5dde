// Package main provides the entry point for the profile agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	rootConfigPath string
	rootVerbose    bool
	rootModel      string
	rootModelURL   string
	rootUseBrowser bool
	rootHeadless   bool
)

var rootCmd = &cobra.Command{
	Use:   "profile_agent",
	Short: "Portfolio-driven profile builder",
	Long: `profile_agent extracts a portfolio site into structured data, generates
platform-tailored profile content with a locally hosted model, and applies it to
Upwork or LinkedIn through browser automation.

Configuration can be loaded from a JSON or YAML file using --config. Environment
variables override the file, and command-line flags override both.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "Path to config file (.json, .yaml or .yml)")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
	flags.StringVar(&rootModel, "model", "", "Model name on the model host (overrides OLLAMA_MODEL)")
	flags.StringVar(&rootModelURL, "model-url", "", "Model host base URL (overrides OLLAMA_BASE_URL)")
	flags.BoolVar(&rootUseBrowser, "use-browser", true, "Render thin pages in headless Chrome")
	flags.BoolVar(&rootHeadless, "headless", true, "Run profile automation without a browser window")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
