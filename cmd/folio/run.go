package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/folio"
	"github.com/phanxgames/folio/config"
	"github.com/phanxgames/folio/host"
)

var (
	runLang          string
	runTheme         string
	runReducedMotion bool
	runFPS           bool
	runScript        string
	runScreenshots   string
	runAssets        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the portfolio window",
	Long: `Loads the config file (falling back to the built-in content), applies
command-line overrides and opens the page in a window. With --script the
run replays a JSON test script, writes its screenshots and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("lang") {
			cfg.Language = runLang
		}
		if cmd.Flags().Changed("theme") {
			cfg.Theme = runTheme
		}
		if cmd.Flags().Changed("reduced-motion") {
			cfg.ReducedMotion = runReducedMotion
		}
		if cmd.Flags().Changed("fps") {
			cfg.Window.FPS = runFPS
		}
		if cmd.Flags().Changed("assets") {
			cfg.Assets = runAssets
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		content, err := cfg.Content()
		if err != nil {
			return err
		}

		var script []byte
		if runScript != "" {
			script, err = os.ReadFile(runScript)
			if err != nil {
				return fmt.Errorf("reading script: %w", err)
			}
		}

		if verbose {
			fmt.Printf("Config: %s | language: %s | theme: %s | reduced motion: %t\n",
				cfgFile, cfg.Language, cfg.Theme, cfg.ReducedMotion)
		}

		return host.Run(host.PageContent{
			Content:     content,
			AvatarLight: cfg.Page.AvatarLight,
			AvatarDark:  cfg.Page.AvatarDark,
			Skills:      cfg.Page.Skills,
			HobbyImages: cfg.Page.HobbyImages,
			Links:       cfg.Page.Links,
		}, host.RunConfig{
			Title:         cfg.Window.Title,
			Width:         cfg.Window.Width,
			Height:        cfg.Window.Height,
			ShowFPS:       cfg.Window.FPS,
			Language:      folio.Language(cfg.Language),
			Theme:         cfg.ThemeValue(),
			ReducedMotion: cfg.ReducedMotion,
			Debug:         cfg.Debug || verbose,
			Assets:        cfg.Assets,
			Script:        script,
			ScreenshotDir: runScreenshots,
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file without opening a window",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)
		exitOnError(cfg.Validate())
		_, err = cfg.Content()
		exitOnError(err)
		fmt.Printf("%s is valid (%d languages, %d galleries)\n", cfgFile, len(cfg.Languages), len(cfg.Galleries))
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func init() {
	runCmd.Flags().StringVar(&runLang, "lang", "", "initial language (overrides config)")
	runCmd.Flags().StringVar(&runTheme, "theme", "", "initial theme: light or dark (overrides config)")
	runCmd.Flags().BoolVar(&runReducedMotion, "reduced-motion", false, "disable animated scrolling and thin the pointer trail")
	runCmd.Flags().BoolVar(&runFPS, "fps", false, "show the FPS widget")
	runCmd.Flags().StringVar(&runScript, "script", "", "JSON test script to replay")
	runCmd.Flags().StringVar(&runScreenshots, "screenshots", "screenshots", "directory for script screenshots")
	runCmd.Flags().StringVar(&runAssets, "assets", "", "directory image paths resolve against (overrides config)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
