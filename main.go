package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	localeFlag string
	debugFlag  bool
	cfg        Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tauview [image]",
		Short: "A minimal image viewer",
		Long: `tauview shows an image and lets you page through the other
images in the same directory, in file name order.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var result ConfigLoadResult
			if cfgFile != "" {
				result = loadConfigFromPath(cfgFile)
			} else {
				result = loadConfig()
			}
			cfg = result.Config
			if localeFlag != "" {
				cfg.Locale = localeFlag
			}
			setDebug(debugFlag || cfg.Debug)
			debugLog("Config status: %s %v", result.Status, result.Warnings)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cfg, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tauview.json)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "locale for menu labels (default is the system locale)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewCatalogCmd())
	rootCmd.AddCommand(NewMimeCmd())
	rootCmd.AddCommand(NewTrashCmd())
	rootCmd.AddCommand(NewMenuCmd())

	return rootCmd
}

func catalogOptions(config Config) (CatalogOptions, error) {
	ignore, err := CompileIgnorePatterns(config.IgnorePatterns)
	if err != nil {
		return CatalogOptions{}, err
	}
	return CatalogOptions{
		Classifier: NewClassifier(config.ClassifierCacheSize),
		SortMethod: config.SortMethod,
		Ignore:     ignore,
	}, nil
}

// NewCatalogCmd lists the images that would be navigated from a path
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <path>",
		Short: "List the images in the directory of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := catalogOptions(cfg)
			if err != nil {
				return err
			}
			catalog, err := BuildCatalog(args[0], opts)
			if err != nil {
				return err
			}

			current, _ := catalog.IndexOf(args[0])
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, e := range catalog.Entries {
				marker := " "
				if i == current {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", marker, i+1, e.FileName(), e.Format)
			}
			return w.Flush()
		},
	}
}

// NewMimeCmd classifies files by content
func NewMimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mime <path>...",
		Short: "Report whether files are supported images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway := NewGateway(NewClassifier(0), nil, nil)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, path := range args {
				check := gateway.CheckMime(path)
				detail := check.Format.String()
				if check.Err != nil {
					detail = check.Err.Error()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", path, check.Class, detail)
			}
			return w.Flush()
		},
	}
}

// NewTrashCmd moves a file to the trash
func NewTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash <path>",
		Short: "Move a file to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway := NewGateway(NewClassifier(0), nil, newOSTrasher())
			if err := gateway.MoveToTrash(args[0]); err != nil {
				return fmt.Errorf("%s: %w", errorKindName(err), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved to trash: %s\n", args[0])
			return nil
		},
	}
}

// NewMenuCmd prints the localized menu
func NewMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print the menu with its accelerators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			labels, err := NewLabels(localeFor(cfg))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, sub := range MenuLayout(labels, runtime.GOOS) {
				fmt.Fprintf(w, "%s\n", sub.Title)
				for _, item := range sub.Items {
					if item.Separator {
						continue
					}
					fmt.Fprintf(w, "  %s\t%s\t%s\n", item.Label, item.Accelerator, item.Action)
				}
			}
			return w.Flush()
		},
	}
}

func localeFor(config Config) string {
	if config.Locale != "" {
		return config.Locale
	}
	return DetectLocale()
}

func runViewer(config Config, args []string) error {
	labels, err := NewLabels(localeFor(config))
	if err != nil {
		return err
	}
	debugLog("Locale %s, labels in %s", labels.Locale(), labels.Language())
	if err := InitGraphics(); err != nil {
		return err
	}

	game, err := NewGame(config, labels, NewClassifier(config.ClassifierCacheSize))
	if err != nil {
		return err
	}
	defer game.Close()

	if len(args) == 1 {
		game.Open(args[0])
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowSizeLimits(minWidth, minHeight, -1, -1)
	ebiten.SetWindowTitle("tauview")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(config.Fullscreen)

	return ebiten.RunGame(game)
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
