// Package beastpak assembles the command line interface. Each verb is a
// thin cobra wrapper over pkg/commands, rendering the typed result
// through pkg/ui in the requested output format.
package beastpak

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/beastpak/internal/version"
	"github.com/arthur-debert/beastpak/pkg/cobrax/topics"
	"github.com/arthur-debert/beastpak/pkg/commands"
	"github.com/arthur-debert/beastpak/pkg/logging"
	"github.com/arthur-debert/beastpak/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "beastpak",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand given, show help but signal incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().String("config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().String("game-dir", "", MsgFlagGameDir)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newModsCmd())
	rootCmd.AddCommand(newBackupSavesCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Initialize topic-based help system
	// Try to find help topics relative to the executable location
	exe, err := os.Executable()
	if err == nil {
		possiblePaths := []string{
			filepath.Join(filepath.Dir(exe), "topics"),                                // Same directory as binary (production)
			filepath.Join(filepath.Dir(exe), "..", "..", "cmd", "beastpak", "topics"), // Development
			"cmd/beastpak/topics", // Current directory fallback
		}

		for _, helpPath := range possiblePaths {
			if _, err := os.Stat(helpPath); err == nil {
				opts := topics.Options{
					Extensions: []string{".txt", ".md"},
					// Always use Glamour renderer for markdown files
					Renderer: topics.NewGlamourRenderer(),
				}

				if err := topics.InitializeWithOptions(rootCmd, helpPath, opts); err == nil {
					break
				}
			}
		}
	}

	return rootCmd
}

// newRenderer builds the output renderer from the persistent --format flag
func newRenderer(cmd *cobra.Command) (ui.Renderer, error) {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// globalOptions reads the persistent flags every vertical accepts
func globalOptions(cmd *cobra.Command) (configPath, gameDir string) {
	flags := cmd.Root().PersistentFlags()
	configPath, _ = flags.GetString("config")
	gameDir, _ = flags.GetString("game-dir")
	return configPath, gameDir
}

// modIDsCompletion provides shell completion for installed mod ids
func modIDsCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	configPath, gameDir := globalOptions(cmd)

	result, err := commands.ListMods(commands.ListModsOptions{
		ConfigPath: configPath,
		GameDir:    gameDir,
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var ids []string
	for _, mod := range result.Mods {
		ids = append(ids, mod.ID)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// presetNamesCompletion provides shell completion for stored preset names
func presetNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	configPath, gameDir := globalOptions(cmd)

	result, err := commands.ListPresets(commands.ListPresetsOptions{
		ConfigPath: configPath,
		GameDir:    gameDir,
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, preset := range result.Presets {
		names = append(names, preset.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)
			preset, _ := cmd.Flags().GetString("preset")
			skipSaveBackup, _ := cmd.Flags().GetBool("skip-save-backup")

			log.Info().
				Str("preset", preset).
				Bool("skip_save_backup", skipSaveBackup).
				Msg("Building package")

			result, err := commands.BuildPackage(cmd.Context(), commands.BuildPackageOptions{
				ConfigPath:     configPath,
				GameDir:        gameDir,
				Preset:         preset,
				SkipSaveBackup: skipSaveBackup,
			})
			if err != nil {
				// A failed build still carries its terminal result
				if result != nil {
					_ = renderer.RenderResult(result)
				}
				return fmt.Errorf(MsgErrBuild, err)
			}

			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().String("preset", "", MsgFlagPreset)
	cmd.Flags().Bool("skip-save-backup", false, MsgFlagSkipSaveBackup)

	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			report, err := commands.Status(commands.StatusOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
			})
			if err != nil {
				return fmt.Errorf(MsgErrStatus, err)
			}

			return renderer.RenderResult(report)
		},
	}
}

func newModsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mods",
		Short:   MsgModsShort,
		Long:    MsgModsLong,
		GroupID: "core",
	}

	cmd.AddCommand(newModsListCmd())
	cmd.AddCommand(newModsAddCmd())
	cmd.AddCommand(newModsRemoveCmd())

	return cmd
}

func newModsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgModsListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			result, err := commands.ListMods(commands.ListModsOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
			})
			if err != nil {
				return fmt.Errorf(MsgErrListMods, err)
			}

			return renderer.RenderResult(result)
		},
	}
}

func newModsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <source-dir>",
		Short:   MsgModsAddShort,
		Long:    MsgModsAddLong,
		Example: MsgModsAddExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)
			id, _ := cmd.Flags().GetString("id")
			name, _ := cmd.Flags().GetString("name")
			modVersion, _ := cmd.Flags().GetString("mod-version")
			origin, _ := cmd.Flags().GetString("origin")

			log.Info().Str("source", args[0]).Str("id", id).Msg("Adding mod")

			result, err := commands.AddMod(commands.AddModOptions{
				ConfigPath:  configPath,
				GameDir:     gameDir,
				SourceDir:   args[0],
				ID:          id,
				DisplayName: name,
				Version:     modVersion,
				Origin:      origin,
			})
			if err != nil {
				return fmt.Errorf(MsgErrAddMod, err)
			}

			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().String("id", "", MsgFlagModID)
	cmd.Flags().String("name", "", MsgFlagModName)
	cmd.Flags().String("mod-version", "", MsgFlagModVersion)
	cmd.Flags().String("origin", "", MsgFlagModOrigin)

	return cmd
}

func newModsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <mod-id>",
		Short:             MsgModsRemoveShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: modIDsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			log.Info().Str("id", args[0]).Msg("Removing mod")

			result, err := commands.RemoveMod(commands.RemoveModOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
				ID:         args[0],
			})
			if err != nil {
				return fmt.Errorf(MsgErrRemoveMod, err)
			}

			return renderer.RenderResult(result)
		},
	}
}

func newBackupSavesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "backup-saves",
		Short:   MsgBackupSavesShort,
		Long:    MsgBackupSavesLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			result, err := commands.BackupSaves(commands.BackupSavesOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
			})
			if err != nil {
				return fmt.Errorf(MsgErrBackupSaves, err)
			}

			return renderer.RenderResult(result)
		},
	}
}

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presets",
		Short:   MsgPresetsShort,
		Long:    MsgPresetsLong,
		Example: MsgPresetsExample,
		GroupID: "core",
	}

	cmd.AddCommand(newPresetsListCmd())
	cmd.AddCommand(newPresetsSaveCmd())
	cmd.AddCommand(newPresetsShowCmd())
	cmd.AddCommand(newPresetsDeleteCmd())

	return cmd
}

func newPresetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgPresetsListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			result, err := commands.ListPresets(commands.ListPresetsOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
			})
			if err != nil {
				return fmt.Errorf(MsgErrPresets, err)
			}

			return renderer.RenderResult(result)
		},
	}
}

func newPresetsSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: MsgPresetsSaveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			log.Info().Str("preset", args[0]).Msg("Saving preset")

			result, err := commands.SavePreset(commands.SavePresetOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
				Name:       args[0],
			})
			if err != nil {
				return fmt.Errorf(MsgErrPresets, err)
			}

			return renderer.RenderResult(result)
		},
	}
}

func newPresetsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show <name>",
		Short:             MsgPresetsShowShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: presetNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			result, err := commands.ShowPreset(commands.ShowPresetOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
				Name:       args[0],
			})
			if err != nil {
				return fmt.Errorf(MsgErrPresets, err)
			}

			return renderer.RenderResult(result)
		},
	}
}

func newPresetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Short:             MsgPresetsDeleteShort,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: presetNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)

			log.Info().Str("preset", args[0]).Msg("Deleting preset")

			result, err := commands.DeletePreset(commands.DeletePresetOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
				Name:       args[0],
			})
			if err != nil {
				return fmt.Errorf(MsgErrPresets, err)
			}

			return renderer.RenderResult(result)
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd)
			if err != nil {
				return err
			}
			configPath, gameDir := globalOptions(cmd)
			write, _ := cmd.Flags().GetBool("write")

			result, err := commands.GenConfig(commands.GenConfigOptions{
				ConfigPath: configPath,
				GameDir:    gameDir,
				Write:      write,
			})
			if err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}

			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().Bool("write", false, MsgFlagWrite)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("beastpak version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}
