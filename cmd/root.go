// Package cmd implements the command-line interface for anigrab.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/anigrab-cli/anigrab/batch"
	"github.com/anigrab-cli/anigrab/color"
	"github.com/anigrab-cli/anigrab/constant"
	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/icon"
	"github.com/anigrab-cli/anigrab/key"
	"github.com/anigrab-cli/anigrab/kissanime"
	"github.com/anigrab-cli/anigrab/log"
	"github.com/anigrab-cli/anigrab/progress"
	"github.com/anigrab-cli/anigrab/source"
	"github.com/anigrab-cli/anigrab/style"
	"github.com/anigrab-cli/anigrab/util"
	"github.com/anigrab-cli/anigrab/version"
	"github.com/anigrab-cli/anigrab/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.Flags().IntP("from", "f", 1, "First episode number to download")
	rootCmd.Flags().IntP("count", "c", 0, "How many episodes to take (0 takes everything from the start episode)")

	rootCmd.Flags().StringP("quality", "q", "", "Video quality to download")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("quality", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return source.QualityNames(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.DownloadQuality, rootCmd.Flags().Lookup("quality")))

	rootCmd.Flags().StringP("dir", "d", "", "Destination directory for the downloaded episodes")
	lo.Must0(viper.BindPFlag(key.DownloadPath, rootCmd.Flags().Lookup("dir")))

	rootCmd.Flags().IntP("parallel", "p", 5, "Maximum number of episodes downloaded at the same time")
	lo.Must0(viper.BindPFlag(key.DownloadParallel, rootCmd.Flags().Lookup("parallel")))

	rootCmd.Flags().BoolP("links-only", "j", false, "Resolve download links and print them as JSON instead of downloading")
	rootCmd.Flags().StringP("output", "o", "", "File path to write the links-only JSON to")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("verbose", false, "Write debug-level logs for this run")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Initialize cleanup of localized temporary files on application startup.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for the anigrab application.
var rootCmd = &cobra.Command{
	Use:   constant.Anigrab + " <show-url>",
	Short: "A command-line batch downloader for anime episodes",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A command-line batch downloader for anime episodes"),
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("verbose")) {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "debug")
			handleErr(log.Setup())
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		showURL := args[0]
		handleErr(kissanime.Validate(showURL))

		from := lo.Must(cmd.Flags().GetInt("from"))
		if from < 1 {
			handleErr(errors.New("episode numbers start at 1"))
		}

		count := lo.Must(cmd.Flags().GetInt("count"))
		if count < 0 {
			handleErr(errors.New("count cannot be negative"))
		}

		parallel := viper.GetInt(key.DownloadParallel)
		if parallel < 1 {
			handleErr(errors.New("parallel must be at least 1"))
		}

		quality, err := pickQuality(viper.GetString(key.DownloadQuality))
		handleErr(err)

		dir := viper.GetString(key.DownloadPath)
		if dir == "" {
			dir = where.Downloads()
		}

		var out io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(file.Close)
			out = file
		}

		options := &batch.Options{
			ShowURL:   showURL,
			From:      from,
			Count:     count,
			Quality:   quality,
			Dir:       dir,
			Parallel:  parallel,
			LinksOnly: lo.Must(cmd.Flags().GetBool("links-only")),
			Out:       out,
		}

		display := progress.New()
		err = batch.Run(context.Background(), options, display)
		util.Ignore(display.Close)
		handleErr(err)
	},
}

// pickQuality resolves the quality selector for the run. An unset quality is
// asked interactively when stdin is a terminal and otherwise falls back to the
// best stream a mirror offers.
func pickQuality(configured string) (source.Quality, error) {
	if configured != "" {
		return source.ParseQuality(configured)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return source.QualityHighest, nil
	}

	prompt := survey.Select{
		Message: "Select video quality",
		Options: source.QualityNames(),
		Default: source.QualityHighest.String(),
	}

	var response string
	if err := survey.AskOne(&prompt, &response); err != nil {
		return "", err
	}

	return source.ParseQuality(response)
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
