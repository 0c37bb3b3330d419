// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/rcpack/internal/config"
	"github.com/temirov/rcpack/internal/content"
	"github.com/temirov/rcpack/internal/output"
	"github.com/temirov/rcpack/internal/packager"
	"github.com/temirov/rcpack/internal/services/clipboard"
	"github.com/temirov/rcpack/internal/tokenizer"
	"github.com/temirov/rcpack/internal/types"
	"github.com/temirov/rcpack/internal/utils"
)

const (
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	formatFlagName       = "format"
	formatFlagShorthand  = "f"
	recentFlagName       = "recent"
	recentFlagShorthand  = "r"
	includeFlagName      = "include"
	includeFlagShorthand = "i"
	excludeFlagName      = "exclude"
	excludeFlagShorthand = "e"
	maxFileBytesFlagName = "max-file-bytes"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	copyFlagName         = "copy"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	verboseFlagShorthand = "v"
	versionFlagName      = "version"
	globalFlagName       = "global"
	forceFlagName        = "force"

	outputFlagDescription       = "write the package to this file instead of stdout"
	formatFlagDescription       = "output format: markdown (text, md), json, yaml (yml) or xml"
	recentFlagDescription       = "only include files modified in the last 7 days"
	includeFlagDescription      = "glob pattern of files to include; repeatable or comma separated"
	excludeFlagDescription      = "glob pattern of files to exclude; repeatable or comma separated"
	maxFileBytesFlagDescription = "maximum bytes read from each file"
	tokensFlagDescription       = "include token counts"
	modelFlagDescription        = "tokenizer model to use for token counting"
	copyFlagDescription         = "copy the package to the clipboard"
	configFlagDescription       = "configuration file to use instead of " + utils.ConfigFileName
	verboseFlagDescription      = "log skipped paths and other diagnostics to stderr"
	versionFlagDescription      = "display application version"
	globalFlagDescription       = "write the per-user configuration file"
	forceFlagDescription        = "overwrite an existing configuration file"

	defaultPath          = "."
	versionTemplate      = utils.ApplicationName + " version: %s\n"
	rootUse              = "rcpack [paths...]"
	rootShortDescription = "package repository files into one context document"
	rootLongDescription  = `rcpack collects the files of a repository (or of selected files and
directories) and writes a single document holding git metadata, a directory
tree and the content of every included file. Use --format to choose markdown,
json, yaml or xml, --include and --exclude to select files, and --recent to
keep only recently modified files. A directory named like a subcommand is
packaged by giving its path, as in "rcpack ./tree".`
	rootUsageExample = `  # Package the current repository as Markdown
  rcpack

  # Package Go sources under ./internal as JSON into a file
  rcpack ./internal -i '*.go' -f json -o context.json

  # Count tokens and copy the result to the clipboard
  rcpack --tokens --copy .`

	treeUse              = "tree [paths...]"
	treeShortDescription = "print only the directory tree"
	treeLongDescription  = `Print the directory tree of the files rcpack would package.
The same --include, --exclude and --recent selection rules apply.`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the built-in defaults to ` + utils.ConfigFileName + ` in the working
directory, or to the per-user configuration file with --global.`

	invalidFormatMessage       = "Invalid format value '%s'"
	invalidMaxFileBytesMessage = "--max-file-bytes must be positive, got %d"
	writeOutputErrorFormat     = "write output to %s: %w"
	createOutputDirErrorFormat = "create output directory for %s: %w"
	wroteOutputMessageFormat   = "Wrote %d files, %d lines to %s\n"
	wroteConfigMessageFormat   = "Wrote configuration to %s\n"
	clipboardWarningMessage    = "failed to copy package to clipboard"
)

// Execute runs the rcpack application.
func Execute() error {
	rootCommand := createRootCommand(defaultDependencies())
	rootCommand.SetArgs(joinBooleanLiterals(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// dependencies are the collaborators commands reach outside the process through.
type dependencies struct {
	standardOutput   io.Writer
	standardError    io.Writer
	copier           clipboard.Copier
	packagerOptions  []packager.Option
	workingDirectory string
}

func defaultDependencies() dependencies {
	return dependencies{
		standardOutput: os.Stdout,
		standardError:  os.Stderr,
		copier:         clipboard.NewService(),
	}
}

// flagValues receives raw flag values before they are layered over
// configuration. Boolean flags write straight into overlay.
type flagValues struct {
	overlay      config.ApplicationConfiguration
	outputPath   string
	format       string
	include      []string
	exclude      []string
	maxFileBytes int
	model        string
	configPath   string
	showVersion  bool
}

// overrides returns only the flags the user set explicitly.
func (values *flagValues) overrides(flagSet *pflag.FlagSet) config.ApplicationConfiguration {
	overrides := values.overlay
	if flagSet.Changed(outputFlagName) {
		overrides.Output = values.outputPath
	}
	if flagSet.Changed(formatFlagName) {
		overrides.Format = values.format
	}
	if flagSet.Changed(includeFlagName) {
		overrides.Include = utils.SplitPatternList(values.include)
	}
	if flagSet.Changed(excludeFlagName) {
		overrides.Exclude = utils.SplitPatternList(values.exclude)
	}
	if flagSet.Changed(maxFileBytesFlagName) {
		overrides.MaxFileBytes = &values.maxFileBytes
	}
	if flagSet.Changed(modelFlagName) {
		overrides.Model = values.model
	}
	return overrides
}

// resolveSettings layers defaults, configuration files and explicit flags.
func resolveSettings(command *cobra.Command, values *flagValues, workingDirectory string) (config.ApplicationConfiguration, error) {
	fileConfiguration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: values.configPath,
	})
	if err != nil {
		return config.ApplicationConfiguration{}, err
	}
	return config.Defaults().Merge(fileConfiguration).Merge(values.overrides(command.Flags())), nil
}

// resolveInputs picks positional paths, then the configured path, then the working directory.
func resolveInputs(arguments []string, settings config.ApplicationConfiguration) []string {
	if len(arguments) > 0 {
		return arguments
	}
	if strings.TrimSpace(settings.Path) != "" {
		return []string{settings.Path}
	}
	return []string{defaultPath}
}

func packagerOptionsFrom(inputs []string, settings config.ApplicationConfiguration) packager.Options {
	return packager.Options{
		Inputs:       inputs,
		Include:      settings.Include,
		Exclude:      settings.Exclude,
		MaxFileBytes: config.IntValue(settings.MaxFileBytes, 0),
		Recent:       config.BoolValue(settings.Recent, false),
		CountTokens:  config.BoolValue(settings.Tokens, false),
		TokenModel:   settings.Model,
	}
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	values := &flagValues{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if values.showVersion {
				fmt.Fprintf(deps.standardOutput, versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return runPack(command.Context(), command, arguments, values, deps)
		},
	}
	rootCommand.SetOut(deps.standardOutput)
	rootCommand.SetErr(deps.standardError)

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringArrayVarP(&values.include, includeFlagName, includeFlagShorthand, nil, includeFlagDescription)
	persistentFlags.StringArrayVarP(&values.exclude, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	bindBooleanOverlay(persistentFlags, &values.overlay.Recent, recentFlagName, recentFlagShorthand, false, recentFlagDescription)
	persistentFlags.StringVar(&values.configPath, configFlagName, "", configFlagDescription)
	bindBooleanOverlay(persistentFlags, &values.overlay.Verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)

	flags := rootCommand.Flags()
	flags.StringVarP(&values.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	flags.StringVarP(&values.format, formatFlagName, formatFlagShorthand, types.FormatMarkdown, formatFlagDescription)
	flags.IntVar(&values.maxFileBytes, maxFileBytesFlagName, content.DefaultMaxFileBytes, maxFileBytesFlagDescription)
	bindBooleanOverlay(flags, &values.overlay.Tokens, tokensFlagName, "", false, tokensFlagDescription)
	flags.StringVar(&values.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	bindBooleanOverlay(flags, &values.overlay.Copy, copyFlagName, "", false, copyFlagDescription)
	flags.BoolVar(&values.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(
		createTreeCommand(values, deps),
		createInitCommand(deps),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// runPack builds the package and delivers it to stdout or --output, and optionally the clipboard.
func runPack(ctx context.Context, command *cobra.Command, arguments []string, values *flagValues, deps dependencies) error {
	if ctx == nil {
		ctx = context.Background()
	}
	settings, err := resolveSettings(command, values, deps.workingDirectory)
	if err != nil {
		return err
	}
	format, known := types.NormalizeFormat(strings.ToLower(strings.TrimSpace(settings.Format)))
	if !known {
		return fmt.Errorf(invalidFormatMessage, settings.Format)
	}
	if maxFileBytes := config.IntValue(settings.MaxFileBytes, 0); maxFileBytes <= 0 {
		return fmt.Errorf(invalidMaxFileBytesMessage, maxFileBytes)
	}

	logger, err := utils.NewApplicationLogger(config.BoolValue(settings.Verbose, false))
	if err != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
	}
	defer func() { _ = logger.Sync() }()

	inputs := resolveInputs(arguments, settings)
	result, err := packager.New(logger, deps.packagerOptions...).Build(ctx, packagerOptionsFrom(inputs, settings))
	if err != nil {
		return err
	}
	rendered, err := output.Render(format, result.Document)
	if err != nil {
		return err
	}

	if settings.Output != "" {
		if err := writeOutputFile(settings.Output, rendered); err != nil {
			return err
		}
		fmt.Fprintf(deps.standardError, wroteOutputMessageFormat, result.Stats.Files, result.Stats.Lines, settings.Output)
	} else {
		fmt.Fprint(deps.standardOutput, withTrailingNewline(rendered))
	}

	if config.BoolValue(settings.Copy, false) && deps.copier != nil {
		if copyErr := deps.copier.Copy(rendered); copyErr != nil {
			logger.Warn(clipboardWarningMessage, zap.Error(copyErr))
		}
	}
	return nil
}

func writeOutputFile(outputPath string, rendered string) error {
	if directory := filepath.Dir(outputPath); directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf(createOutputDirErrorFormat, outputPath, err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(withTrailingNewline(rendered)), 0o644); err != nil {
		return fmt.Errorf(writeOutputErrorFormat, outputPath, err)
	}
	return nil
}

func withTrailingNewline(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(values *flagValues, deps dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   treeUse,
		Short: treeShortDescription,
		Long:  treeLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, err := resolveSettings(command, values, deps.workingDirectory)
			if err != nil {
				return err
			}
			logger, err := utils.NewApplicationLogger(config.BoolValue(settings.Verbose, false))
			if err != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
			}
			defer func() { _ = logger.Sync() }()

			inputs := resolveInputs(arguments, settings)
			result, err := packager.New(logger, deps.packagerOptions...).Tree(packagerOptionsFrom(inputs, settings))
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.standardOutput, result.Structure)
			return nil
		},
	}
}

// createInitCommand returns the init subcommand.
func createInitCommand(deps dependencies) *cobra.Command {
	var global, force *bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if config.BoolValue(global, false) {
				target = config.InitTargetGlobal
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            config.BoolValue(force, false),
				WorkingDirectory: deps.workingDirectory,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(deps.standardError, wroteConfigMessageFormat, writtenPath)
			return nil
		},
	}
	bindBooleanOverlay(initCommand.Flags(), &global, globalFlagName, "", false, globalFlagDescription)
	bindBooleanOverlay(initCommand.Flags(), &force, forceFlagName, "", false, forceFlagDescription)
	return initCommand
}
