// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/snapshot/internal/config"
	"github.com/temirov/snapshot/internal/filter"
	"github.com/temirov/snapshot/internal/services/clipboard"
	"github.com/temirov/snapshot/internal/snapshot"
	"github.com/temirov/snapshot/internal/tokenizer"
	"github.com/temirov/snapshot/internal/types"
	"github.com/temirov/snapshot/internal/utils"
)

const (
	versionFlagName      = "version"
	verboseFlagName      = "verbose"
	versionTemplate      = "snapshot version: %s\n"
	rootUse              = "snapshot"
	rootShortDescription = "snapshot command line interface"
	rootLongDescription  = `snapshot writes a single text document describing a project: a rendered
directory tree followed by the contents of every included file.
Configuration is read from ~/.snapshot/config.yaml and ./.snapshot.yaml; flags override both.`
	versionFlagDescription = "display application version"
	verboseFlagDescription = "log debug details to stderr"

	createUse              = types.CommandCreate
	createAlias            = "c"
	createShortDescription = "write a project snapshot (" + createAlias + ")"
	createLongDescription  = `Walk the project root, render its directory tree and append the content of
every file that passes the exclusion rules. Binary files, empty files and unreadable
files are represented by placeholders.`
	createUsageExample = `  # Snapshot the current directory into project_snapshot.txt
  snapshot create

  # Snapshot another directory, skipping logs and anything larger than 64 KiB
  snapshot create --root ../service --exclude-file "*.log" --max-size 65536

  # Copy the snapshot to the clipboard and report its token count
  snapshot create --clipboard --tokens`

	initUse              = types.CommandInit
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the built-in defaults as YAML into ./.snapshot.yaml, or into
~/.snapshot/config.yaml with --global. Existing files are kept unless --force is given.`

	rootFlagName            = "root"
	outputFlagName          = "output"
	outputFlagShorthand     = "o"
	excludeDirFlagName      = "exclude-dir"
	excludeFileFlagName     = "exclude-file"
	maxSizeFlagName         = "max-size"
	configFlagName          = "config"
	gitignoreFlagName       = "gitignore"
	workersFlagName         = "workers"
	clipboardFlagName       = "clipboard"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	caseSensitiveFlagName   = "case-sensitive"
	noDefaultExcludesFlag   = "no-default-excludes"
	globalFlagName          = "global"
	forceFlagName           = "force"
	rootFlagDescription     = "project root to snapshot (defaults to the working directory)"
	outputFlagDescription   = "snapshot file path, relative to the working directory"
	excludeDirDescription   = "additional directory name to exclude"
	excludeFileDescription  = "additional filename glob to exclude"
	maxSizeDescription      = "maximum file size in bytes; 0 disables the limit"
	configFlagDescription   = "configuration file used instead of ./.snapshot.yaml"
	gitignoreDescription    = "apply the root .gitignore"
	workersDescription      = "number of files processed concurrently"
	clipboardDescription    = "copy the snapshot to the clipboard"
	tokensDescription       = "count tokens in the snapshot"
	modelDescription        = "tokenizer model used for token counting"
	caseSensitiveDescrption = "match directory names and globs case-sensitively"
	noDefaultExcludesDesc   = "drop the built-in directory and file exclusions"
	globalFlagDescription   = "write the global configuration file"
	forceFlagDescription    = "overwrite an existing configuration file"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	gitignoreErrorFormat        = "load gitignore for %s: %w"
	assembleErrorFormat         = "assemble snapshot of %s: %w"
	writeErrorFormat            = "write snapshot to %s: %w"
	tokenCounterErrorFormat     = "initialize token counter: %w"

	summaryWrittenFormat    = "Snapshot written to %s\n"
	summaryCountsFormat     = "Files: %d total, %d processed, %d excluded, %d binary, %d errored\n"
	summarySizeFormat       = "Output size: %s\n"
	summaryTokensFormat     = "Tokens (%s): %d\n"
	initWrittenFormat       = "Configuration written to %s\n"
	warningNoFilesMessage   = "no files were included in the snapshot"
	warningClipboardMessage = "clipboard copy failed"
	warningTokensMessage    = "token count failed"
	infoCreateStartMessage  = "creating snapshot"
)

// Dependencies carries collaborators that tests replace.
type Dependencies struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	NewTokenCounter  func(tokenizer.Config) (tokenizer.Counter, string, error)
	Clock            func() time.Time
	WorkingDirectory string
	HomeDirectory    string
}

// Execute runs the snapshot application.
func Execute() error {
	rootCommand := NewRootCommand(Dependencies{})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

type application struct {
	dependencies Dependencies
	verbose      bool
	logger       *zap.Logger
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	app := &application{dependencies: dependencies}
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion && command.HasParent() {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			return app.initializeLogger()
		},
	}
	registerBooleanFlag(rootCommand.PersistentFlags(), &showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.AddCommand(
		app.createCreateCommand(),
		app.createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	return rootCommand
}

func (app *application) initializeLogger() error {
	if app.dependencies.Logger != nil {
		app.logger = app.dependencies.Logger
		return nil
	}
	logger, err := utils.NewApplicationLogger(app.verbose)
	if err != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
	}
	app.logger = logger
	return nil
}

func (app *application) workingDirectory() (string, error) {
	if app.dependencies.WorkingDirectory != "" {
		return app.dependencies.WorkingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

// createOptions stores the create command flags. Nil pointers leave the
// configuration files in charge.
type createOptions struct {
	root          string
	configPath    string
	output        string
	excludeDirs   []string
	excludeFiles  []string
	maxSize       int64
	workers       int
	model         string
	useGitignore  *bool
	clipboard     *bool
	tokens        *bool
	caseSensitive *bool
	noDefaults    bool
}

// overrideLayer converts explicitly set flags into a configuration layer.
func (options createOptions) overrideLayer(command *cobra.Command) config.ApplicationConfiguration {
	layer := config.ApplicationConfiguration{
		Output:       options.output,
		UseGitignore: options.useGitignore,
		Clipboard:    options.clipboard,
		Tokens:       config.TokenConfiguration{Enabled: options.tokens, Model: options.model},
	}
	if command.Flags().Changed(maxSizeFlagName) {
		maxSize := options.maxSize
		layer.MaxFileSize = &maxSize
	}
	if command.Flags().Changed(workersFlagName) {
		workers := options.workers
		layer.Workers = &workers
	}
	if options.caseSensitive != nil {
		caseInsensitive := !*options.caseSensitive
		layer.CaseInsensitive = &caseInsensitive
	}
	return layer
}

func (app *application) createCreateCommand() *cobra.Command {
	var options createOptions

	createCommand := &cobra.Command{
		Use:     createUse,
		Aliases: []string{createAlias},
		Short:   createShortDescription,
		Long:    createLongDescription,
		Example: createUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runCreate(command.Context(), command, options)
		},
	}

	flags := createCommand.Flags()
	flags.StringVar(&options.root, rootFlagName, "", rootFlagDescription)
	flags.StringVarP(&options.output, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	flags.StringArrayVar(&options.excludeDirs, excludeDirFlagName, nil, excludeDirDescription)
	flags.StringArrayVar(&options.excludeFiles, excludeFileFlagName, nil, excludeFileDescription)
	flags.Int64Var(&options.maxSize, maxSizeFlagName, config.DefaultMaxFileSizeBytes, maxSizeDescription)
	flags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	flags.IntVar(&options.workers, workersFlagName, config.DefaultWorkers, workersDescription)
	flags.StringVar(&options.model, modelFlagName, "", modelDescription)
	registerBooleanOverride(flags, &options.useGitignore, gitignoreFlagName, gitignoreDescription)
	registerBooleanOverride(flags, &options.clipboard, clipboardFlagName, clipboardDescription)
	registerBooleanOverride(flags, &options.tokens, tokensFlagName, tokensDescription)
	registerBooleanOverride(flags, &options.caseSensitive, caseSensitiveFlagName, caseSensitiveDescrption)
	registerBooleanFlag(flags, &options.noDefaults, noDefaultExcludesFlag, false, noDefaultExcludesDesc)
	return createCommand
}

func (app *application) runCreate(ctx context.Context, command *cobra.Command, options createOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := utils.LoggerOrNop(app.logger)
	workingDirectory, workingDirectoryError := app.workingDirectory()
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory:         workingDirectory,
		ExplicitFilePath:         options.configPath,
		HomeDirectory:            app.dependencies.HomeDirectory,
		WithoutDefaultExclusions: options.noDefaults,
	})
	if loadError != nil {
		return loadError
	}
	merged := loaded.Merge(options.overrideLayer(command))
	merged.ExcludeDirs = utils.DeduplicatePatterns(append(merged.ExcludeDirs, options.excludeDirs...))
	merged.ExcludeFiles = utils.DeduplicatePatterns(append(merged.ExcludeFiles, options.excludeFiles...))
	settings := merged.Resolve()

	rootDirectory := workingDirectory
	if options.root != "" {
		rootDirectory = resolveAgainst(workingDirectory, options.root)
	}
	outputPath := resolveAgainst(workingDirectory, settings.OutputFileName)

	logger.Info(infoCreateStartMessage, zap.String("root", rootDirectory), zap.String("output", outputPath))

	var ignoreMatcher filter.IgnoreMatcher
	if settings.UseGitignore {
		matcher, gitignoreError := filter.LoadGitignore(rootDirectory, settings.Exclusions)
		if gitignoreError != nil {
			return fmt.Errorf(gitignoreErrorFormat, rootDirectory, gitignoreError)
		}
		ignoreMatcher = matcher
	}

	document, counters, assembleError := snapshot.Assemble(ctx, rootDirectory, settings.Exclusions, snapshot.Options{
		Logger:        logger,
		Clock:         app.dependencies.Clock,
		OutputPath:    outputPath,
		IgnoreMatcher: ignoreMatcher,
		Workers:       settings.Workers,
	})
	if assembleError != nil {
		return fmt.Errorf(assembleErrorFormat, rootDirectory, assembleError)
	}

	writtenBytes, writeError := snapshot.Write(document, outputPath)
	if writeError != nil {
		return fmt.Errorf(writeErrorFormat, outputPath, writeError)
	}

	out := command.OutOrStdout()
	app.reportSummary(out, outputPath, counters, writtenBytes)
	if counters.Processed == 0 {
		logger.Warn(warningNoFilesMessage, zap.String("root", rootDirectory))
	}

	if settings.TokensEnabled {
		app.reportTokens(out, document, settings.TokenModel, logger)
	}
	if settings.Clipboard {
		copier := app.dependencies.Copier
		if copier == nil {
			copier = clipboard.NewService()
		}
		if copyError := copier.Copy(document.String()); copyError != nil {
			logger.Warn(warningClipboardMessage, zap.Error(copyError))
		}
	}
	return nil
}

func (app *application) reportSummary(out io.Writer, outputPath string, counters snapshot.Counters, writtenBytes int64) {
	fmt.Fprintf(out, summaryWrittenFormat, outputPath)
	fmt.Fprintf(out, summaryCountsFormat, counters.TotalFiles, counters.Processed, counters.Excluded, counters.SkippedBinary, counters.Errored)
	fmt.Fprintf(out, summarySizeFormat, utils.FormatFileSize(writtenBytes))
}

func (app *application) reportTokens(out io.Writer, document *snapshot.Document, model string, logger *zap.Logger) {
	newCounter := app.dependencies.NewTokenCounter
	if newCounter == nil {
		newCounter = tokenizer.NewCounter
	}
	counter, resolvedModel, counterError := newCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		logger.Warn(warningTokensMessage, zap.Error(fmt.Errorf(tokenCounterErrorFormat, counterError)))
		return
	}
	tokens, countError := tokenizer.CountDocument(counter, document.String())
	if countError != nil {
		logger.Warn(warningTokensMessage, zap.Error(countError))
		return
	}
	fmt.Fprintf(out, summaryTokensFormat, resolvedModel, tokens)
}

func (app *application) createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := app.workingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
				HomeDirectory:    app.dependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), initWrittenFormat, path)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func resolveAgainst(base string, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
