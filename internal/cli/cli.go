// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codecontext/internal/config"
	"github.com/temirov/codecontext/internal/output"
	"github.com/temirov/codecontext/internal/services/clipboard"
	"github.com/temirov/codecontext/internal/services/generator"
	"github.com/temirov/codecontext/internal/tokenizer"
	"github.com/temirov/codecontext/internal/types"
	"github.com/temirov/codecontext/internal/utils"
)

const (
	versionFlagName     = "version"
	verboseFlagName     = "verbose"
	configFlagName      = "config"
	outputFlagName      = "output"
	outputShorthand     = "o"
	exclusionFlagName   = "exclude"
	exclusionShorthand  = "e"
	noGitignoreFlagName = "no-gitignore"
	stdoutFlagName      = "stdout"
	copyFlagName        = "copy"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	globalFlagName      = "global"
	forceFlagName       = "force"

	versionTemplate      = "codecontext version: %s\n"
	rootUse              = "codecontext"
	rootShortDescription = "codecontext command line interface"
	rootLongDescription  = `codecontext dumps a project into a single text file for language model prompts.
The document lists the directory tree followed by the content of every text file.
Use --version to print the application version.`

	generateUse              = types.CommandGenerate + " [paths...]"
	generateAlias            = "g"
	generateShortDescription = "write the context document (" + generateAlias + ")"
	// generateLongDescription provides detailed help for the generate command.
	generateLongDescription = `Write codecontext.txt at the root of each path, replacing any previous dump.
Entries named by the built-in rules, the root .gitignore and -e patterns are left out.
Files with image or archive extensions appear in the tree but not in the content.`
	// generateUsageExample demonstrates generate command usage.
	generateUsageExample = `  # Dump the working directory
  codecontext generate

  # Dump two projects, excluding build output, and copy the result
  codecontext g --copy -e build -e "*.log" ./api ./web

  # Print the document and its token count without writing a file
  codecontext generate --stdout --tokens --model gpt-4o .`

	initUse              = types.CommandInit
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration template to .codecontext.yaml in the working directory,
or to the global configuration directory with --global.`

	verboseFlagDescription     = "log debug details"
	versionFlagDescription     = "display application version"
	configFlagDescription      = "configuration file to use instead of .codecontext.yaml"
	outputFlagDescription      = "name of the file written at each root"
	exclusionFlagDescription   = "exclude entries by exact name or *suffix"
	noGitignoreFlagDescription = "do not use .gitignore"
	stdoutFlagDescription      = "print the document instead of writing the file"
	copyFlagDescription        = "copy the document to the clipboard"
	tokensFlagDescription      = "count tokens of the document"
	modelFlagDescription       = "tokenizer model to use for token counting"
	globalFlagDescription      = "write the global configuration file"
	forceFlagDescription       = "overwrite an existing configuration file"

	initWrittenMessage          = "configuration written"
	warningTokenizerMessage     = "token counting disabled"
	tokenizerReadyMessage       = "tokenizer ready"
	workingDirectoryErrorFormat = "%w: unable to determine working directory: %w"
	errorAbsolutePathFormat     = "%w: abs failed for '%s': %w"
	errorLoggerFormat           = "initialize logger: %w"
	errorConfigurationFormat    = "%w: %w"
	errorCopyFormat             = "copy to clipboard: %w"
)

// application carries the collaborators shared by every command.
type application struct {
	logger         *zap.Logger
	stdout         io.Writer
	copier         clipboard.Copier
	newCounter     func(tokenizer.Config) (tokenizer.Counter, string, error)
	newLogger      func() (*zap.Logger, error)
	globalFilePath string
	configFilePath string
	verbose        bool
}

func newApplication(logger *zap.Logger) *application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &application{
		logger:     logger,
		stdout:     os.Stdout,
		copier:     clipboard.NewService(),
		newCounter: tokenizer.NewCounter,
		newLogger:  utils.NewVerboseLogger,
	}
}

// Execute runs the codecontext application with os.Args.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(newApplication(logger))
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(app *application) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if !app.verbose {
				return nil
			}
			verboseLogger, err := app.newLogger()
			if err != nil {
				return fmt.Errorf(errorLoggerFormat, err)
			}
			app.logger = verboseLogger
			return nil
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	registerToggleFlag(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(app),
		createInitCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// generateFlags stores the raw generate flag values before they are merged with configuration.
type generateFlags struct {
	outputFileName    string
	exclusionPatterns []string
	disableGitignore  bool
	stdout            bool
	copyToClipboard   bool
	tokens            bool
	model             string
}

// generateSettings is the effective configuration of one generate run.
type generateSettings struct {
	outputFileName string
	useGitignore   bool
	extraRules     []string
	stdout         bool
	copy           bool
	tokens         bool
	model          string
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(app *application) *cobra.Command {
	var flags generateFlags

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := os.Getwd()
			if err != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, types.ErrConfiguration, err)
			}
			applicationConfig, err := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: app.configFilePath,
				GlobalFilePath:   app.globalFilePath,
			})
			if err != nil {
				return fmt.Errorf(errorConfigurationFormat, types.ErrConfiguration, err)
			}
			settings := resolveGenerateSettings(command, flags, applicationConfig.Generate)
			return app.runGenerate(command, settings, arguments)
		},
	}

	flagSet := generateCommand.Flags()
	flagSet.StringVarP(&flags.outputFileName, outputFlagName, outputShorthand, utils.OutputFileName, outputFlagDescription)
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionShorthand, nil, exclusionFlagDescription)
	registerToggleFlag(flagSet, &flags.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	registerToggleFlag(flagSet, &flags.stdout, stdoutFlagName, false, stdoutFlagDescription)
	registerToggleFlag(flagSet, &flags.copyToClipboard, copyFlagName, false, copyFlagDescription)
	registerToggleFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.StringVar(&app.configFilePath, configFlagName, "", configFlagDescription)
	return generateCommand
}

// resolveGenerateSettings prefers explicitly set flags, then configuration, then flag defaults.
func resolveGenerateSettings(command *cobra.Command, flags generateFlags, configuration config.GenerateConfiguration) generateSettings {
	changed := func(name string) bool { return command.Flags().Changed(name) }

	settings := generateSettings{
		outputFileName: flags.outputFileName,
		useGitignore:   !flags.disableGitignore,
		stdout:         flags.stdout,
		copy:           flags.copyToClipboard,
		tokens:         flags.tokens,
		model:          flags.model,
	}
	if !changed(outputFlagName) && configuration.Output != "" {
		settings.outputFileName = configuration.Output
	}
	if !changed(noGitignoreFlagName) {
		settings.useGitignore = config.BoolValue(configuration.UseGitignore, settings.useGitignore)
	}
	if !changed(stdoutFlagName) {
		settings.stdout = config.BoolValue(configuration.Stdout, settings.stdout)
	}
	if !changed(copyFlagName) {
		settings.copy = config.BoolValue(configuration.Clipboard, settings.copy)
	}
	if !changed(tokensFlagName) {
		settings.tokens = config.BoolValue(configuration.Tokens.Enabled, settings.tokens)
	}
	if !changed(modelFlagName) && configuration.Tokens.Model != "" {
		settings.model = configuration.Tokens.Model
	}
	settings.extraRules = utils.DeduplicatePatterns(append(append([]string{}, configuration.Exclude...), flags.exclusionPatterns...))
	return settings
}

func (app *application) runGenerate(command *cobra.Command, settings generateSettings, arguments []string) error {
	rootPaths, err := resolveRootPaths(arguments)
	if err != nil {
		return err
	}

	options := generator.Options{
		OutputFileName: settings.outputFileName,
		UseGitignore:   settings.useGitignore,
		ExtraRules:     settings.extraRules,
		SkipWrite:      settings.stdout,
	}
	if settings.tokens {
		counter, resolvedModel, counterErr := app.newCounter(tokenizer.Config{Model: settings.model})
		if counterErr != nil {
			app.logger.Warn(warningTokenizerMessage, zap.String("model", settings.model), zap.Error(counterErr))
		} else {
			app.logger.Debug(tokenizerReadyMessage, zap.String("model", resolvedModel))
			options.TokenCounter = counter
		}
	}

	results, err := generator.NewService(options, app.logger).GenerateAll(rootPaths)
	if err != nil {
		return err
	}
	documents := make([]types.OutputDocument, 0, len(results))
	for _, result := range results {
		documents = append(documents, result.Document)
	}

	if settings.stdout {
		writer := app.stdout
		if writer == nil {
			writer = command.OutOrStdout()
		}
		if err := output.WriteDocuments(writer, documents); err != nil {
			return err
		}
	}
	if settings.copy {
		if err := clipboard.CopyDocuments(app.copier, documents); err != nil {
			return fmt.Errorf(errorCopyFormat, err)
		}
	}
	return nil
}

// resolveRootPaths converts inputs to absolute form, collapsing duplicates. No inputs selects
// the working directory. Existence is checked by the generator.
func resolveRootPaths(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf(workingDirectoryErrorFormat, types.ErrConfiguration, err)
		}
		return []string{workingDirectory}, nil
	}
	seen := make(map[string]struct{})
	var result []string
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, types.ErrConfiguration, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		seen[cleanPath] = struct{}{}
		result = append(result, cleanPath)
	}
	return result, nil
}

// createInitCommand returns the init subcommand.
func createInitCommand(app *application) *cobra.Command {
	var writeGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destination, err := config.InitializeConfiguration(config.InitOptions{
				Target:         target,
				Force:          force,
				GlobalFilePath: app.globalFilePath,
			})
			if err != nil {
				return err
			}
			app.logger.Info(initWrittenMessage, zap.String("path", destination))
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &writeGlobal, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
