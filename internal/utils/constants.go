package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// ApplicationName is the command and configuration namespace.
	ApplicationName = "codecontext"
	// LoggerInitializationFailedMessageFormat reports logger construction failures.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %v"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "application execution failed"
)

// Names shared by the ignore loader, the traversals and the generator.
const (
	// GitIgnoreFileName is the name of the ignore file read at the scan root.
	GitIgnoreFileName = ".gitignore"
	// OutputFileName is the default name of the generated context dump.
	OutputFileName = "codecontext.txt"
	// DependencyDirectoryName is ignored at every depth regardless of the rule set.
	DependencyDirectoryName = "node_modules"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".codecontext.yaml"
	// GlobalConfigFileName is the configuration file inside the XDG application directory.
	GlobalConfigFileName = "config.yaml"
)

const wildcardPrefix = "*"

// BuiltInIgnoreRules lists exact names excluded from every scan.
var BuiltInIgnoreRules = []string{
	".git",
	DependencyDirectoryName,
	".vscode",
	OutputFileName,
	"dist",
	"out",
	".env",
	".env.local",
	".env.development",
	".env.production",
	"package.json",
	"package-lock.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	".npmrc",
	"npm-debug.log",
}

// BinaryExtensions lists lower-cased file extensions whose content is never dumped.
var BinaryExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".ico", ".pdf", ".zip"}
