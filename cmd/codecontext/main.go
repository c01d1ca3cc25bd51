package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/codecontext/internal/cli"
	"github.com/temirov/codecontext/internal/utils"
)

// main is the entry point for the codecontext command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	zap.ReplaceGlobals(loggerInstance)
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
