package main

import (
	"fmt"
	"os"
	"strings"
	"wiki-ui-suite/internal/bootstrap"
	"wiki-ui-suite/internal/entity"
)

const exitUsage = 2

func main() {
	engine, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	bootstrap.NewApp(engine).Run()
}

func parseArgs(args []string) (entity.Engine, error) {
	if len(args) == 1 {
		if engine, ok := entity.ParseEngine(args[0]); ok {
			return engine, nil
		}
	}

	return "", usageError()
}

func usageError() error {
	quoted := make([]string, 0, len(entity.SupportedEngines))
	for _, e := range entity.SupportedEngines {
		quoted = append(quoted, "'"+string(e)+"'")
	}

	return fmt.Errorf("Argument missing or invalid. Expected one of %s", strings.Join(quoted, ", "))
}
