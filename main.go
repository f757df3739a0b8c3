package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/TWRT/things-taskwarrior/internal/cli"
	"github.com/joho/godotenv"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
