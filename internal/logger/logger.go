package logger

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

// color wraps s in an ANSI code when stdout is a terminal.
func color(code, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return s
	}
	return code + s + reset
}

func line(level, levelColor, tag, msg string) {
	fmt.Printf("%s %s %s\n", color(levelColor, level), color(bold, "["+tag+"]"), msg)
}

// Info logs an informational message under a tag.
func Info(tag, msg string) {
	line("INFO", blue, tag, msg)
}

// Success logs a completed-action message under a tag.
func Success(tag, msg string) {
	line(" OK ", green, tag, msg)
}

// Warn logs a warning under a tag.
func Warn(tag, msg string) {
	line("WARN", yellow, tag, msg)
}

// Error logs an error under a tag.
func Error(tag, msg string) {
	line("FAIL", red, tag, msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Println(color(cyan, `
  ┌─┐┌─┐┬─┐┌─┐┌─┐┬  ┌─┐┌┬┐┌─┐
  ├─┘├┤ ├┬┘│  │ ││  ├─┤ │ ├┤
  ┴  └─┘┴└─└─┘└─┘┴─┘┴ ┴ ┴ └─┘`))
	fmt.Printf("  %s %s\n\n", color(bold, "button-network percolation lab"), color(dim, version))
}

// Server logs the listen address once the HTTP server is up.
func Server(addr string) {
	fmt.Printf("%s %s http://%s\n", color(green, " UP "), color(bold, "[Server]"), addr)
}

// Section prints a visual separator with a title.
func Section(title string) {
	fmt.Printf("\n%s\n", color(bold, "── "+title+" "+"─────────────────────────"))
}

// Stats prints a key/value pair aligned for scanning.
func Stats(key string, value interface{}) {
	fmt.Printf("  %-24s %v\n", color(dim, key), value)
}
