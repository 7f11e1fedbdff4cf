// Package xlog provides a nil-safe logging interface. The standard log
// package doesn't support disabling output without formatting overhead;
// here a nil Logger simply drops the message before any formatting
// happens. The log.Logger type satisfies the Logger interface.
package xlog

import (
	"fmt"
	"log"
	"os"
)

// Logger is the interface output is written to. The log.Logger type
// supports this interface.
type Logger interface {
	Output(calldepth int, s string) error
}

// Print outputs the arguments using the logger. If the logger is nil
// nothing is printed.
func Print(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprint(v...))
	}
}

// Printf prints the arguments using the format string. If the logger is
// nil nothing is printed.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Println prints the arguments and adds a newline. If the logger is nil
// nothing is printed.
func Println(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintln(v...))
	}
}

// warn receives the output of the Warn functions. By default warnings go
// to standard error.
var warn Logger = log.New(os.Stderr, "", 0)

// SetWarn replaces the logger used for warnings. A nil value disables
// them.
func SetWarn(l Logger) { warn = l }

// Warn prints a warning message.
func Warn(v ...interface{}) {
	if warn != nil {
		warn.Output(2, fmt.Sprint(v...))
	}
}

// Warnf prints a formatted warning message.
func Warnf(format string, v ...interface{}) {
	if warn != nil {
		warn.Output(2, fmt.Sprintf(format, v...))
	}
}

// verbose receives the output of the Verbose functions; it is nil by
// default.
var verbose Logger

// SetVerbose replaces the logger used for verbose output. A nil value
// disables it.
func SetVerbose(l Logger) { verbose = l }

// Verbose prints a message if verbose output is enabled.
func Verbose(v ...interface{}) {
	if verbose != nil {
		verbose.Output(2, fmt.Sprint(v...))
	}
}

// Verbosef prints a formatted message if verbose output is enabled.
func Verbosef(format string, v ...interface{}) {
	if verbose != nil {
		verbose.Output(2, fmt.Sprintf(format, v...))
	}
}
