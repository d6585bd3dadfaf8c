// Package logging configures the diagnostic logger. Command output goes to
// stdout; diagnostics go to stderr through logrus.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing text lines to out at the named level.
// verbose forces debug level.
func New(out io.Writer, level string, verbose bool) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})

	if verbose {
		l.SetLevel(logrus.DebugLevel)
		return l, nil
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)
	return l, nil
}
