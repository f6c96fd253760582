// Package log provides the logger used by patchbay tools.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the environment variable that enables debug output.
const DebugEnv = "PATCHBAY_DEBUG"

var debug bool

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}
}

// GetLogger returns a new logger instance. Debug level is set when
// PATCHBAY_DEBUG is true.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// WithGraph returns logger entry annotated with graph identity.
func WithGraph(l *logrus.Logger, graph string) *logrus.Entry {
	return l.WithField("graph", graph)
}
