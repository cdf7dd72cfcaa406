// Package logging provides brane's structured RPC tracing channel,
// io.brane.debug, gated on BRANE_DEBUG=1 and built on logrus.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/noise-xyz/brane/internal/jsonrpc"
)

var (
	once    sync.Once
	logger  *logrus.Logger
	enabled bool
)

// channel is the debug logger's fixed name.
const channel = "io.brane.debug"

func initLogger() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	enabled = os.Getenv("BRANE_DEBUG") == "1"
	if !enabled {
		logger.SetLevel(logrus.ErrorLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}
}

// Enabled reports whether BRANE_DEBUG=1 tracing is active.
func Enabled() bool {
	once.Do(initLogger)
	return enabled
}

// TraceRPC logs an outbound RPC call at debug level, redacting any secret
// param fields first. A no-op when tracing is disabled.
func TraceRPC(providerName, method string, params []interface{}) {
	once.Do(initLogger)
	if !enabled {
		return
	}
	logger.WithFields(logrus.Fields{
		"channel":  channel,
		"provider": providerName,
		"method":   method,
		"params":   jsonrpc.Redact(params),
	}).Debug("[RPC] send")
}

// TraceResult logs an inbound RPC result or error at debug level.
func TraceResult(providerName, method string, err error) {
	once.Do(initLogger)
	if !enabled {
		return
	}
	entry := logger.WithFields(logrus.Fields{
		"channel":  channel,
		"provider": providerName,
		"method":   method,
	})
	if err != nil {
		entry.WithError(err).Debug("[RPC] error")
		return
	}
	entry.Debug("[RPC] ok")
}
