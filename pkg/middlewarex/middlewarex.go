package middlewarex

import "github.com/nefeygt/wowscraper/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
