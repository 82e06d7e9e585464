package logtransports

import (
	"context"

	"deskwise.io/infra/dwlog"
	"deskwise.io/infra/jsonclient"
)

// hook jsonclient's failure logging up to dwlog without creating a
// dwlog -> jsonclient dependency

type jsonclientLogger struct{}

func (jsonclientLogger) Debugf(ctx context.Context, format string, args ...interface{}) {
	dwlog.Debugf(ctx, format, args...)
}

func init() {
	jsonclient.RegisterLogger(jsonclientLogger{})
}
