/*
Package logger defines the [Logger] the golink service writes application logs with
and implements it over [log/slog].

# Overview

A [Logger] emits messages at four levels: DEBUG, INFO, WARN and ERROR.
Each method accepts an optional [*LogContext],
carrying what is inessential to the message proper
but fills in the picture of the service at the time of logging:
the error, the open request, the user and any other data.

[New] wraps a [*log/slog.Logger]; whichever [log/slog.Handler] backs it decides the output format.
The attribute helpers in this package ([TruncSourceAttr], [ColorizeLevel],
[DeleteLevelAttr] and [DeleteMessageAttr]) are meant for a handler's ReplaceAttr option.

# SentryLogger

[NewSentryLogger] decorates a [Logger] so WARN and ERROR messages whose [LogContext]
holds an error are also captured by Sentry.
*/
package logger
