package realtime

// Stable error codes for realtime push failures. These never surface over
// HTTP; they label logs and metrics.
const (
	codeClientSendFailed = "RT_9000"
)
