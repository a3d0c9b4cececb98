package worker

// Pool log messages
const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgWorkerJobCancelled = "Worker job cancelled by pool shutdown"
)
