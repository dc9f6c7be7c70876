package resume

// Stage is a step of the optimization lifecycle. Stages only move forward;
// any stage may end in StageFailed.
type Stage string

// Lifecycle stages, in order.
const (
	StageProcessing    Stage = "processing"
	StageTextExtracted Stage = "text_extracted"
	StageAIInvoked     Stage = "ai_invoked"
	StagePostProcessed Stage = "post_processed"
	StageCompleted     Stage = "completed"
	StageFailed        Stage = "failed"
)

// ProgressEvent reports a stage transition.
type ProgressEvent struct {
	ResumeID string `json:"resume_id,omitempty"`
	Stage    Stage  `json:"stage"`
	Message  string `json:"message"`
}

// ProgressCallback receives stage transitions in order.
type ProgressCallback func(event ProgressEvent)
