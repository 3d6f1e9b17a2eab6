package domain

// ResumeStatus represents the lifecycle of an uploaded resume document.
type ResumeStatus string

const (
	ResumeStatusReceived ResumeStatus = "received"
	ResumeStatusStored   ResumeStatus = "stored"
	ResumeStatusIndexed  ResumeStatus = "indexed"
	ResumeStatusFailed   ResumeStatus = "failed"
)

// JobStatus represents the lifecycle of a job description record.
type JobStatus string

const (
	JobStatusReceived JobStatus = "received"
	JobStatusIndexed  JobStatus = "indexed"
	JobStatusFailed   JobStatus = "failed"
)

// InputKind classifies how an inbound request delivered its payload.
type InputKind string

const (
	InputJSON         InputKind = "json"
	InputMultipart    InputKind = "multipart"
	InputStorageEvent InputKind = "s3"
)

// PipelineState tracks how far a request progressed through the pipeline.
// Used for logging and for distinguishing partial completion in responses.
type PipelineState string

const (
	StateReceived           PipelineState = "received"
	StateClassified         PipelineState = "classified"
	StateDecoded            PipelineState = "decoded"
	StateTextExtracted      PipelineState = "text_extracted"
	StateMetadataExtracted  PipelineState = "metadata_extracted"
	StateEmbeddingsComputed PipelineState = "embeddings_computed"
	StateIndexed            PipelineState = "indexed"
	StateResponded          PipelineState = "responded"
)

// EmbeddingDimension is the fixed length of all section vectors. Collaborator
// failures substitute a zero vector of this length rather than propagating.
const EmbeddingDimension = 1024

// PDFMagic is the leading byte signature every accepted file must carry.
var PDFMagic = []byte("%PDF")

// MinFileBytes is the floor below which a multipart file part is treated as
// transport corruption rather than a document.
const MinFileBytes = 100

// MinUsableTextChars gates the expensive AI calls: extraction results shorter
// than this abort the request with no_extractable_text.
const MinUsableTextChars = 50
