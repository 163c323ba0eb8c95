package api

const (
	// HeaderRunID is header for the aggregation RunID
	HeaderRunID = "x-run-id"
	// HeaderPipelineID is header for PipelineID
	HeaderPipelineID = "x-pipeline-id"
	// HeaderType is header for the event Type
	HeaderType = "x-type"
	// HeaderCorrelationID is header for CorrelationID
	HeaderCorrelationID = "x-correlation-id"
)
