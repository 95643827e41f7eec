package metrics

type MetricKind uint8

const (
	CommonIndexBuildTiming MetricKind = iota
	CommonIndexBuildFailures
	CommonRecordsIndexed
	CommonBytesIndexed
	CommonChunksIndexed
	CommonReadRecordCalls
	CommonReadRecordLatency
	CommonReadRecordFailures
	CommonCloneCalls
	CommonCloseTiming

	LookupSeekCalls
	LookupLinesScanned
	LookupLatency
	LookupFailures

	CursorOpenCalls
	CursorAdvanceCalls
	CursorAdvanceLatency
	CursorExhausted

	ParserParseCalls
	ParserParseFailures
)
