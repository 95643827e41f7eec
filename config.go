package csvreader

import "github.com/go-stdlog/stdlog"

// DefaultChunkSize is the offset sampling stride used when Config.ChunkSize
// is left unset.
const DefaultChunkSize = 1000

type Config struct {
	// ChunkSize defines how many records apart the construction scan samples
	// byte offsets. Larger values shrink the index and lengthen the forward
	// scan lookups perform; a lookup reads at most ChunkSize-1 lines before
	// reaching its record. If unset, DefaultChunkSize is used.
	ChunkSize int64

	// Parser converts raw header and record lines into Records. If unset, a
	// SeparatorParser splitting on commas is used.
	Parser Parser

	// Logger allows a given stdlog.Logger instance to be set as the system
	// logger. If unset, no logs will be generated.
	Logger stdlog.Logger
}

func (c Config) GetChunkSize() int64 {
	return c.ChunkSize
}

func (c Config) GetLogger() stdlog.Logger {
	if c.Logger != nil {
		return c.Logger.Named("csvreader")
	}
	return stdlog.Discard
}
