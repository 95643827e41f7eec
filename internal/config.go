package internal

import "github.com/go-stdlog/stdlog"

type Config interface {
	GetChunkSize() int64
	GetLogger() stdlog.Logger
}
