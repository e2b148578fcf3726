package log

import "go.uber.org/zap"

var (
	Skip       = zap.Skip
	Bool       = zap.Bool
	Float64    = zap.Float64
	Float      = zap.Float64
	Float64s   = zap.Float64s
	Int        = zap.Int
	Int64      = zap.Int64
	Ints       = zap.Ints
	Uint       = zap.Uint
	Uint32     = zap.Uint32
	Uint64     = zap.Uint64
	String     = zap.String
	Strings    = zap.Strings
	Stringer   = zap.Stringer
	Time       = zap.Time
	Duration   = zap.Duration
	Any        = zap.Any
	ErrorField = zap.Error
	NamedError = zap.NamedError
	Namespace  = zap.Namespace
)
