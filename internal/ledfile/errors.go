package ledfile

import "errors"

var (
	// ErrTruncatedInput - во входных данных меньше байт, чем требует секция.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrInvalidMagicNumber - первые 512 байт не совпадают с "succeeded" + нули.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidAcmeMarker - маркер "acme\x00" не найден.
	ErrInvalidAcmeMarker = errors.New("invalid acme marker")

	// ErrWriteFailure - приёмник отклонил запись.
	ErrWriteFailure = errors.New("write failure")

	// ErrStepCountOutOfRange - число шагов погони больше 2000.
	ErrStepCountOutOfRange = errors.New("chase step count out of range")

	// ErrInvalidAssignment - назначение DMX нельзя записать одним байтом.
	ErrInvalidAssignment = errors.New("invalid dmx assignment")

	// ErrInvalidName - имя канала длиннее 7 байт или не ASCII.
	ErrInvalidName = errors.New("invalid channel name")
)
