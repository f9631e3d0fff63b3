package audio

import "codeberg.org/mutker/ministatus/internal/errors"

const (
	ErrSessionFailed   = errors.ErrorCode("audio_session_failed")
	ErrSubscribeFailed = errors.ErrorCode("audio_subscribe_failed")
	ErrQueryFailed     = errors.ErrorCode("audio_query_failed")
	ErrCloseFailed     = errors.ErrorCode("audio_close_failed")
)

// Server is the subset of the audio server protocol the synchronizer needs
type Server interface {
	// DefaultSink returns the name of the server's default sink
	DefaultSink() (string, error)
	// SinkByName queries a sink; an empty name means the default sink
	SinkByName(name string) (Sink, error)
	SinkByIndex(index uint32) (Sink, error)
	// Subscribe registers handler for server and sink change notifications.
	// handler runs on a goroutine owned by the server and must not block.
	Subscribe(handler func(Notification)) error
	Close() error
}

// Sink is the volume and mute state of one output
type Sink struct {
	Name   string
	Volume int
	Muted  bool
}

type NotificationKind int

const (
	// ServerChanged means server-wide settings such as the default sink changed
	ServerChanged NotificationKind = iota
	// SinkChanged means the volume or mute state of the sink at Index changed
	SinkChanged
)

func (k NotificationKind) String() string {
	switch k {
	case ServerChanged:
		return "server"
	case SinkChanged:
		return "sink"
	default:
		return "unknown"
	}
}

type Notification struct {
	Kind  NotificationKind
	Index uint32
}
