package audio

import (
	"math"
	"net"

	"codeberg.org/mutker/ministatus/internal/errors"
	"github.com/jfreymuth/pulse/proto"
)

const (
	defaultSinkName = "@DEFAULT_SINK@"
	// PA_VOLUME_NORM, 100%
	volumeNorm = 0x10000
)

// pulseServer talks the PulseAudio native protocol (also served by pipewire-pulse)
type pulseServer struct {
	client *proto.Client
	conn   net.Conn
}

// DialPulse connects to the local PulseAudio server and registers the client
// name. Any failure means the session never became ready.
func DialPulse(appName string) (Server, error) {
	errFactory := errors.New()

	client, conn, err := proto.Connect("")
	if err != nil {
		return nil, errFactory.Wrap(ErrSessionFailed, err)
	}

	props := proto.PropList{
		"application.name": proto.PropListString(appName),
	}
	if err := client.Request(&proto.SetClientName{Props: props}, &proto.SetClientNameReply{}); err != nil {
		_ = conn.Close()
		return nil, errFactory.Wrap(ErrSessionFailed, err)
	}

	return &pulseServer{client: client, conn: conn}, nil
}

func (p *pulseServer) DefaultSink() (string, error) {
	var reply proto.GetServerInfoReply
	if err := p.client.Request(&proto.GetServerInfo{}, &reply); err != nil {
		return "", errors.New().Wrap(ErrQueryFailed, err)
	}

	return reply.DefaultSinkName, nil
}

func (p *pulseServer) SinkByName(name string) (Sink, error) {
	if name == "" {
		name = defaultSinkName
	}

	return p.sinkInfo(&proto.GetSinkInfo{SinkIndex: proto.Undefined, SinkName: name})
}

func (p *pulseServer) SinkByIndex(index uint32) (Sink, error) {
	return p.sinkInfo(&proto.GetSinkInfo{SinkIndex: index})
}

func (p *pulseServer) sinkInfo(req *proto.GetSinkInfo) (Sink, error) {
	var reply proto.GetSinkInfoReply
	if err := p.client.Request(req, &reply); err != nil {
		return Sink{}, errors.New().Wrap(ErrQueryFailed, err)
	}

	return Sink{
		Name:   reply.SinkName,
		Volume: volumePercent(reply.ChannelVolumes),
		Muted:  reply.Mute,
	}, nil
}

// Subscribe installs the protocol callback. The callback runs on the
// connection's read loop, where issuing requests would deadlock, so it only
// translates events for handler.
func (p *pulseServer) Subscribe(handler func(Notification)) error {
	p.client.Callback = func(msg interface{}) {
		ev, ok := msg.(*proto.SubscribeEvent)
		if !ok || ev.Event.GetType() != proto.EventChange {
			return
		}

		switch ev.Event.GetFacility() {
		case proto.EventServer:
			handler(Notification{Kind: ServerChanged})
		case proto.EventSink:
			handler(Notification{Kind: SinkChanged, Index: ev.Index})
		}
	}

	mask := proto.SubscriptionMaskServer | proto.SubscriptionMaskSink
	if err := p.client.Request(&proto.Subscribe{Mask: mask}, nil); err != nil {
		return errors.New().Wrap(ErrSubscribeFailed, err)
	}

	return nil
}

func (p *pulseServer) Close() error {
	return p.conn.Close()
}

// volumePercent averages the channel volumes like pa_cvolume_avg and scales
// the result to a percentage of the normal volume
func volumePercent(channels []uint32) int {
	if len(channels) == 0 {
		return 0
	}

	var sum uint64
	for _, v := range channels {
		sum += uint64(v)
	}
	avg := float64(sum / uint64(len(channels)))

	return int(math.Round(avg / volumeNorm * 100))
}
