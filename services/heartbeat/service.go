package heartbeat

import (
	"context"
	"time"

	"clocktree-go/bus"
	"clocktree-go/services/clock"
	"clocktree-go/types"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

// Service prints a periodic line carrying the clock plan once it is known.
type Service struct {
	Interval time.Duration
	Out      func(string) // defaults to println
}

func (s *Service) emit(line string) {
	if s.Out != nil {
		s.Out(line)
		return
	}
	println(line)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	infoSub := conn.Subscribe(clock.InfoTopic())
	defer conn.Unsubscribe(infoSub)

	iv := s.Interval
	if iv <= 0 {
		iv = time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	sys := "?"
	// loop until context is cancelled, respond to tick, clock and config changes
	for {
		select {
		case <-ctx.Done():
			s.emit("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			s.emit("Info: " + t.Format("15:04:05") + " Heartbeat sys=" + sys)
		case msg := <-infoSub.Channel():
			if c, ok := msg.Payload.(types.Clocks); ok {
				sys = c.Sys.String()
			}
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if c, ok := msg.Payload.(types.HeartbeatConfig); ok && c.Interval > 0 {
				tick.Reset(c.Interval)
				s.emit("Info: Heartbeat interval " + c.Interval.String())
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
