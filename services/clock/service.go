package clock

import (
	"context"
	"time"

	"clocktree-go/bus"
	"clocktree-go/drivers/rcc"
	"clocktree-go/errcode"
	"clocktree-go/types"
)

// Service announces the plan on the bus and answers hal/clock/get/<domain>.
// If the cell is still empty when it starts, it waits for a retained
// config/clock (an rcc.Config) and brings the tree up itself.
type Service struct {
	ctrl   Initializer
	cell   *Cell
	source string
	log    func(string)
}

// NewService binds a service to a cell. ctrl may be nil when the tree is
// configured before the bus exists. A nil cell means the process-wide one.
func NewService(ctrl Initializer, cell *Cell) *Service {
	if cell == nil {
		cell = &global
	}
	return &Service{ctrl: ctrl, cell: cell}
}

func (s *Service) WithLogger(fn func(string)) *Service {
	s.log = fn
	return s
}

func (s *Service) logf(msg string) {
	if s.log != nil {
		s.log("[clock] " + msg)
	}
}

// Announce publishes a plan as retained messages: the whole snapshot on
// hal/clock/info and one types.ClockValue per domain.
func Announce(conn *bus.Connection, c types.Clocks) {
	conn.Publish(conn.NewMessage(topicInfo(), c, true))
	for _, d := range types.Domains {
		f, _ := c.Get(d)
		conn.Publish(conn.NewMessage(topicValue(d), types.ClockValue{Domain: d, Hz: f.Hz()}, true))
	}
}

// Start runs the service loop in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.Run(ctx, conn)
	return nil
}

// Run blocks until ctx is done.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) {
	getSub := conn.Subscribe(getWildcard())
	defer conn.Unsubscribe(getSub)

	var cfgSub *bus.Subscription
	var cfgCh <-chan *bus.Message
	dropCfg := func() {
		if cfgSub != nil {
			conn.Unsubscribe(cfgSub)
			cfgSub, cfgCh = nil, nil
		}
	}
	defer dropCfg()

	if c, ok := s.cell.Load(); ok {
		s.ready(conn, c)
	} else {
		s.pubState(conn, types.ClockWaiting, "")
		cfgSub = conn.Subscribe(topicConfigClock())
		cfgCh = cfgSub.Channel()
	}

	for {
		select {
		case <-ctx.Done():
			s.logf("service stopping")
			return
		case msg, ok := <-getSub.Channel():
			if !ok {
				return
			}
			s.handleGet(conn, msg)
		case msg, ok := <-cfgCh:
			if !ok {
				cfgCh = nil
				continue
			}
			if s.handleConfig(conn, msg) {
				dropCfg()
			}
		}
	}
}

// handleConfig reports whether the plan is now published.
func (s *Service) handleConfig(conn *bus.Connection, msg *bus.Message) bool {
	var cfg rcc.Config
	switch v := msg.Payload.(type) {
	case rcc.Config:
		cfg = v
	case *rcc.Config:
		if v == nil {
			return false
		}
		cfg = *v
	default:
		s.pubState(conn, types.ClockFailed, errcode.InvalidConfig)
		return false
	}
	s.source = cfg.Source.String()

	if s.ctrl == nil {
		s.pubState(conn, types.ClockFailed, errcode.InvalidParams)
		return false
	}
	c, err := Configure(s.ctrl, cfg, s.cell)
	if err != nil {
		code := errcode.Of(err)
		s.logf("configure failed: " + string(code))
		if code == errcode.AlreadyPublished {
			if c, ok := s.cell.Load(); ok {
				s.ready(conn, c)
				return true
			}
		}
		s.pubState(conn, types.ClockFailed, code)
		return false
	}
	s.ready(conn, c)
	return true
}

func (s *Service) ready(conn *bus.Connection, c types.Clocks) {
	Announce(conn, c)
	s.pubState(conn, types.ClockReady, "")
	s.logf("sys=" + c.Sys.String() + " ahb=" + c.AHB1.String() +
		" apb1=" + c.APB1.String() + " apb2=" + c.APB2.String())
}

func (s *Service) handleGet(conn *bus.Connection, msg *bus.Message) {
	if !msg.CanReply() {
		return
	}
	tok, _ := msg.Topic.At(3).(string)
	d := types.Domain(tok)
	f, err := s.cell.Frequency(d)
	if err != nil {
		conn.Reply(msg, types.ErrorReply{OK: false, Error: string(errcode.Of(err))}, false)
		return
	}
	conn.Reply(msg, types.ClockValue{Domain: d, Hz: f.Hz()}, false)
}

func (s *Service) pubState(conn *bus.Connection, level string, code errcode.Code) {
	conn.Publish(conn.NewMessage(topicState(), types.ClockState{
		Level:  level,
		Source: s.source,
		Error:  string(code),
		TS:     time.Now().UnixNano(),
	}, true))
}
