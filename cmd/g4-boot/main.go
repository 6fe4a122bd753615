//go:build stm32g4

package main

import (
	"context"
	"time"

	"clocktree-go/bus"
	"clocktree-go/drivers/rcc"
	"clocktree-go/services/clock"
	"clocktree-go/services/config"
	"clocktree-go/services/heartbeat"
	"clocktree-go/types"
)

// device selects the embedded configuration this image boots with.
const device = "nucleo-g474re"

func printTopicWith(prefix string, t bus.Topic) {
	print(prefix)
	print(" ")
	for i := 0; i < len(t); i++ {
		if i > 0 {
			print("/")
		}
		switch v := t.At(i).(type) {
		case string:
			print(v)
		case types.Domain:
			print(string(v))
		default:
			print("?")
		}
	}
	println()
}

// halt parks the core after a fatal boot error.
func halt(msg string) {
	for {
		println("[main] halted:", msg)
		time.Sleep(5 * time.Second)
	}
}

func main() {
	// The clock tree comes first: nothing else may run until it is published.
	doc, err := config.Load(device)
	if err != nil {
		halt(err.Error())
	}
	cfg, err := doc.Clock.ToRCC()
	if err != nil {
		halt(err.Error())
	}
	ctrl := rcc.New(rcc.MMIO{}, rcc.Spin{}).WithLogger(func(s string) { println(s) })
	clocks, err := clock.Configure(ctrl, cfg, nil)
	if err != nil {
		halt(err.Error())
	}
	for _, d := range types.Domains {
		f, _ := clocks.Get(d)
		println("[main]", string(d), f.String())
	}

	ctx := context.Background()

	println("[main] bootstrapping bus …")
	b := bus.NewBus(4)
	uiConn := b.NewConnection("ui")

	mon := uiConn.Subscribe(bus.T("hal", "#"))
	go func() {
		for m := range mon.Channel() {
			printTopicWith("[monitor] <-", m.Topic)
		}
	}()

	svc := clock.NewService(nil, nil).WithLogger(func(s string) { println(s) })
	_ = svc.Start(ctx, b.NewConnection("clock"))

	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	// Retained config/heartbeat reaches the heartbeat whenever it subscribes.
	cfgSvc := config.NewConfigService().WithLogger(func(s string) { println(s) })
	cfgSvc.Start(context.WithValue(ctx, config.CtxDeviceKey, device), b.NewConnection("config"))

	select {}
}
