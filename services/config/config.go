package config

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"clocktree-go/bus"
	"clocktree-go/drivers/rcc"
	"clocktree-go/errcode"
	"clocktree-go/types"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID

	srcHSI16 = "hsi16"
	srcHSE   = "hse"
	srcPLL   = "pll"
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Devices lists the embedded device names, sorted.
func Devices() []string {
	out := make([]string, 0, len(embeddedConfigs))
	for k := range embeddedConfigs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// -----------------------------------------------------------------------------
// Document
// -----------------------------------------------------------------------------

// Freq is a frequency field. It accepts a bare integer or "24MHz"-style text.
type Freq types.Hertz

func (f *Freq) UnmarshalYAML(n *yaml.Node) error {
	h, err := types.ParseHertz(n.Value)
	if err != nil {
		return errcode.Wrap(errcode.InvalidConfig, "config.Freq", "bad frequency "+n.Value, err)
	}
	*f = Freq(h)
	return nil
}

// Document is a device configuration. JSON documents parse too.
type Document struct {
	Device    string    `yaml:"device" json:"device"`
	Clock     Clock     `yaml:"clock" json:"clock"`
	Heartbeat Heartbeat `yaml:"heartbeat" json:"heartbeat"`
}

// Heartbeat configures the periodic status line. Zero keeps its default.
//
//	interval: duration, e.g. 2s or 500ms
type Heartbeat struct {
	Interval time.Duration `yaml:"interval" json:"interval"`
}

// Clock describes the clock tree request in text form.
//
//	source:        hsi16 | hse | pll
//	hse:           crystal frequency, needed by source hse or pll_input hse
//	pll_input:     hsi16 | hse (pll only, default hsi16)
//	target:        PLL output frequency (pll only)
//	ahb:           div1 .. div512
//	apb1, apb2:    div1 .. div16
//	low_power_run: bool
type Clock struct {
	Source      string `yaml:"source" json:"source"`
	HSE         Freq   `yaml:"hse" json:"hse"`
	PLLInput    string `yaml:"pll_input" json:"pll_input"`
	Target      Freq   `yaml:"target" json:"target"`
	AHB         string `yaml:"ahb" json:"ahb"`
	APB1        string `yaml:"apb1" json:"apb1"`
	APB2        string `yaml:"apb2" json:"apb2"`
	LowPowerRun bool   `yaml:"low_power_run" json:"low_power_run"`
}

// Parse decodes one YAML or JSON document. Unknown keys are rejected.
func Parse(raw []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errcode.Wrap(errcode.InvalidConfig, "config.Parse", "empty document", nil)
		}
		if errcode.Of(err) == errcode.InvalidConfig {
			return nil, err
		}
		return nil, errcode.Wrap(errcode.InvalidConfig, "config.Parse", err.Error(), err)
	}
	return &doc, nil
}

// Load resolves and parses the embedded config for device.
func Load(device string) (*Document, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return nil, errcode.Wrap(errcode.UnknownDevice, "config.Load", device, nil)
	}
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if doc.Device == "" {
		doc.Device = device
	}
	return doc, nil
}

// ToRCC converts the text form into an rcc.Config. Names are checked here;
// frequency plans are checked later by rcc.NewPlan.
func (c *Clock) ToRCC() (rcc.Config, error) {
	bad := func(msg string) (rcc.Config, error) {
		return rcc.Config{}, errcode.Wrap(errcode.InvalidConfig, "config.ToRCC", msg, nil)
	}
	cfg := rcc.DefaultConfig()
	cfg.LowPowerRun = c.LowPowerRun

	switch c.Source {
	case "", srcHSI16:
		cfg.Source = rcc.HSI16()
	case srcHSE:
		if c.HSE == 0 {
			return bad("source hse needs hse")
		}
		cfg.Source = rcc.HSE(types.Hertz(c.HSE))
	case srcPLL:
		if c.Target == 0 {
			return bad("source pll needs target")
		}
		var in rcc.PLLInput
		switch c.PLLInput {
		case "", srcHSI16:
			in = rcc.PLLFromHSI16()
		case srcHSE:
			if c.HSE == 0 {
				return bad("pll_input hse needs hse")
			}
			in = rcc.PLLFromHSE(types.Hertz(c.HSE))
		default:
			return bad("unknown pll_input " + c.PLLInput)
		}
		cfg.Source = rcc.PLL(in, types.Hertz(c.Target))
	default:
		return bad("unknown source " + c.Source)
	}

	var ok bool
	if c.AHB != "" {
		if cfg.AHB, ok = rcc.ParseAHBPrescaler(c.AHB); !ok {
			return bad("unknown ahb prescaler " + c.AHB)
		}
	}
	if c.APB1 != "" {
		if cfg.APB1, ok = rcc.ParseAPBPrescaler(c.APB1); !ok {
			return bad("unknown apb1 prescaler " + c.APB1)
		}
	}
	if c.APB2 != "" {
		if cfg.APB2, ok = rcc.ParseAPBPrescaler(c.APB2); !ok {
			return bad("unknown apb2 prescaler " + c.APB2)
		}
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	log  func(string)
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

func (s *ConfigService) WithLogger(fn func(string)) *ConfigService {
	s.log = fn
	return s
}

// publishConfig loads the device config and publishes the clock request as a
// retained config/clock message carrying an rcc.Config. A heartbeat section
// goes out as a retained config/heartbeat types.HeartbeatConfig.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errcode.Wrap(errcode.InvalidParams, "config.publish", "missing device ID in context", nil)
	}
	doc, err := Load(device)
	if err != nil {
		return err
	}
	cfg, err := doc.Clock.ToRCC()
	if err != nil {
		return err
	}
	if doc.Heartbeat.Interval < 0 {
		return errcode.Wrap(errcode.InvalidConfig, "config.publish", "negative heartbeat interval", nil)
	}
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "clock"), cfg, true))
	if doc.Heartbeat.Interval > 0 {
		hb := types.HeartbeatConfig{Interval: doc.Heartbeat.Interval}
		conn.Publish(conn.NewMessage(bus.T(configPrefix, "heartbeat"), hb, true))
	}
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil && s.log != nil {
			s.log("[config] " + err.Error())
		}
	}()
}
