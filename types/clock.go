package types

import (
	"errors"
	"strings"

	"clocktree-go/x/conv"
	"clocktree-go/x/strconvx"
	"clocktree-go/x/strx"
)

// ---- Frequencies ----

// Hertz is an exact integer frequency. All clock arithmetic stays in integers.
type Hertz uint32

const (
	Hz  Hertz = 1
	KHz Hertz = 1_000
	MHz Hertz = 1_000_000
)

// Hz renders the value as a plain count (handy for payloads and logs).
func (f Hertz) Hz() uint32 { return uint32(f) }

// String prints whole MHz/kHz when exact, otherwise raw Hz.
func (f Hertz) String() string {
	switch {
	case f == 0:
		return "0Hz"
	case f%MHz == 0:
		return conv.U32(uint32(f / MHz)) + "MHz"
	case f%KHz == 0:
		return conv.U32(uint32(f / KHz)) + "kHz"
	default:
		return conv.U32(uint32(f)) + "Hz"
	}
}

var errBadHertz = errors.New("bad frequency")

// ParseHertz reads "16000000", "16000000Hz", "32kHz" or "48MHz".
func ParseHertz(s string) (Hertz, error) {
	s = strings.TrimSpace(s)
	unit := Hz
	s, suffix, _ := strx.CutSuffixAny(s, "MHz", "kHz", "KHz", "Hz")
	switch suffix {
	case "MHz":
		unit = MHz
	case "kHz", "KHz":
		unit = KHz
	}
	n, err := strconvx.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, errBadHertz
	}
	if n > uint64(^uint32(0)/uint32(unit)) {
		return 0, errBadHertz
	}
	return Hertz(n) * unit, nil
}

// ---- Clock domains (retained under hal/clock/<domain>) ----

type Domain string

const (
	DomainSys     Domain = "sys"
	DomainAHB1    Domain = "ahb1"
	DomainAHB2    Domain = "ahb2"
	DomainAPB1    Domain = "apb1"
	DomainAPB1Tim Domain = "apb1_tim"
	DomainAPB2    Domain = "apb2"
	DomainAPB2Tim Domain = "apb2_tim"
)

// Domains lists every published domain in a stable order.
var Domains = []Domain{
	DomainSys, DomainAHB1, DomainAHB2,
	DomainAPB1, DomainAPB1Tim,
	DomainAPB2, DomainAPB2Tim,
}

// Clocks is the frequency plan in force once the clock tree is configured.
// Values are never mutated after publication; pass it by value.
type Clocks struct {
	Sys     Hertz `json:"sys_hz" yaml:"sys_hz"`
	AHB1    Hertz `json:"ahb1_hz" yaml:"ahb1_hz"`
	AHB2    Hertz `json:"ahb2_hz" yaml:"ahb2_hz"`
	APB1    Hertz `json:"apb1_hz" yaml:"apb1_hz"`
	APB1Tim Hertz `json:"apb1_tim_hz" yaml:"apb1_tim_hz"`
	APB2    Hertz `json:"apb2_hz" yaml:"apb2_hz"`
	APB2Tim Hertz `json:"apb2_tim_hz" yaml:"apb2_tim_hz"`
}

// Get returns the frequency of a named domain.
func (c Clocks) Get(d Domain) (Hertz, bool) {
	switch d {
	case DomainSys:
		return c.Sys, true
	case DomainAHB1:
		return c.AHB1, true
	case DomainAHB2:
		return c.AHB2, true
	case DomainAPB1:
		return c.APB1, true
	case DomainAPB1Tim:
		return c.APB1Tim, true
	case DomainAPB2:
		return c.APB2, true
	case DomainAPB2Tim:
		return c.APB2Tim, true
	}
	return 0, false
}

// ClockValue is the per-domain retained payload.
type ClockValue struct {
	Domain Domain `json:"domain"`
	Hz     uint32 `json:"hz"`
}
