//go:build stm32g4

package rcc

import (
	"runtime/volatile"
	"unsafe"
)

const (
	rccBase   = 0x4002_1000
	pwrBase   = 0x4000_7000
	flashBase = 0x4002_2000
)

var mmioAddr = [NumRegisters]uintptr{
	CR:       rccBase + 0x00,
	CFGR:     rccBase + 0x08,
	PLLCFGR:  rccBase + 0x0C,
	CCIPR:    rccBase + 0x88,
	APB1ENR1: rccBase + 0x58,
	PWRCR1:   pwrBase + 0x00,
	FLASHACR: flashBase + 0x00,
}

// MMIO is the memory-mapped Port of the running chip.
type MMIO struct{}

func (MMIO) reg(r Register) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(mmioAddr[r]))
}

func (m MMIO) Read(r Register) uint32     { return m.reg(r).Get() }
func (m MMIO) Write(r Register, v uint32) { m.reg(r).Set(v) }
