package rcc

// Register names a 32-bit register the clock tree touches.
type Register uint8

const (
	CR       Register = iota // RCC_CR: oscillator enable / ready
	CFGR                     // RCC_CFGR: SW, SWS, HPRE, PPRE1, PPRE2
	PLLCFGR                  // RCC_PLLCFGR
	CCIPR                    // RCC_CCIPR: peripheral kernel clock muxes
	APB1ENR1                 // RCC_APB1ENR1: PWR interface clock
	PWRCR1                   // PWR_CR1: low-power run
	FLASHACR                 // FLASH_ACR: wait states

	NumRegisters
)

var registerNames = [NumRegisters]string{
	CR:       "RCC_CR",
	CFGR:     "RCC_CFGR",
	PLLCFGR:  "RCC_PLLCFGR",
	CCIPR:    "RCC_CCIPR",
	APB1ENR1: "RCC_APB1ENR1",
	PWRCR1:   "PWR_CR1",
	FLASHACR: "FLASH_ACR",
}

func (r Register) String() string {
	if r < NumRegisters {
		return registerNames[r]
	}
	return "REG?"
}

// Field is a named bit-field inside a register.
type Field struct {
	Reg   Register
	Pos   uint8
	Width uint8
}

// Mask is the in-register mask of the field.
func (f Field) Mask() uint32 { return (uint32(1)<<f.Width - 1) << f.Pos }

// Get extracts the field from a raw register value.
func (f Field) Get(v uint32) uint32 { return (v & f.Mask()) >> f.Pos }

// Put returns v with the field replaced by x (x is truncated to the field width).
func (f Field) Put(v, x uint32) uint32 { return (v &^ f.Mask()) | ((x << f.Pos) & f.Mask()) }

// Val pairs the field with a value for Update.
func (f Field) Val(x uint32) FieldValue { return FieldValue{Field: f, Value: x} }

// FieldValue is a field assignment.
type FieldValue struct {
	Field Field
	Value uint32
}

// --- RCC_CR ---
var (
	HSION  = Field{CR, 8, 1}
	HSIRDY = Field{CR, 10, 1}
	HSEON  = Field{CR, 16, 1}
	HSERDY = Field{CR, 17, 1}
	PLLON  = Field{CR, 24, 1}
	PLLRDY = Field{CR, 25, 1}
)

// --- RCC_CFGR ---
var (
	SW    = Field{CFGR, 0, 2}
	SWS   = Field{CFGR, 2, 2}
	HPRE  = Field{CFGR, 4, 4}
	PPRE1 = Field{CFGR, 8, 3}
	PPRE2 = Field{CFGR, 11, 3}
)

// --- RCC_PLLCFGR ---
var (
	PLLSRC = Field{PLLCFGR, 0, 2}
	PLLM   = Field{PLLCFGR, 4, 4} // divider - 1
	PLLN   = Field{PLLCFGR, 8, 7}
	PLLQEN = Field{PLLCFGR, 20, 1}
	PLLQ   = Field{PLLCFGR, 21, 2}
	PLLREN = Field{PLLCFGR, 24, 1}
	PLLR   = Field{PLLCFGR, 25, 2}
)

// --- RCC_CCIPR / RCC_APB1ENR1 / PWR_CR1 ---
var (
	CLK48SEL = Field{CCIPR, 26, 2}
	PWREN    = Field{APB1ENR1, 28, 1}
	LPR      = Field{PWRCR1, 14, 1}
)

// --- FLASH_ACR ---
var LATENCY = Field{FLASHACR, 0, 4}

// Hardware selector codes.
const (
	swHSI16 = 0b01
	swHSE   = 0b10
	swPLL   = 0b11

	pllSrcHSI16 = 0b10
	pllSrcHSE   = 0b11

	clk48PLLQ = 0b10
)
