package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw YAML (or JSON) bytes for that device
// -----------------------------------------------------------------------------

// NUCLEO-G474RE: 24 MHz crystal on the ST-LINK MCO, PLL to 144 MHz.
const cfgNucleoG474RE = `
device: nucleo-g474re
clock:
  source: pll
  pll_input: hse
  hse: 24MHz
  target: 144MHz
  ahb: div1
  apb1: div2
  apb2: div1
heartbeat:
  interval: 2s
`

// LoRa-E5 style board: HSI16 into the PLL for 48 MHz and an exact USB tap.
const cfgLoraE5Dev = `{
  "device": "lora-e5-dev",
  "clock": {
    "source": "pll",
    "pll_input": "hsi16",
    "target": "48MHz"
  }
}`

// Battery profile: 1 MHz external clock in low-power run.
const cfgLowPower = `
device: lowpower
clock:
  source: hse
  hse: 1MHz
  low_power_run: true
`

var embeddedConfigs = map[string][]byte{
	"nucleo-g474re": []byte(cfgNucleoG474RE),
	"lora-e5-dev":   []byte(cfgLoraE5Dev),
	"lowpower":      []byte(cfgLowPower),
}
