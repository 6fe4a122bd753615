package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clocktree-go/drivers/rcc"
	"clocktree-go/errcode"
	"clocktree-go/services/config"
	"clocktree-go/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveOutput(t *testing.T) {
	in, err := parsePLLInput("hsi16")
	require.NoError(t, err)
	plan, err := rcc.SolvePLL(in.Frequency(), 48*types.MHz)
	require.NoError(t, err)

	var buf bytes.Buffer
	writePLLPlan(&buf, in, plan)

	out := buf.String()
	assert.Contains(t, out, "M=4 N=24 R=2 Q=2")
	assert.Contains(t, out, "vco_out  96MHz")
	assert.Contains(t, out, "PLLM=3 PLLN=24 PLLR=0 PLLQ=0")
}

func TestParsePLLInput(t *testing.T) {
	in, err := parsePLLInput("24MHz")
	require.NoError(t, err)
	assert.True(t, in.IsHSE())
	assert.Equal(t, 24*types.MHz, in.Frequency())

	_, err = parsePLLInput("msi")
	assert.Error(t, err)
}

func TestRunTree_EmbeddedDevice(t *testing.T) {
	doc, err := loadDocument("nucleo-g474re", "")
	require.NoError(t, err)

	rep, err := runTree(context.Background(), doc, "nucleo-g474re", false)

	require.NoError(t, err)
	assert.Equal(t, "nucleo-g474re", rep.Device)
	assert.Equal(t, 144*types.MHz, rep.Clocks.Sys)
	assert.Equal(t, 72*types.MHz, rep.Clocks.APB1)
	assert.Equal(t, 144*types.MHz, rep.Clocks.APB1Tim)
	require.NotEmpty(t, rep.Writes)
	assert.True(t, strings.HasPrefix(rep.Writes[0], "RCC_CR <- "))
	assert.Contains(t, rep.Writes, "FLASH_ACR <- 0x00000604")
}

func TestRunTree_EmbeddedDeviceUsesConfigService(t *testing.T) {
	old := config.EmbeddedConfigLookup
	config.EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "bench" {
			return nil, false
		}
		return []byte("clock:\n  source: hse\n  hse: 8MHz\n"), true
	}
	t.Cleanup(func() { config.EmbeddedConfigLookup = old })

	// The document says 16 MHz; the config service resolves "bench" itself.
	doc := &config.Document{Device: "bench"}
	rep, err := runTree(context.Background(), doc, "bench", false)

	require.NoError(t, err)
	assert.Equal(t, 8*types.MHz, rep.Clocks.Sys)
	assert.Equal(t, rcc.HSE(8*types.MHz).String(), rep.Source)
}

func TestRunTree_UnknownEmbeddedDeviceTimesOut(t *testing.T) {
	doc := &config.Document{Device: "pico"}
	_, err := runTree(context.Background(), doc, "pico", false)

	assert.ErrorIs(t, err, errcode.Timeout)
}

func TestRunTree_FileWithLowPower(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device: bench\nclock:\n  source: hse\n  hse: 2MHz\n  low_power_run: true\n"), 0o644))

	doc, err := loadDocument("ignored", path)
	require.NoError(t, err)
	rep, err := runTree(context.Background(), doc, "", true)

	require.NoError(t, err)
	assert.Equal(t, 2*types.MHz, rep.Clocks.Sys)
	assert.Contains(t, rep.Writes, "PWR_CR1 <- 0x00004200")

	var buf bytes.Buffer
	writeReport(&buf, rep, true)
	assert.Contains(t, buf.String(), "apb2_tim 2MHz")
	assert.Contains(t, buf.String(), "PWR_CR1 <- ")
}

func TestRunTree_PlanFailureIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clock:\n  source: hse\n  hse: 8MHz\n  low_power_run: true\n"), 0o644))

	doc, err := loadDocument("", path)
	require.NoError(t, err)
	_, err = runTree(context.Background(), doc, "", false)

	assert.ErrorIs(t, err, errcode.LowPowerFrequencyExceeded)
}

func TestLoadDocument_NothingSelected(t *testing.T) {
	_, err := loadDocument("", "")
	assert.Error(t, err)

	_, err = loadDocument("pico", "")
	assert.ErrorIs(t, err, errcode.UnknownDevice)
}

func TestListDevices(t *testing.T) {
	var buf bytes.Buffer
	listDevices(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "lora-e5-dev")
	assert.Contains(t, lines[0], "sysclk 48MHz")
	assert.Contains(t, lines[1], "sysclk 1MHz")
	assert.Contains(t, lines[2], "sysclk 144MHz")
}
