package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"clocktree-go/bus"
	"clocktree-go/drivers/rcc"
	"clocktree-go/drivers/rcc/rccsim"
	"clocktree-go/errcode"
	"clocktree-go/services/clock"
	"clocktree-go/services/config"
	"clocktree-go/types"
	"clocktree-go/x/conv"
	"clocktree-go/x/strx"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"gopkg.in/yaml.v3"
)

const (
	simPollLimit  = 1000
	simReadyDelay = 2
	bringUpWait   = 2 * time.Second
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Bring a configuration up against a simulated RCC and print the clock tree",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		device, _ := cmd.Flags().GetString("device")
		file, _ := cmd.Flags().GetString("file")
		trace, _ := cmd.Flags().GetBool("trace")
		out, _ := cmd.Flags().GetString("out")

		device = strx.Coalesce(device, os.Getenv(envDevice))
		file = strx.Coalesce(file, os.Getenv(envConfig))
		doc, err := loadDocument(device, file)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		if file != "" {
			device = ""
		}

		rep, err := runTree(cmd.Context(), doc, device, trace)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		writeReport(cmd.OutOrStdout(), rep, trace)

		if out != "" {
			if err := saveReport(out, rep); err != nil {
				log.Fatalf("Error: %v", err)
			}
		}
	},
}

// report is what a tree run produced. It is also the --out file format.
type report struct {
	Device string       `yaml:"device"`
	Source string       `yaml:"source"`
	Clocks types.Clocks `yaml:"clocks"`
	Writes []string     `yaml:"writes,omitempty"`
}

// loadDocument prefers an explicit file over an embedded device.
func loadDocument(device, file string) (*config.Document, error) {
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return config.Parse(raw)
	}
	if device == "" {
		return nil, errors.New("no configuration: pass --device or --file (or set " + envDevice + ")")
	}
	return config.Load(device)
}

// runTree brings doc up the way the firmware does: the config is published
// on the bus and the clock service configures the (simulated) RCC from it.
// With an embedded device the config service does the publishing; a file
// document is published directly.
func runTree(ctx context.Context, doc *config.Document, device string, trace bool) (report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := doc.Clock.ToRCC()
	if err != nil {
		return report{}, err
	}

	sim := rccsim.New(rccsim.ReadyAfter(simReadyDelay))
	ctrl := rcc.New(sim, rcc.Bounded(simPollLimit))
	if trace {
		ctrl.WithLogger(func(s string) { log.Print(s) })
	}

	var cell clock.Cell
	b := bus.NewBus(32)
	cfgConn := b.NewConnection("config")

	ctx, cancel := context.WithTimeout(ctx, bringUpWait)
	defer cancel()
	if device != "" {
		cfgSvc := config.NewConfigService()
		if trace {
			cfgSvc.WithLogger(func(s string) { log.Print(s) })
		}
		cfgSvc.Start(context.WithValue(ctx, config.CtxDeviceKey, device), cfgConn)
	} else {
		cfgConn.Publish(cfgConn.NewMessage(clock.ConfigTopic(), cfg, true))
	}
	svc := clock.NewService(ctrl, &cell)
	if trace {
		svc.WithLogger(func(s string) { log.Print(s) })
	}
	if err := svc.Start(ctx, b.NewConnection("clock")); err != nil {
		return report{}, err
	}

	source, err := waitReady(ctx, b.NewConnection("clockplan"))
	if err != nil {
		return report{}, err
	}
	c, _ := cell.Load()

	rep := report{Device: doc.Device, Source: source, Clocks: c}
	for _, w := range sim.Writes() {
		rep.Writes = append(rep.Writes, w.Reg.String()+" <- "+conv.Hex32(w.Value))
	}
	return rep, nil
}

// waitReady follows hal/clock/state until the service settles and returns the
// source it brought up.
func waitReady(ctx context.Context, conn *bus.Connection) (string, error) {
	sub := conn.Subscribe(clock.StateTopic())
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return "", errcode.Wrap(errcode.Timeout, "clockplan.tree", "clock service did not settle", ctx.Err())
		case m := <-sub.Channel():
			st, _ := m.Payload.(types.ClockState)
			switch st.Level {
			case types.ClockReady:
				return st.Source, nil
			case types.ClockFailed:
				return "", errcode.Wrap(errcode.Code(st.Error), "clockplan.tree", st.Source, nil)
			}
		}
	}
}

func writeReport(w io.Writer, rep report, trace bool) {
	fmt.Fprintf(w, "device   %s\n", rep.Device)
	fmt.Fprintf(w, "source   %s\n", rep.Source)
	for _, d := range types.Domains {
		f, _ := rep.Clocks.Get(d)
		fmt.Fprintf(w, "%-8s %s\n", d, f)
	}
	if trace {
		for _, s := range rep.Writes {
			fmt.Fprintln(w, s)
		}
	}
}

func saveReport(path string, rep report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	atexit.Register(func() {
		if err := f.Close(); err != nil {
			panic(err)
		}
	})
	enc := yaml.NewEncoder(f)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	treeCmd.Flags().String("device", "", "embedded device configuration (env "+envDevice+")")
	treeCmd.Flags().String("file", "", "YAML or JSON configuration file (env "+envConfig+")")
	treeCmd.Flags().Bool("trace", false, "print every register write")
	treeCmd.Flags().String("out", "", "write the report as YAML")
	rootCmd.AddCommand(treeCmd)
}
