package rcc_test

import (
	"clocktree-go/drivers/rcc"
	"clocktree-go/drivers/rcc/rccsim"
	"clocktree-go/errcode"
	"clocktree-go/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

const mhz = types.MHz

var _ = Describe("Controller", func() {
	Context("against a mocked port", func() {
		var (
			mockCtrl *gomock.Controller
			port     *MockPort
			ctrl     *rcc.Controller
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			port = NewMockPort(mockCtrl)
			ctrl = rcc.New(port, rcc.Bounded(4))
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should not touch a register when the PLL plan is invalid", func() {
			cfg := rcc.DefaultConfig()
			cfg.Source = rcc.PLL(rcc.PLLFromHSI16(), 1*mhz)

			_, err := ctrl.Init(cfg)

			Expect(err).To(MatchError(errcode.InvalidVCOOutput))
		})

		It("should not touch a register when low-power run is out of range", func() {
			cfg := rcc.Config{Source: rcc.HSE(4 * mhz), LowPowerRun: true}

			_, err := ctrl.Init(cfg)

			Expect(err).To(MatchError(errcode.LowPowerFrequencyExceeded))
		})

		It("should start HSE then switch in a single CFGR write", func() {
			hseOn := rcc.HSEON.Put(0, 1)
			hseReady := rcc.HSERDY.Put(hseOn, 1)
			cfgr := uint32(0x916) // SW=HSE, SWS=HSI16, HPRE=PPRE1=PPRE2=not divided
			cfgrDone := rcc.SWS.Put(cfgr, 0b10)

			gomock.InOrder(
				port.EXPECT().Read(rcc.CR).Return(uint32(0)),
				port.EXPECT().Read(rcc.CR).Return(uint32(0)),
				port.EXPECT().Write(rcc.CR, hseOn),
				port.EXPECT().Read(rcc.CR).Return(hseReady),
				port.EXPECT().Read(rcc.CFGR).Return(uint32(rccsim.ResetCFGR)),
				port.EXPECT().Write(rcc.CFGR, cfgr),
				port.EXPECT().Read(rcc.CFGR).Return(cfgrDone),
			)

			clocks, err := ctrl.Init(rcc.Config{Source: rcc.HSE(8 * mhz)})

			Expect(err).ToNot(HaveOccurred())
			Expect(clocks.Sys).To(Equal(8 * mhz))
			Expect(clocks.APB2Tim).To(Equal(8 * mhz))
		})

		It("should report a timeout when the oscillator never becomes ready", func() {
			port.EXPECT().Read(rcc.CR).Return(uint32(0)).AnyTimes()
			port.EXPECT().Write(rcc.CR, rcc.HSEON.Put(0, 1))

			_, err := ctrl.Init(rcc.Config{Source: rcc.HSE(8 * mhz)})

			Expect(err).To(MatchError(errcode.Timeout))
		})
	})

	Context("against the simulated port", func() {
		It("should leave a running HSI16 alone and only switch", func() {
			sim := rccsim.New()

			clocks, err := rcc.New(sim, nil).Init(rcc.DefaultConfig())

			Expect(err).ToNot(HaveOccurred())
			Expect(clocks.Sys).To(Equal(rcc.HSIFreq))
			writes := sim.Writes()
			Expect(writes).To(HaveLen(1))
			Expect(writes[0].Reg).To(Equal(rcc.CFGR))
		})

		It("should bring up the PLL from HSI16 at 48 MHz", func() {
			sim := rccsim.New(rccsim.ReadyAfter(3))
			cfg := rcc.DefaultConfig()
			cfg.Source = rcc.PLL(rcc.PLLFromHSI16(), 48*mhz)

			clocks, err := rcc.New(sim, rcc.Bounded(10)).Init(cfg)

			Expect(err).ToNot(HaveOccurred())
			Expect(clocks.Sys).To(Equal(48 * mhz))
			Expect(clocks.AHB1).To(Equal(48 * mhz))

			pllcfgr := sim.Peek(rcc.PLLCFGR)
			Expect(rcc.PLLSRC.Get(pllcfgr)).To(Equal(uint32(0b10)))
			Expect(rcc.PLLM.Get(pllcfgr)).To(Equal(uint32(3)))
			Expect(rcc.PLLN.Get(pllcfgr)).To(Equal(uint32(24)))
			Expect(rcc.PLLR.Get(pllcfgr)).To(Equal(uint32(0)))
			Expect(rcc.PLLQ.Get(pllcfgr)).To(Equal(uint32(0)))
			Expect(rcc.PLLREN.Get(pllcfgr)).To(Equal(uint32(1)))
			Expect(rcc.PLLQEN.Get(pllcfgr)).To(Equal(uint32(1)))

			Expect(rcc.State(sim, rcc.OscPLL)).To(Equal(rcc.OscReady))
			Expect(rcc.SWS.Get(sim.Peek(rcc.CFGR))).To(Equal(uint32(0b11)))
			Expect(rcc.CLK48SEL.Get(sim.Peek(rcc.CCIPR))).To(Equal(uint32(0b10)))
		})

		It("should start HSE before locking a PLL fed from it", func() {
			sim := rccsim.New()
			cfg := rcc.Config{
				Source: rcc.PLL(rcc.PLLFromHSE(24*mhz), 144*mhz),
				AHB:    rcc.AHBNotDivided,
				APB1:   rcc.APBDiv2,
				APB2:   rcc.APBNotDivided,
			}

			clocks, err := rcc.New(sim, rcc.Bounded(10)).Init(cfg)

			Expect(err).ToNot(HaveOccurred())
			Expect(clocks.Sys).To(Equal(144 * mhz))
			Expect(clocks.APB1).To(Equal(72 * mhz))
			Expect(clocks.APB1Tim).To(Equal(144 * mhz))
			Expect(rcc.State(sim, rcc.OscHSE)).To(Equal(rcc.OscReady))
			Expect(rcc.PLLSRC.Get(sim.Peek(rcc.PLLCFGR))).To(Equal(uint32(0b11)))
			Expect(rcc.PLLQ.Get(sim.Peek(rcc.PLLCFGR))).To(Equal(uint32(2)))

			var hseAt, pllcfgrAt int
			for i, w := range sim.Writes() {
				if w.Reg == rcc.CR && rcc.HSEON.Get(w.Value) == 1 && hseAt == 0 {
					hseAt = i + 1
				}
				if w.Reg == rcc.PLLCFGR && pllcfgrAt == 0 {
					pllcfgrAt = i + 1
				}
			}
			Expect(hseAt).To(BeNumerically(">", 0))
			Expect(hseAt).To(BeNumerically("<", pllcfgrAt))
		})

		It("should derive bus clocks from HSI16 with divided AHB and APB1", func() {
			sim := rccsim.New()
			cfg := rcc.Config{Source: rcc.HSI16(), AHB: rcc.AHBDiv2, APB1: rcc.APBDiv4}

			clocks, err := rcc.New(sim, rcc.Bounded(4)).Init(cfg)

			Expect(err).ToNot(HaveOccurred())
			Expect(clocks.AHB1).To(Equal(8 * mhz))
			Expect(clocks.APB1).To(Equal(2 * mhz))
			Expect(clocks.APB1Tim).To(Equal(4 * mhz))

			cfgr := sim.Peek(rcc.CFGR)
			Expect(rcc.HPRE.Get(cfgr)).To(Equal(uint32(0x08)))
			Expect(rcc.PPRE1.Get(cfgr)).To(Equal(uint32(0x05)))
			Expect(rcc.PPRE2.Get(cfgr)).To(Equal(uint32(0x01)))
		})

		It("should set the low-power-run bit at 1 MHz", func() {
			sim := rccsim.New()
			cfg := rcc.Config{Source: rcc.HSE(1 * mhz), LowPowerRun: true}

			clocks, err := rcc.New(sim, rcc.Bounded(4)).Init(cfg)

			Expect(err).ToNot(HaveOccurred())
			Expect(clocks.Sys).To(Equal(1 * mhz))
			Expect(rcc.LPR.Get(sim.Peek(rcc.PWRCR1))).To(Equal(uint32(1)))
			Expect(rcc.PWREN.Get(sim.Peek(rcc.APB1ENR1))).To(Equal(uint32(1)))
		})

		It("should refuse low-power run at 4 MHz without writing anything", func() {
			sim := rccsim.New()
			cfg := rcc.Config{Source: rcc.HSE(4 * mhz), LowPowerRun: true}

			_, err := rcc.New(sim, rcc.Bounded(4)).Init(cfg)

			Expect(err).To(MatchError(errcode.LowPowerFrequencyExceeded))
			Expect(sim.Writes()).To(BeEmpty())
			Expect(rcc.LPR.Get(sim.Peek(rcc.PWRCR1))).To(Equal(uint32(0)))
		})

		It("should time out before switching when HSE never starts", func() {
			sim := rccsim.New(rccsim.Stuck(rcc.OscHSE))

			_, err := rcc.New(sim, rcc.Bounded(50)).Init(rcc.Config{Source: rcc.HSE(8 * mhz)})

			Expect(err).To(MatchError(errcode.Timeout))
			Expect(rcc.State(sim, rcc.OscHSE)).To(Equal(rcc.OscEnabling))
			Expect(rcc.SW.Get(sim.Peek(rcc.CFGR))).To(Equal(uint32(0b01)))
		})

		It("should time out when the PLL never locks", func() {
			sim := rccsim.New(rccsim.Stuck(rcc.OscPLL))
			cfg := rcc.Config{Source: rcc.PLL(rcc.PLLFromHSI16(), 48*mhz)}

			_, err := rcc.New(sim, rcc.Bounded(50)).Init(cfg)

			Expect(err).To(MatchError(errcode.Timeout))
			Expect(rcc.SW.Get(sim.Peek(rcc.CFGR))).To(Equal(uint32(0b01)))
		})

		It("should raise flash latency before switching to 144 MHz", func() {
			sim := rccsim.New()
			cfg := rcc.Config{Source: rcc.PLL(rcc.PLLFromHSE(24*mhz), 144*mhz), APB1: rcc.APBDiv2}

			_, err := rcc.New(sim, rcc.Bounded(10)).Init(cfg)

			Expect(err).ToNot(HaveOccurred())
			Expect(rcc.LATENCY.Get(sim.Peek(rcc.FLASHACR))).To(Equal(uint32(4)))

			var flashAt, switchAt int
			for i, w := range sim.Writes() {
				if w.Reg == rcc.FLASHACR && flashAt == 0 {
					flashAt = i + 1
				}
				if w.Reg == rcc.CFGR && rcc.SW.Get(w.Value) == 0b11 && switchAt == 0 {
					switchAt = i + 1
				}
			}
			Expect(flashAt).To(BeNumerically(">", 0))
			Expect(flashAt).To(BeNumerically("<", switchAt))
		})

		It("should leave flash latency alone at 16 MHz", func() {
			sim := rccsim.New()

			_, err := rcc.New(sim, nil).Init(rcc.DefaultConfig())

			Expect(err).ToNot(HaveOccurred())
			Expect(sim.Peek(rcc.FLASHACR)).To(Equal(uint32(rccsim.ResetFLASHACR)))
		})

		Context("committing a hand-built plan", func() {
			It("should re-check the low-power ceiling before any write", func() {
				sim := rccsim.New()
				p := rcc.Plan{
					Config: rcc.Config{Source: rcc.HSE(8 * mhz), LowPowerRun: true},
					SysClk: 8 * mhz,
				}

				_, err := rcc.New(sim, rcc.Bounded(4)).Commit(p)

				Expect(err).To(MatchError(errcode.LowPowerFrequencyExceeded))
				Expect(sim.Writes()).To(BeEmpty())
				Expect(rcc.LPR.Get(sim.Peek(rcc.PWRCR1))).To(Equal(uint32(0)))
			})

			It("should reject a PLL plan with no solved dividers", func() {
				sim := rccsim.New()
				p := rcc.Plan{
					Config: rcc.Config{Source: rcc.PLL(rcc.PLLFromHSI16(), 48*mhz)},
					SysClk: 48 * mhz,
				}

				_, err := rcc.New(sim, rcc.Bounded(4)).Commit(p)

				Expect(err).To(MatchError(errcode.InvalidParams))
				Expect(sim.Writes()).To(BeEmpty())
			})

			It("should reject a plan whose SYSCLK was edited", func() {
				sim := rccsim.New()
				p, err := rcc.NewPlan(rcc.Config{Source: rcc.HSE(8 * mhz)})
				Expect(err).ToNot(HaveOccurred())
				p.SysClk = 80 * mhz

				_, err = rcc.New(sim, rcc.Bounded(4)).Commit(p)

				Expect(err).To(MatchError(errcode.InvalidParams))
				Expect(sim.Writes()).To(BeEmpty())
			})

			It("should accept an unmodified plan", func() {
				sim := rccsim.New()
				p, err := rcc.NewPlan(rcc.Config{Source: rcc.HSE(8 * mhz)})
				Expect(err).ToNot(HaveOccurred())

				clocks, err := rcc.New(sim, rcc.Bounded(4)).Commit(p)

				Expect(err).ToNot(HaveOccurred())
				Expect(clocks).To(Equal(p.Clocks()))
			})
		})

		It("should time out when the clock switch is never confirmed", func() {
			sim := rccsim.New(rccsim.SwitchStuck())

			_, err := rcc.New(sim, rcc.Bounded(50)).Init(rcc.Config{Source: rcc.HSE(8 * mhz)})

			Expect(err).To(MatchError(errcode.Timeout))
			Expect(rcc.SWS.Get(sim.Peek(rcc.CFGR))).To(Equal(uint32(0b01)))
		})
	})
})

var _ = Describe("Plan", func() {
	It("should carry the solved PLL", func() {
		p, err := rcc.NewPlan(rcc.Config{Source: rcc.PLL(rcc.PLLFromHSI16(), 96*mhz)})

		Expect(err).ToNot(HaveOccurred())
		Expect(p.SysClk).To(Equal(96 * mhz))
		Expect(p.PLL.Q).To(Equal(uint32(4)))
		Expect(p.Clocks().APB2).To(Equal(96 * mhz))
	})

	It("should reject a zero HSE frequency", func() {
		_, err := rcc.NewPlan(rcc.Config{Source: rcc.HSE(0)})

		Expect(err).To(MatchError(errcode.InvalidParams))
	})
})
