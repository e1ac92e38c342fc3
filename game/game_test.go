package game

import (
	"errors"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pthm-cable/perlinflow/config"
	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
)

func expectWithinWrapBounds(particles []systems.Particle, l systems.LayoutParameters) {
	for _, p := range particles {
		Expect(p.X).To(BeNumerically(">=", -l.ParticleSize))
		Expect(p.X).To(BeNumerically("<=", l.Width+l.ParticleSize))
		Expect(p.Y).To(BeNumerically(">=", -l.ParticleSize))
		Expect(p.Y).To(BeNumerically("<=", l.Height+l.ParticleSize))
	}
}

var _ = Describe("Game", func() {
	var (
		g       *Game
		surface *countingSurface
	)

	BeforeEach(func() {
		var err error
		g, err = New(testOptions(), systems.Viewport{Width: 1024, Height: 768, DPR: 1})
		Expect(err).NotTo(HaveOccurred())
		surface = &countingSurface{}
		DeferCleanup(g.Close)
	})

	It("lays out the initial viewport", func() {
		s := g.Snapshot()
		Expect(s.Tick).To(Equal(0))
		Expect(s.Layout.Profile).To(Equal(systems.ProfileExpanded))
		Expect(s.Layout.VerticalGridCount).To(Equal(50))
		Expect(s.Layout.HorizontalGridCount).To(Equal(38))
		Expect(s.Particles).To(HaveLen(150))
		for _, p := range s.Particles {
			Expect(p.X).To(BeNumerically(">=", 0))
			Expect(p.X).To(BeNumerically("<", 1024))
			Expect(p.Y).To(BeNumerically(">=", 0))
			Expect(p.Y).To(BeNumerically("<", 768))
		}
	})

	It("rejects an empty viewport", func() {
		_, err := New(testOptions(), systems.Viewport{Width: 0, Height: 600})
		Expect(errors.Is(err, ErrEmptyViewport)).To(BeTrue())

		before := g.Status().Layout
		Expect(g.Resize(systems.Viewport{Width: 800, Height: -1})).To(MatchError(ErrEmptyViewport))
		Expect(g.Status().Layout).To(Equal(before))
	})

	It("draws one stick per lattice point and one circle per particle", func() {
		Expect(g.Tick(surface)).To(Succeed())

		frames, lines, circles := surface.counts()
		Expect(frames).To(Equal(1))
		Expect(lines).To(Equal(38 * 50))
		Expect(circles).To(Equal(150))
		Expect(surface.depth).To(BeZero())
		Expect(g.Status().Tick).To(Equal(1))
	})

	It("keeps particles inside the wrap bounds", func() {
		for i := 0; i < 300; i++ {
			Expect(g.Tick(surface)).To(Succeed())
		}
		s := g.Snapshot()
		Expect(s.Particles).To(HaveLen(150))
		expectWithinWrapBounds(s.Particles, s.Layout)
	})

	It("produces flow samples that blend their two nearest particles", func() {
		Expect(g.Tick(surface)).To(Succeed())
		s := g.Snapshot()
		Expect(s.Samples).To(HaveLen(38 * 50))
		for _, fs := range s.Samples {
			Expect(fs.Angle).To(BeNumerically(">=", 0))
			Expect(fs.Angle).To(BeNumerically("<=", 2*math.Pi+1e-9))
			Expect(fs.Ratio).To(BeNumerically(">=", 0))
		}
	})

	It("rebuilds everything on a mid-run resize", func() {
		for i := 0; i < 10; i++ {
			Expect(g.Tick(surface)).To(Succeed())
		}
		Expect(g.Status().Tick).To(Equal(10))

		Expect(g.Resize(systems.Viewport{Width: 400, Height: 300, DPR: 1})).To(Succeed())

		s := g.Snapshot()
		Expect(s.Tick).To(Equal(0))
		Expect(s.Resizes).To(Equal(2))
		Expect(s.Layout.Profile).To(Equal(systems.ProfileCompact))
		Expect(s.Layout.ParticleSize).To(Equal(6.5))
		Expect(s.Particles).To(HaveLen(150))
		for _, p := range s.Particles {
			Expect(p.X).To(BeNumerically("<", 400))
			Expect(p.Y).To(BeNumerically("<", 300))
		}

		Expect(g.Tick(surface)).To(Succeed())
		_, lines, circles := surface.counts()
		Expect(lines).To(Equal(12 * 15))
		Expect(circles).To(Equal(150))
	})

	It("redraws without advancing while paused", func() {
		Expect(g.Tick(surface)).To(Succeed())
		before := g.Snapshot()

		g.SetPaused(true)
		for i := 0; i < 5; i++ {
			Expect(g.Tick(surface)).To(Succeed())
		}

		after := g.Snapshot()
		Expect(after.Tick).To(Equal(before.Tick))
		Expect(after.Particles).To(Equal(before.Particles))
		frames, _, _ := surface.counts()
		Expect(frames).To(Equal(6))

		Expect(g.TogglePaused()).To(BeFalse())
		Expect(g.Tick(surface)).To(Succeed())
		Expect(g.Status().Tick).To(Equal(before.Tick + 1))
	})

	It("switches stick modes", func() {
		Expect(g.SetStickMode(renderer.StickFixed)).To(Succeed())
		Expect(g.Status().StickMode).To(Equal(renderer.StickFixed))
		Expect(g.ToggleStickMode()).To(Equal(renderer.StickInterpolated))
		Expect(g.SetStickMode("bogus")).To(HaveOccurred())
		Expect(g.Status().StickMode).To(Equal(renderer.StickInterpolated))
	})

	It("wraps surface errors with the tick", func() {
		boom := errors.New("boom")
		surface.endErr = boom
		err := g.Tick(surface)
		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(ContainSubstring("tick 1"))
	})

	It("never interleaves resizes with ticks", func() {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Expect(g.Tick(surface)).To(Succeed())
			}
		}()
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			for i := 0; i < 20; i++ {
				w := 300.0 + float64(i*40)
				Expect(g.Resize(systems.Viewport{Width: w, Height: 500, DPR: 1})).To(Succeed())
			}
		}()
		wg.Wait()

		s := g.Snapshot()
		Expect(s.Particles).To(HaveLen(150))
		Expect(s.Layout.Width).To(Equal(1060.0))
		expectWithinWrapBounds(s.Particles, s.Layout)
	})
})

var _ = Describe("OptionsFromConfig", func() {
	It("maps the defaults", func() {
		opts, err := OptionsFromConfig(config.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Policy.Breakpoint).To(Equal(768.0))
		Expect(opts.Policy.Compact.GridSize).To(Equal(15.0))
		Expect(opts.Policy.Expanded.ParticleSize).To(Equal(3.5))
		Expect(opts.Policy.ParticleCount).To(Equal(150))
		Expect(opts.Policy.RippleUnits).To(Equal(8.0))
		Expect(opts.Motion).To(Equal(systems.DefaultMotion))
		Expect(opts.Stick.Mode).To(Equal(renderer.StickInterpolated))
		Expect(opts.Locator).To(BeAssignableToTypeOf(&systems.BruteLocator{}))
		Expect(opts.Noise).NotTo(BeNil())
	})

	It("selects the kd-tree locator", func() {
		cfg := config.Default()
		cfg.Flow.Locator = config.LocatorKDTree
		opts, err := OptionsFromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.Locator).To(BeAssignableToTypeOf(&systems.KDTreeLocator{}))
	})

	It("fails on an unknown noise kind", func() {
		cfg := config.Default()
		cfg.Noise.Kind = "worley"
		_, err := OptionsFromConfig(cfg)
		Expect(err).To(HaveOccurred())
	})
})
