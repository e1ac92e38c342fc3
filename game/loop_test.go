package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pthm-cable/perlinflow/systems"
)

var _ = Describe("Loop", func() {
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

	It("refuses to run without a display", func() {
		Expect(NewLoop(g, 0).Run(context.Background(), nil)).To(MatchError(ErrNoDisplay))
	})

	It("ticks once per refresh until the display closes", func() {
		d := &scriptedDisplay{surface: surface, limit: 5}
		Expect(NewLoop(g, 0).Run(context.Background(), d)).To(Succeed())

		Expect(d.refreshes).To(Equal(5))
		Expect(g.Status().Tick).To(Equal(5))
		frames, _, _ := surface.counts()
		Expect(frames).To(Equal(5))
	})

	It("waits the interval before every tick", func() {
		d := &scriptedDisplay{surface: surface, limit: 3}
		start := time.Now()
		Expect(NewLoop(g, 20*time.Millisecond).Run(context.Background(), d)).To(Succeed())
		Expect(time.Since(start)).To(BeNumerically(">=", 60*time.Millisecond))
	})

	It("keeps running after draw failures", func() {
		surface.endErr = errors.New("lost context")
		d := &scriptedDisplay{surface: surface, limit: 4}
		Expect(NewLoop(g, 0).Run(context.Background(), d)).To(Succeed())
		Expect(g.Status().Tick).To(Equal(4))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		d := &scriptedDisplay{surface: surface}
		done := make(chan error, 1)
		go func() { done <- NewLoop(g, 5*time.Millisecond).Run(ctx, d) }()

		Eventually(func() int { return g.Status().Tick }).Should(BeNumerically(">=", 3))
		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("applies interval changes while running", func() {
		l := NewLoop(g, time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- l.Run(ctx, &scriptedDisplay{surface: surface}) }()

		Consistently(func() int { return g.Status().Tick }, 50*time.Millisecond).Should(Equal(0))
		cancel()
		Eventually(done).Should(Receive(BeNil()))

		l.SetInterval(-time.Second)
		Expect(l.Interval()).To(BeZero())
	})

	It("rebuilds the field once after a burst of resizes", func() {
		resize := ResizeDebouncer(g, 30*time.Millisecond)
		DeferCleanup(resize.Stop)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		d := &scriptedDisplay{surface: surface, onRefresh: func(n int) {
			if n == 3 {
				resize.Trigger(systems.Viewport{Width: 900, Height: 700, DPR: 1})
				resize.Trigger(systems.Viewport{Width: 600, Height: 450, DPR: 1})
				resize.Trigger(systems.Viewport{Width: 400, Height: 300, DPR: 1})
			}
		}}
		done := make(chan error, 1)
		go func() { done <- NewLoop(g, 2*time.Millisecond).Run(ctx, d) }()

		Eventually(func() systems.Profile { return g.Status().Layout.Profile }).Should(Equal(systems.ProfileCompact))
		s := g.Snapshot()
		Expect(s.Resizes).To(Equal(2))
		Expect(s.Layout.Width).To(Equal(400.0))
		Expect(s.Particles).To(HaveLen(150))

		Eventually(func() int { return g.Status().Tick }).Should(BeNumerically(">", 0))
		cancel()
		Eventually(done).Should(Receive(BeNil()))
		expectWithinWrapBounds(g.Snapshot().Particles, g.Status().Layout)
	})
})

var _ = Describe("FrameDisplay", func() {
	It("rejects limits below one frame", func() {
		for _, limit := range []int{0, -1} {
			d, err := NewFrameDisplay(systems.Viewport{Width: 64, Height: 48, DPR: 1}, limit)
			Expect(errors.Is(err, ErrFrameLimit)).To(BeTrue(), "limit %d", limit)
			Expect(d).To(BeNil())
		}
	})

	It("closes after its frame limit", func() {
		d, err := NewFrameDisplay(systems.Viewport{Width: 64, Height: 48, DPR: 2}, 3)
		Expect(err).NotTo(HaveOccurred())
		var seen []int
		d.OnFrame = func(n int) { seen = append(seen, n) }

		for i, want := range []bool{true, true, false} {
			open, err := d.Refresh(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(open).To(Equal(want), "refresh %d", i)
		}
		Expect(seen).To(Equal([]int{0, 1, 2}))
		Expect(d.Frames()).To(Equal(3))

		b := d.ImageSurface().Image().Bounds()
		Expect(b.Dx()).To(Equal(128))
		Expect(b.Dy()).To(Equal(96))
	})

	It("writes PNG frames when driven by a loop", func() {
		g, err := New(testOptions(), systems.Viewport{Width: 320, Height: 240, DPR: 1})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(g.Close)

		dir := GinkgoT().TempDir()
		d, err := NewFrameDisplay(systems.Viewport{Width: 320, Height: 240, DPR: 1}, 2)
		Expect(err).NotTo(HaveOccurred())
		d.ImageSurface().Dir = dir
		d.ImageSurface().Pattern = "frame_%04d.png"

		Expect(NewLoop(g, 0).Run(context.Background(), d)).To(Succeed())
		for _, name := range []string{"frame_0000.png", "frame_0001.png"} {
			_, err := os.Stat(filepath.Join(dir, name))
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
