// ABOUTME: Entry point for the playhead audio player
// ABOUTME: Wires demuxer, stream processor, shared clock and device output
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Playhead-Media/playhead-go/internal/clock"
	"github.com/Playhead-Media/playhead-go/internal/ffmpeg"
	"github.com/Playhead-Media/playhead-go/internal/player"
	"github.com/Playhead-Media/playhead-go/internal/stream"
	"github.com/Playhead-Media/playhead-go/internal/ui"
	"github.com/Playhead-Media/playhead-go/internal/version"
)

var (
	input       = flag.String("input", "", "Input file or URL to play")
	volume      = flag.Int("volume", 100, "Playback volume (0-100)")
	queueDepth  = flag.Int("queue-depth", stream.DefaultQueueDepth, "Encoded packet queue depth")
	dropPackets = flag.Bool("drop", false, "Drop packets when the queue is full instead of blocking")
	showSkew    = flag.Bool("skew", false, "Print the audio clock skew while playing")
	useTUI      = flag.Bool("tui", false, "Show the interactive status display")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: playhead -input <file>")
		os.Exit(2)
	}

	src, err := ffmpeg.OpenSource(*input)
	if err != nil {
		log.Fatalf("Opening %s failed: %v", *input, err)
	}
	defer src.Close()

	policy := stream.PolicyBlock
	if *dropPackets {
		policy = stream.PolicyDrop
	}

	out := player.NewOutput()
	out.SetVolume(*volume)

	proc := stream.NewProcessor(src.Decoder(), out, clock.New(), stream.Options{
		StreamIndex: src.StreamIndex(),
		StreamID:    src.StreamID(),
		TimeBase:    src.TimeBase(),
		QueueDepth:  *queueDepth,
		QueuePolicy: policy,
	})

	if err := out.Initialize(proc.Caps()); err != nil {
		log.Fatalf("Initializing audio output failed: %v", err)
	}
	defer out.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return src.ReadLoop(ctx, func(pkt stream.InputPacket) bool {
			return proc.Enqueue(ctx, pkt)
		})
	})

	g.Go(func() error {
		// Playback is over once the end-of-stream marker is processed.
		defer cancel()
		return proc.Run(ctx)
	})

	if *useTUI {
		runTUI(ctx, cancel, g, proc, out)
	} else if *showSkew {
		g.Go(func() error {
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					fmt.Printf("frames: %8d  a/v skew: %+2.3f\r", out.Frames(), proc.ClockSkew())
				}
			}
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatalf("Playback failed: %v", err)
	}
}

// runTUI starts the interactive status display and bridges its control
// channels to the output device.
func runTUI(ctx context.Context, cancel context.CancelFunc, g *errgroup.Group, proc *stream.Processor, out *player.Output) {
	ctrl := ui.NewControls()
	prog := ui.Run(*input, proc.Caps(), ctrl)

	g.Go(func() error {
		_, err := prog.Run()
		cancel()
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				prog.Send(ui.StatusMsg{Frames: out.Frames(), Skew: proc.ClockSkew(), Done: true})
				prog.Quit()
				return nil
			case <-ctrl.Quit:
				cancel()
			case change := <-ctrl.Volume:
				out.SetVolume(change.Volume)
				out.SetMuted(change.Muted)
			case <-ticker.C:
				prog.Send(ui.StatusMsg{Frames: out.Frames(), Skew: proc.ClockSkew()})
			}
		}
	})
}
