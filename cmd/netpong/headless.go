package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/netpong/tui/internal/client"
	"github.com/netpong/tui/internal/config"
	"github.com/netpong/tui/internal/logging"
	"github.com/netpong/tui/internal/metrics"
	"github.com/netpong/tui/internal/protocol"
	"github.com/netpong/tui/internal/views/court"
)

// errConnectionLost is returned when the match ended because the stream did.
var errConnectionLost = errors.New("connection lost")

func headlessCmd(flags *globalFlags) *cobra.Command {
	var autopilot bool

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Play without a UI, logging the match to stderr",
		Long: `Connect without a terminal UI. The client retries back to back until
the server answers, then logs each phase change until the match ends.

With --autopilot the paddle follows the ball.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			logPath := ""
			if cmd.Flags().Changed("log-file") {
				logPath = cfg.Log.File
			}
			log, err := logging.New(logPath, cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer log.Sync()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			m := startMetrics(ctx, cfg, log)

			res, err := runHeadless(ctx, cfg, log, m, autopilot)
			if err != nil {
				return err
			}
			if res.Won() {
				fmt.Println("You won!")
			} else {
				fmt.Println("You lost.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autopilot, "autopilot", false, "Move the paddle toward the ball")

	return cmd
}

// matchResult is how a headless match ended.
type matchResult struct {
	PlayerID int
	Winner   int
	Frames   uint64
}

func (r matchResult) Won() bool { return r.Winner == r.PlayerID }

// runHeadless connects with the blocking retry and follows the match at the
// configured tick rate until a Finished snapshot arrives.
func runHeadless(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics, autopilot bool) (matchResult, error) {
	log = logging.OrNop(log)
	mgr := client.NewManagerFromConfig(cfg, log, m)

	s, err := mgr.ConnectBlocking(ctx, cfg.Server.Host, cfg.Server.Port)
	if err != nil {
		return matchResult{}, fmt.Errorf("connect %s: %w", cfg.Addr(), err)
	}
	defer s.Close()
	s.Start()

	log = log.With(zap.Int("player", s.PlayerID()))
	sender := client.NewInputSender(s, log, m)
	res := matchResult{PlayerID: s.PlayerID()}

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	var (
		lastSeq   uint64
		lastPhase protocol.Phase
		snap      protocol.Snapshot
	)
	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-ticker.C:
		}

		next, seq, ok := s.Store().Read()
		if ok && seq != lastSeq {
			lastSeq = seq
			snap = next
			if snap.Phase() != lastPhase {
				lastPhase = snap.Phase()
				log.Info("phase", zap.Stringer("phase", lastPhase))
			}
		}

		switch v := snap.(type) {
		case protocol.Finished:
			res.Winner = v.Winner
			res.Frames, _ = s.Stats()
			log.Info("match finished", zap.Int("winner", v.Winner), zap.Uint64("frames", res.Frames))
			if v.Disconnected() {
				return res, errConnectionLost
			}
			return res, nil
		case protocol.Active:
			if !autopilot {
				continue
			}
			if _, err := sender.Send(follow(v, s.PlayerID())); err != nil {
				return res, err
			}
		}
	}
}

// deadZone keeps the autopilot from jittering around the ball.
const deadZone = 10.0

// follow moves the paddle centre toward the ball.
func follow(a protocol.Active, slot int) client.Keys {
	centre := a.Paddles[slot] + court.PaddleHeight/2
	return client.Keys{
		Up:   a.Ball.Y < centre-deadZone,
		Down: a.Ball.Y > centre+deadZone,
	}
}
