package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/netpong/tui/internal/client"
	"github.com/netpong/tui/internal/config"
	"github.com/netpong/tui/internal/protocol"
	"github.com/netpong/tui/internal/servertest"
)

func headlessConfig(srv *servertest.Server) *config.Config {
	cfg := config.Default()
	cfg.Server.Host = srv.Host
	cfg.Server.Port = srv.Port
	cfg.Network.WriteTimeout = time.Second
	return cfg
}

type headlessRun struct {
	res matchResult
	err error
}

func startHeadless(t *testing.T, cfg *config.Config, autopilot bool) <-chan headlessRun {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	done := make(chan headlessRun, 1)
	go func() {
		res, err := runHeadless(ctx, cfg, nil, nil, autopilot)
		done <- headlessRun{res, err}
	}()
	return done
}

func TestHeadlessAutopilotPlaysToTheEnd(t *testing.T) {
	srv := servertest.NewTCP(t)
	done := startHeadless(t, headlessConfig(srv), true)
	peer := srv.Accept(t)

	peer.Write(`{"countdown":1}` + "\n")
	peer.Write(`{"paddles":{"0":100,"1":250},"ball":{"x":400,"y":500},"scores":[0,0]}` + "\n")

	got, err := peer.Read(time.Second)
	if err != nil {
		t.Fatalf("no command from autopilot: %v", err)
	}
	if !strings.HasPrefix(got, "DOWN") || strings.Contains(got, "UP") {
		t.Errorf("autopilot sent %q, want only DOWN", got)
	}

	peer.Write(`{"winner":0}` + "\n")
	select {
	case run := <-done:
		if run.err != nil {
			t.Fatalf("runHeadless() error: %v", run.err)
		}
		if !run.res.Won() || run.res.Frames < 3 {
			t.Errorf("result = %+v, want a win after 3 frames", run.res)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("headless run did not finish")
	}
}

func TestHeadlessReportsDisconnect(t *testing.T) {
	srv := servertest.NewTCP(t)
	done := startHeadless(t, headlessConfig(srv), false)
	peer := srv.Accept(t)
	peer.Close()

	select {
	case run := <-done:
		if !errors.Is(run.err, errConnectionLost) {
			t.Errorf("runHeadless() error = %v, want connection lost", run.err)
		}
		if run.res.Winner != protocol.WinnerDisconnected {
			t.Errorf("Winner = %d, want disconnect sentinel", run.res.Winner)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("headless run did not finish")
	}
}

func TestHeadlessCancelledWhileConnecting(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 1
	cfg.Network.DialTimeout = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := runHeadless(ctx, cfg, nil, nil, false)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("runHeadless() error = %v, want deadline exceeded", err)
	}
}

func TestFollow(t *testing.T) {
	tests := []struct {
		name string
		ball float64
		want client.Keys
	}{
		{"above", 50, client.Keys{Up: true}},
		{"below", 400, client.Keys{Down: true}},
		{"level", 155, client.Keys{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := protocol.Active{Paddles: [2]float64{100, 0}, Ball: protocol.Ball{Y: tt.ball}}
			if got := follow(a, 0); got != tt.want {
				t.Errorf("follow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
