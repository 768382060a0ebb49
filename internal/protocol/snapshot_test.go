package protocol

import (
	"errors"
	"testing"
)

func TestParseSnapshot(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Snapshot
	}{
		{
			name: "countdown",
			in:   `{"countdown":3}`,
			want: Countdown{Remaining: 3},
		},
		{
			name: "countdown wins over winner",
			in:   `{"countdown":1,"winner":0}`,
			want: Countdown{Remaining: 1},
		},
		{
			name: "zero countdown falls through to active",
			in:   `{"countdown":0,"paddles":{"0":10,"1":20},"ball":{"x":5,"y":6},"scores":[0,0],"sound_event":null}`,
			want: Active{Paddles: [2]float64{10, 20}, Ball: Ball{X: 5, Y: 6}},
		},
		{
			name: "winner",
			in:   `{"winner":1}`,
			want: Finished{Winner: 1},
		},
		{
			name: "disconnect sentinel",
			in:   `{"winner":-1}`,
			want: Finished{Winner: WinnerDisconnected},
		},
		{
			name: "null winner is not finished",
			in:   `{"winner":null,"scores":[2,1]}`,
			want: Active{Scores: [2]int{2, 1}},
		},
		{
			name: "full active",
			in:   `{"paddles":{"0":250.5,"1":100},"ball":{"x":400,"y":300},"scores":[3,5],"sound_event":"platform_hit"}`,
			want: Active{
				Paddles: [2]float64{250.5, 100},
				Ball:    Ball{X: 400, Y: 300},
				Scores:  [2]int{3, 5},
				Sound:   SoundPaddleHit,
			},
		},
		{
			name: "partial active keeps defaults",
			in:   `{"scores":[1,0]}`,
			want: Active{Scores: [2]int{1, 0}},
		},
		{
			name: "wall hit",
			in:   `{"sound_event":"wall_hit"}`,
			want: Active{Sound: SoundWallHit},
		},
		{
			name: "unknown sound is silent",
			in:   `{"sound_event":"explosion","scores":[0,0]}`,
			want: Active{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSnapshot([]byte(tt.in))
			if err != nil {
				t.Fatalf("ParseSnapshot() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSnapshot() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseSnapshotRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{"scores":`},
		{"array", `[1,2]`},
		{"null", `null`},
		{"empty object", `{}`},
		{"unknown fields only", `{"hello":"world"}`},
		{"winner out of range", `{"winner":7}`},
		{"three scores", `{"scores":[1,2,3]}`},
		{"third paddle", `{"paddles":{"0":1,"2":3}}`},
		{"string score", `{"scores":["a","b"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSnapshot([]byte(tt.in))
			if err == nil {
				t.Fatalf("ParseSnapshot(%s) = %#v, want error", tt.in, got)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("error %T is not a *DecodeError", err)
			}
		})
	}
}

func TestPhase(t *testing.T) {
	if (Countdown{}).Phase() != PhaseCountdown || (Active{}).Phase() != PhaseActive || (Finished{}).Phase() != PhaseFinished {
		t.Error("phase mismatch")
	}
	if !(Finished{Winner: WinnerDisconnected}).Disconnected() {
		t.Error("sentinel winner should report Disconnected")
	}
	if PhaseActive.String() != "active" {
		t.Errorf("PhaseActive.String() = %q", PhaseActive.String())
	}
}
