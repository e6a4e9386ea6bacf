// telemetry-sim plays the role of an instrumented React Native runtime:
// it dials the monitor's telemetry websocket, streams FPS/stall samples
// and finishes with a synthetic profile export. Useful for demos and
// manual testing without a device.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	var (
		url      = flag.String("url", "ws://localhost:9091/api/telemetry/ws", "telemetry websocket endpoint")
		duration = flag.Duration("duration", 30*time.Second, "how long to stream samples")
		interval = flag.Duration("interval", 500*time.Millisecond, "sample interval")
		hz       = flag.Int("hz", 60, "frame budget preset (60 or 120)")
		janky    = flag.Bool("janky", false, "simulate a struggling app (low fps, long stalls, slow commits)")
	)
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *url, err)
		os.Exit(1)
	}
	defer conn.Close()

	send := func(v any) {
		if err := conn.WriteJSON(v); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
	}

	send(map[string]any{"type": "capture_start", "hz": *hz})
	fmt.Printf("streaming samples to %s for %s\n", *url, *duration)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	deadline := time.After(*duration)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-stop:
			break loop
		case <-deadline:
			break loop
		case <-ticker.C:
			fps := 55 + rand.Float64()*5
			stall := rand.Float64() * 5
			if *janky {
				fps = 30 + rand.Float64()*15
				stall = 20 + rand.Float64()*80
			}
			send(map[string]any{"type": "sample", "fps": fps, "jsStallsMs": stall})
		}
	}

	send(map[string]any{"type": "profile", "document": syntheticProfile(*janky)})
	send(map[string]any{"type": "capture_stop"})
	// give the server a beat to run the terminal pass before closing
	time.Sleep(200 * time.Millisecond)
	fmt.Println("done")
}

// syntheticProfile fabricates a profile export in the shape the React
// DevTools profiler emits, with a mix of fast and slow commits.
func syntheticProfile(janky bool) json.RawMessage {
	type updater struct {
		DisplayName string `json:"displayName"`
	}
	type commit struct {
		Timestamp             float64   `json:"timestamp"`
		Duration              float64   `json:"duration"`
		EffectDuration        float64   `json:"effectDuration"`
		PassiveEffectDuration float64   `json:"passiveEffectDuration"`
		Priority              string    `json:"priority"`
		Updaters              []updater `json:"updaters"`
	}

	names := []string{"FeedList", "StoryCard", "Avatar", "Composer", "TabBar"}
	priorities := []string{"Immediate", "Normal", "Idle"}
	commits := make([]commit, 0, 40)
	ts := 0.0
	for i := 0; i < 40; i++ {
		dur := 4 + rand.Float64()*8
		if janky && i%4 == 0 {
			dur = 20 + rand.Float64()*30
		}
		ts += 100 + rand.Float64()*200
		commits = append(commits, commit{
			Timestamp:             ts,
			Duration:              dur,
			EffectDuration:        dur * 0.2,
			PassiveEffectDuration: dur * 0.1,
			Priority:              priorities[rand.Intn(len(priorities))],
			Updaters:              []updater{{DisplayName: names[rand.Intn(len(names))]}},
		})
	}

	doc := map[string]any{
		"version": 5,
		"dataForRoots": []map[string]any{
			{"displayName": "App", "commitData": commits},
		},
		"profilingStartTime": 0,
		"profilingEndTime":   ts,
	}
	raw, _ := json.Marshal(doc)
	return raw
}
