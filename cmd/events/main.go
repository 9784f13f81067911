// events แสดง task events จาก NATS (tasks.>) แบบ realtime
//
//	go run ./cmd/events -subject tasks.deadline_approaching
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	natspkg "todoai/infrastructure/nats"
	"todoai/pkg/config"
)

func main() {
	subject := flag.String("subject", natspkg.SubjectAll, "subject to follow")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := natspkg.NewClient(natspkg.ClientConfig{URL: cfg.NATS.URL})
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer client.Close()

	sub := natspkg.NewSubscriber(client.Conn())
	enc := json.NewEncoder(os.Stdout)
	sub.OnEvent(func(msg *natspkg.TaskEventMessage) {
		if err := enc.Encode(msg); err != nil {
			fmt.Fprintln(os.Stderr, "encode:", err)
		}
	})

	if err := sub.Start(*subject); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Stop()

	fmt.Fprintf(os.Stderr, "Following %s on %s (Ctrl+C to stop)\n", *subject, cfg.NATS.URL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
