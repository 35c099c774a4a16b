// Command example serves simulated maze sessions on a TCP port so the bot can be run
// against it locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/beka-birhanu/vinom-bot/config"
	logger "github.com/beka-birhanu/vinom-bot/infrastruture/log"
	"github.com/beka-birhanu/vinom-bot/simulator"
)

func main() {
	addr := flag.String("addr", "localhost:8000", "listen address")
	size := flag.Int("size", 10, "maze width and height")
	rounds := flag.Int("rounds", 3, "mazes per session")
	seed := flag.Int64("seed", 1, "maze seed")
	flag.Parse()

	simLogger, err := logger.New("SIMULATOR", config.ColorMagenta, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		simLogger.Error(fmt.Sprintf("listening on %s: %v", *addr, err))
		os.Exit(1)
	}
	context.AfterFunc(ctx, func() { listener.Close() })
	simLogger.Info(fmt.Sprintf("serving mazes on %s", *addr))

	for sessionSeed := *seed; ; sessionSeed++ {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() == nil {
				simLogger.Error(fmt.Sprintf("accepting connection: %v", err))
			}
			return
		}

		srv := simulator.New(simulator.Config{
			Size:   *size,
			Rounds: *rounds,
			Seed:   sessionSeed,
			Logger: simLogger,
		})
		go func() {
			if _, err := srv.Serve(ctx, conn); err != nil {
				simLogger.Warning(fmt.Sprintf("session ended: %v", err))
			}
		}()
	}
}
