// lobd drives a limitbook/internal/lob.Book from the textual front-end
// described in §6.2, either by replaying a file/stdin to completion or by
// serving it over a line-oriented TCP listener.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"limitbook/internal/driver"
	"limitbook/internal/textproto"
)

func main() {
	listen := flag.String("listen", "", "serve the textual protocol on this address (e.g. 0.0.0.0:9001); if empty, replay stdin/-file and exit")
	file := flag.String("file", "", "read textual records from this file instead of stdin (ignored with -listen)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *listen != "" {
		d := driver.New(log, os.Stdout)
		srv := driver.NewServer(*listen, d, log)
		if err := srv.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
		return
	}

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("unable to open input file")
		}
		defer f.Close()
		in = f
	}

	d := driver.New(log, os.Stdout)
	sc := textproto.NewScanner(in)
	if err := d.Run(sc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
