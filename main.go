package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MehanazMI/tea-stall-bench/pipeline/agents"
	"github.com/MehanazMI/tea-stall-bench/pipeline/archive"
	"github.com/MehanazMI/tea-stall-bench/pipeline/director"
	configx "github.com/MehanazMI/tea-stall-bench/pkg/config"
	_ "github.com/MehanazMI/tea-stall-bench/pkg/logger/autoload"
	openrouterx "github.com/MehanazMI/tea-stall-bench/pkg/openrouter"
	searchx "github.com/MehanazMI/tea-stall-bench/pkg/search"
	whatsappx "github.com/MehanazMI/tea-stall-bench/pkg/whatsapp"
	"github.com/MehanazMI/tea-stall-bench/server"
)

func main() {
	topic := flag.String("topic", "", "run a single pipeline for this topic and print the result as JSON")
	contentType := flag.String("content-type", "", "content type for -topic mode")
	style := flag.String("style", "", "writing style for -topic mode")
	length := flag.String("length", "", "content length for -topic mode")
	channel := flag.String("channel", "", "target channel for -topic mode")
	flag.String("env", "", "path to .env file")
	flag.Parse()

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	generator := openrouterx.MustNew(*openRouterCfg)

	searchCfg := configx.MustNew[searchx.Config]("SEARCH")
	provider := searchx.NewProvider(*searchCfg)

	researcher, err := agents.NewResearchAgent(generator, provider)
	if err != nil {
		log.Fatal().Err(err).Msg("research agent init failed")
	}
	outliner, err := agents.NewOutlineAgent(generator)
	if err != nil {
		log.Fatal().Err(err).Msg("outline agent init failed")
	}
	writer, err := agents.NewWriterAgent(generator)
	if err != nil {
		log.Fatal().Err(err).Msg("writer agent init failed")
	}

	d, err := director.New(researcher, outliner, writer)
	if err != nil {
		log.Fatal().Err(err).Msg("director init failed")
	}

	if *topic != "" {
		runOnce(d, *topic, *contentType, *style, *length, *channel)
		return
	}

	whatsappCfg := configx.MustNew[whatsappx.Config]("WHATSAPP")
	channelClient := whatsappx.MustNew(*whatsappCfg)

	publisher, err := agents.NewPublisherAgent(channelClient)
	if err != nil {
		log.Fatal().Err(err).Msg("publisher agent init failed")
	}

	// The run archive is optional: no DSN means no persistence.
	var runs *archive.Store
	archiveCfg := configx.MustNew[archive.Config]("ARCHIVE")
	if archiveCfg.DSN != "" {
		runs, err = archive.New(context.Background(), *archiveCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("run archive init failed")
		}
		defer runs.Close()
	}

	serverCfg := configx.MustNew[server.Config]("SERVER")
	srv, err := server.New(d, writer, publisher, runs, *serverCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// runOnce executes one pipeline from the command line and prints the full
// run context as JSON.
func runOnce(d *director.Director, topic, contentType, style, length, channel string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pc, err := d.RunPipeline(ctx, director.Request{
		Topic:       topic,
		ContentType: contentType,
		Style:       style,
		Length:      length,
		Channel:     channel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	out, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode run context")
	}
	fmt.Println(string(out))

	if !pc.Completed() {
		os.Exit(1)
	}
}
