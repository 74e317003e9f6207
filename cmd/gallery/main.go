package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weddingshare/weddingshare_server/internal/gallery"
)

func main() {
	serverURL := flag.String("server", envOr("GALLERY_SERVER", "http://localhost:3002"), "media store base URL")
	lang := flag.String("lang", envOr("LANG", "en"), "interface language (en or tr)")
	verbose := flag.Bool("v", false, "log transport errors")
	flag.Usage = printUsage
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	translator := gallery.NewTranslator(*lang)
	client := gallery.NewClient(*serverURL)
	state := gallery.NewGallery(translator)
	ctx := context.Background()

	switch args[0] {
	case "list", "gallery":
		state.Load(ctx, client)
		if err := gallery.Render(os.Stdout, state, translator, *serverURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to render gallery")
		}
		if state.Err() != "" {
			os.Exit(1)
		}
	case "upload":
		os.Exit(upload(ctx, client, state, translator, *serverURL, args[1:]))
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func upload(ctx context.Context, client *gallery.Client, state *gallery.Gallery, t *gallery.Translator, serverURL string, paths []string) int {
	if len(paths) == 0 {
		fmt.Println("upload requires at least one file")
		return 1
	}

	// seed the local gallery the same way the gallery page does on load
	state.Load(ctx, client)

	fmt.Printf("%s\n\n", t.T(gallery.KeyUploadTitle))

	files := make([]gallery.File, 0, len(paths))
	failed := 0
	for _, path := range paths {
		file, err := gallery.FileFromPath(path)
		if err != nil {
			fmt.Println(err)
			failed++
			continue
		}
		files = append(files, file)
	}

	var mu sync.Mutex
	lastPercent := make(map[int]int)
	uploader := gallery.NewUploader(client, state, t)
	results := uploader.UploadAll(ctx, files, func(index int, p gallery.Progress) {
		mu.Lock()
		defer mu.Unlock()
		percent := p.Percent()
		// print in 10% steps
		if prev, ok := lastPercent[index]; ok && percent/10 == prev/10 {
			return
		}
		lastPercent[index] = percent
		fmt.Println(t.T(gallery.KeyUploadProgress, files[index].Name, percent))
	})

	for _, result := range results {
		if result.Message != "" {
			fmt.Println(result.Message)
			failed++
			continue
		}
		fmt.Println(t.T(gallery.KeyUploadDone, result.File.Name))
	}

	fmt.Println()
	if err := gallery.Render(os.Stdout, state, t, serverURL); err != nil {
		log.Error().Err(err).Msg("Failed to render gallery")
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func printUsage() {
	fmt.Println(`Usage: gallery [flags] <command> [args]

Commands:
  list              show the shared gallery, newest first
  upload FILE...    upload photos and videos
  help              show this help

Flags:`)
	flag.PrintDefaults()
}
