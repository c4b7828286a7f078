package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"ytmanifest/collection"
	"ytmanifest/config"
	"ytmanifest/export"
	httpx "ytmanifest/http"
	"ytmanifest/retry"
	"ytmanifest/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export":
		cmdExport(args)
	case "list":
		cmdList(args)
	case "resolve":
		cmdResolve(args)
	case "check-key":
		cmdCheckKey(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytmanifest - convert YouTube links and playlists to a Name@URL manifest

Usage:
  ytmanifest export [flags] <url-or-playlist>...  Resolve inputs and write the manifest
  ytmanifest list <playlist>                      Resolve a playlist and print its entries
  ytmanifest resolve <url>                        Resolve a single video URL
  ytmanifest check-key                            Validate the configured API key
  ytmanifest help                                 Show this help message

Examples:
  ytmanifest export PLxxxxxxxxxxxxxxxxxx                      # Whole playlist
  ytmanifest export -name mylist -prefix https://proxy/ <url> # Prefixed URLs
  ytmanifest export -thumbnails -dir out <url> <url>          # With thumbnails
  ytmanifest export -names names.txt PLxxxxxxxxxxxxxxxxxx     # Custom names (index=Name lines)
  ytmanifest list PLxxxxxxxxxxxxxxxxxx                        # Preview a playlist

The API key is read from YTMANIFEST_API_KEY, ytmanifest.json, or -key.

For help on specific command: ytmanifest <command> -h
`)
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	key := fs.String("key", "", "API key override")
	name := fs.String("name", "", "Manifest base name (without extension)")
	prefix := fs.String("prefix", "", "String prepended to every URL")
	dir := fs.String("dir", "", "Output directory")
	thumbnails := fs.Bool("thumbnails", false, "Also download thumbnail images")
	removeInvalid := fs.Bool("remove-invalid", false, "Drop invalid links before export")
	namesFile := fs.String("names", "", "File with index=Custom Name lines for playlist entries")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmanifest export [flags] <url-or-playlist>...\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing url or playlist\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	applyFlagOverrides(cfg, *key, *name, *prefix, *dir, *thumbnails, *removeInvalid)

	overrides, err := parseNamesFile(*namesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading -names file: %v\n", err)
		os.Exit(1)
	}

	store, _ := buildStore(cfg)
	ctx := context.Background()

	for _, arg := range argv {
		switch {
		case youtube.IsVideoURL(arg):
			if !store.AddLink(ctx, arg, "") {
				fmt.Fprintf(os.Stderr, "Warning: could not resolve %s\n", arg)
			}
		case isPlaylistRef(arg):
			fmt.Fprintf(os.Stderr, "Fetching playlist %s...\n", arg)
			pending, err := store.ResolvePlaylist(ctx, arg)
			if err != nil && pending == nil {
				fmt.Fprintf(os.Stderr, "Warning: could not resolve playlist %s: %v\n", arg, err)
				continue
			}
			added := store.CommitPending(pending.Token, overrides)
			fmt.Fprintf(os.Stderr, "Added %d videos\n", added)
		default:
			if !store.AddLink(ctx, arg, "") {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s (not a recognizable link)\n", arg)
			}
		}
	}

	if cfg.RemoveInvalidLinks {
		if n := store.RemoveInvalid(); n > 0 {
			fmt.Fprintf(os.Stderr, "Removed %d invalid links\n", n)
		}
	}

	if store.Len() == 0 {
		fmt.Fprintf(os.Stderr, "Error: nothing to export\n")
		os.Exit(1)
	}

	exporter := export.NewExporter(store, newFetcher(cfg))
	exporter.OutputDir = cfg.OutputDir

	fileName, err := exporter.Export(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s.txt (%d entries)\n", fileName, store.Len())
	if cfg.DownloadThumbnails {
		fmt.Fprintf(os.Stderr, "Downloaded %d thumbnails\n", store.ThumbnailsDownloaded())
	}
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	key := fs.String("key", "", "API key override")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmanifest list [flags] <playlist>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing playlist\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	applyFlagOverrides(cfg, *key, "", "", "", false, false)
	_, client := buildStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Fetching playlist %s...\n", argv[0])
	videos, err := client.PlaylistVideos(ctx, argv[0])
	if err != nil && len(videos) == 0 {
		fmt.Fprintf(os.Stderr, "Error fetching playlist: %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: playlist resolved partially: %v\n", err)
	}

	if len(videos) == 0 {
		fmt.Println("No videos found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tVIDEO ID\tTITLE")
	for i, v := range videos {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, v.ID, truncate(v.Title, 60))
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "\nTotal: %d videos\n", len(videos))
}

func cmdResolve(args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	key := fs.String("key", "", "API key override")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmanifest resolve [flags] <url>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing url\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg := loadConfig()
	applyFlagOverrides(cfg, *key, "", "", "", false, false)
	_, client := buildStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	video, err := client.VideoInfo(ctx, argv[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving video: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ID:        %s\n", video.ID)
	fmt.Printf("Title:     %s\n", video.Title)
	fmt.Printf("URL:       %s\n", video.URL)
	fmt.Printf("Thumbnail: %s\n", video.ThumbnailURL)
}

func cmdCheckKey(args []string) {
	fs := flag.NewFlagSet("check-key", flag.ExitOnError)
	key := fs.String("key", "", "API key override")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytmanifest check-key [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	applyFlagOverrides(cfg, *key, "", "", "", false, false)
	store, _ := buildStore(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if store.ValidateAPIKey(ctx) {
		fmt.Println("API key is valid.")
		return
	}
	fmt.Fprintln(os.Stderr, "API key is invalid (or quota exceeded).")
	os.Exit(1)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func applyFlagOverrides(cfg *config.Config, key, name, prefix, dir string, thumbnails, removeInvalid bool) {
	if key != "" {
		cfg.APIKey = key
	}
	if name != "" {
		cfg.FileName = name
	}
	if prefix != "" {
		cfg.Prefix = prefix
	}
	if dir != "" {
		cfg.OutputDir = dir
	}
	if thumbnails {
		cfg.DownloadThumbnails = true
	}
	if removeInvalid {
		cfg.RemoveInvalidLinks = true
	}
}

// buildStore wires the catalog client and collection store from config.
func buildStore(cfg *config.Config) (*collection.Store, *youtube.Client) {
	client, err := youtube.NewClient(cfg.APIKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (set YTMANIFEST_API_KEY or use -key)\n", err)
		os.Exit(1)
	}
	client.RetryConfig = retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: 0.2,
	}

	store := collection.NewStore(client)
	store.SetPrefix(cfg.Prefix)
	store.SetFileName(cfg.FileName)
	store.SetRemoveInvalidLinks(cfg.RemoveInvalidLinks)
	store.SetDownloadThumbnails(cfg.DownloadThumbnails)
	store.SetUseCustomNames(cfg.UseCustomNames)
	return store, client
}

// newFetcher builds the thumbnail fetcher from config.
func newFetcher(cfg *config.Config) *youtube.ThumbnailFetcher {
	httpCfg := httpx.DefaultConfig()
	httpCfg.Timeout = cfg.HTTPTimeout
	return youtube.NewThumbnailFetcher(httpx.New(httpCfg))
}

// isPlaylistRef reports whether arg looks like a playlist reference rather
// than a single video or generic link.
func isPlaylistRef(arg string) bool {
	_, ok := youtube.ExtractPlaylistID(arg)
	return ok
}

// parseNamesFile reads "index=Custom Name" lines. Blank lines and lines
// starting with # are ignored.
func parseNamesFile(path string) (map[int]string, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	overrides := make(map[int]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx, name, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected index=Name", lineNo)
		}
		i, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad index %q", lineNo, idx)
		}
		overrides[i] = strings.TrimSpace(name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return overrides, nil
}

// truncate shortens s to at most maxLen characters, counting runes so
// multi-byte titles are never split mid-character.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
