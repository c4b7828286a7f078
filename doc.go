// Package ytmanifest converts YouTube video links and playlists into a
// plain-text Name@URL manifest.
//
// Overview
//
// ytmanifest resolves video and playlist references through the YouTube Data
// API, keeps them in an ordered collection, and exports the collection as one
// manifest line per entry:
//
//	<display name>@<prefix><watch URL>
//
// The manifest is written atomically as <fileName>.txt; thumbnails can be
// exported alongside it as <display name>.jpg files.
//
// Quick Start
//
// Resolve a playlist and export it:
//
//	client, err := youtube.NewClient(os.Getenv("YTMANIFEST_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	store := collection.NewStore(client)
//	store.LoadPlaylist(ctx, "PLxxxxxxxxxxxxxxxxxx")
//
//	exporter := export.NewExporter(store, youtube.NewThumbnailFetcher(nil))
//	fileName, err := exporter.Export(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(fileName + ".txt")
//
// Configuration
//
// ytmanifest loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytmanifest.json or ~/.config/ytmanifest/ytmanifest.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YTMANIFEST_API_KEY: YouTube Data API key
//   - YTMANIFEST_PREFIX: String prepended to every exported URL
//   - YTMANIFEST_FILE_NAME: Manifest base name (default "urls")
//   - YTMANIFEST_OUTPUT_DIR: Directory artifacts are written into
//   - YTMANIFEST_REMOVE_INVALID_LINKS: Drop invalid links before export (true/false)
//   - YTMANIFEST_DOWNLOAD_THUMBNAILS: Also write thumbnail images (true/false)
//   - YTMANIFEST_USE_CUSTOM_NAMES: Hold playlist loads for a naming flow (true/false)
//   - YTMANIFEST_MAX_RETRIES: Maximum retry attempts
//   - YTMANIFEST_INITIAL_BACKOFF: Initial retry backoff duration
//   - YTMANIFEST_MAX_BACKOFF: Maximum retry backoff duration
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
//	if errors.Is(err, ytmanifest.ErrVideoNotFound) {
//		fmt.Println("Video not found")
//	}
//
//	var clientErr *ytmanifest.ClientError
//	if errors.As(err, &clientErr) {
//		fmt.Printf("%s failed: %v\n", clientErr.Op, clientErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Identifier extraction, catalog lookups, thumbnail fetching
//   - collection: Ordered collection store with the export lock
//   - export: Manifest rendering and artifact writing
//   - config: Configuration management
//   - storage: Atomic file writes and advisory file locks
//   - retry: Exponential backoff retry logic
//
package ytmanifest
