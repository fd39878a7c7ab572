// Package cli provides the upload command.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/evermediavault/vault-admin/internal/api"
	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/events"
	"github.com/evermediavault/vault-admin/internal/models"
	"github.com/evermediavault/vault-admin/internal/progress"
	"github.com/evermediavault/vault-admin/internal/upload"
)

// newUploadCmd creates the 'upload' command.
func newUploadCmd() *cobra.Command {
	var (
		providerID    int64
		categoryUID   string
		displayName   string
		metaFlags     []string
		perFile       bool
		maxConcurrent int
		quiet         bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file> [file...]",
		Short: "Upload files to the media vault",
		Long: `Upload one or more files as a single batch.

Every file shares the selected storage provider, the optional
category, and any metadata entries given with --meta. By default the
whole selection goes up as one request; --per-file sends each file
as its own transfer with bounded concurrency and per-file progress.

Metadata entries use name:type=value with type one of url, input,
text, number. An empty value is allowed for any type.

Examples:
  # Single file to provider 3
  vault-admin upload video.mp4 --provider 3

  # Batch with category and metadata
  vault-admin upload *.mp4 --provider 3 --category cat-news \
    --meta "source:url=https://example.com" --meta "year:number=2026"

  # Large selection, one transfer per file, 8 in flight
  vault-admin upload *.mkv --provider 3 --per-file --max-concurrent 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if providerID <= 0 {
				return fmt.Errorf("--provider is required")
			}
			if displayName != "" && len(args) > 1 {
				return fmt.Errorf("--name applies to a single file only, got %d files", len(args))
			}
			if maxConcurrent < constants.MinUploadConcurrency || maxConcurrent > constants.MaxUploadConcurrency {
				return fmt.Errorf("--max-concurrent must be between %d and %d, got %d",
					constants.MinUploadConcurrency, constants.MaxUploadConcurrency, maxConcurrent)
			}

			metadata, err := parseMetaFlags(metaFlags)
			if err != nil {
				return err
			}

			client, sess, err := newAPIClient()
			if err != nil {
				return err
			}
			if err := requireSession(sess); err != nil {
				return err
			}

			var reporter progress.Reporter = progress.NewCLIProgress()
			if quiet {
				reporter = progress.NewNoOpProgress()
			}

			if perFile {
				return runPerFileUpload(GetContext(), client, reporter, args, providerID, categoryUID, displayName, metadata, maxConcurrent)
			}
			return runBatchUpload(GetContext(), client, args, providerID, categoryUID, displayName, metadata)
		},
	}

	cmd.Flags().Int64Var(&providerID, "provider", 0, "Storage provider ID (required, see 'vault-admin providers')")
	cmd.Flags().StringVar(&categoryUID, "category", "", "Category UID (optional)")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name (single file only, default: file name)")
	cmd.Flags().StringArrayVar(&metaFlags, "meta", nil, "Metadata entry name:type=value (repeatable, applies to every file)")
	cmd.Flags().BoolVar(&perFile, "per-file", false, "One transfer per file instead of a single batched request")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", constants.DefaultUploadConcurrency,
		fmt.Sprintf("Maximum concurrent transfers with --per-file (%d-%d)",
			constants.MinUploadConcurrency, constants.MaxUploadConcurrency))
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the progress bar")

	return cmd
}

// parseMetaFlags parses repeated name:type=value metadata flags.
func parseMetaFlags(flags []string) ([]models.MetaEntry, error) {
	var entries []models.MetaEntry
	for _, raw := range flags {
		head, value, found := strings.Cut(raw, "=")
		if !found {
			return nil, fmt.Errorf("invalid --meta %q: expected name:type=value", raw)
		}
		name, typ, found := strings.Cut(head, ":")
		if !found {
			return nil, fmt.Errorf("invalid --meta %q: expected name:type=value", raw)
		}
		entries = append(entries, models.MetaEntry{
			Name:  strings.TrimSpace(name),
			Type:  models.MetaType(strings.TrimSpace(typ)),
			Value: value,
		})
	}
	return entries, nil
}

// buildBatch assembles the upload batch from the command line selection.
func buildBatch(paths []string, providerID int64, categoryUID, displayName string, metadata []models.MetaEntry) upload.Batch {
	batch := upload.Batch{ProviderID: providerID, CategoryUID: categoryUID}
	for _, path := range paths {
		batch.Items = append(batch.Items, upload.Item{
			Source:      upload.LocalFile(path),
			DisplayName: displayName,
			Metadata:    metadata,
		})
	}
	return batch
}

// runBatchUpload sends the whole selection as one multipart request.
func runBatchUpload(ctx context.Context, client *api.Client, paths []string, providerID int64, categoryUID, displayName string, metadata []models.MetaEntry) error {
	logger := GetLogger()
	batch := buildBatch(paths, providerID, categoryUID, displayName, metadata)

	body, contentType, err := upload.Encode(batch)
	if err != nil {
		return err
	}

	logger.Info().Int("files", len(batch.Items)).Int64("provider", providerID).Msg("Uploading batch")
	records, err := client.UploadBatch(ctx, body, contentType)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("Uploaded %d file(s):\n", len(records))
	for _, record := range records {
		fmt.Printf("  %d  %s\n", record.ID, record.Name)
	}
	return nil
}

// batchUploader adapts the transport client to the engine's per-item
// primitive: each item becomes its own single-entry batch request.
type batchUploader struct {
	client *api.Client
}

func (u batchUploader) UploadItem(ctx context.Context, providerID int64, categoryUID string, item upload.Item) (*models.FileRecord, error) {
	body, contentType, err := upload.Encode(upload.Batch{
		ProviderID:  providerID,
		CategoryUID: categoryUID,
		Items:       []upload.Item{item},
	})
	if err != nil {
		return nil, err
	}

	records, err := u.client.UploadBatch(ctx, body, contentType)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &api.Error{Kind: api.KindServer, Message: "upload response missing file record"}
	}
	return &records[0], nil
}

// runPerFileUpload drives the selection through the upload engine, one
// transfer per file, and reports per-item progress from the engine's
// events.
func runPerFileUpload(ctx context.Context, client *api.Client, reporter progress.Reporter, paths []string, providerID int64, categoryUID, displayName string, metadata []models.MetaEntry, maxConcurrent int) error {
	logger := GetLogger()

	engine := upload.NewEngine(batchUploader{client: client}, maxConcurrent)
	defer engine.Close()

	for _, path := range paths {
		if _, err := engine.Register(upload.LocalFile(path), displayName, metadata); err != nil {
			return err
		}
	}

	terminal := make(chan events.Event, len(paths))
	bus := engine.Events()
	for _, eventType := range []events.EventType{events.EventItemSucceeded, events.EventItemFailed} {
		ch := bus.Subscribe(eventType)
		go func() {
			for ev := range ch {
				terminal <- ev
			}
		}()
	}

	logger.Info().Int("files", engine.Count()).Int("max_concurrent", maxConcurrent).Msg("Uploading files")
	submission, err := engine.Submit(ctx, providerID, categoryUID)
	if err != nil {
		return err
	}

	reporter.Start(int64(len(paths)), "Uploading")
	done := make(chan struct{})
	go func() {
		defer close(done)
		var completed int64
		for range paths {
			ev, ok := <-terminal
			if !ok {
				return
			}
			completed++
			reporter.Update(completed)
			if failed, isFailure := ev.(*events.ItemFailedEvent); isFailure {
				reporter.Error(fmt.Errorf("%s: %v", failed.Outcome.Name, failed.Outcome.Err))
			}
		}
	}()

	result, err := submission.Wait(ctx)
	if err != nil {
		return err
	}
	<-done
	reporter.Finish()

	fmt.Printf("Uploaded %d of %d file(s) in %s\n",
		len(result.Successful), len(paths), result.Duration.Round(time.Millisecond))
	for _, outcome := range result.Successful {
		if outcome.Record != nil {
			fmt.Printf("  %d  %s\n", outcome.Record.ID, outcome.Record.Name)
		}
	}
	if len(result.Failed) > 0 {
		fmt.Printf("Failed %d file(s):\n", len(result.Failed))
		for _, outcome := range result.Failed {
			fmt.Printf("  %s: %v\n", outcome.Name, outcome.Err)
		}
		return fmt.Errorf("%d of %d file(s) failed", len(result.Failed), len(paths))
	}
	return nil
}
