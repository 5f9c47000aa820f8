// Package genmedia generates cover stills and establishing shots for a
// premiere via Imagen and Veo.
package genmedia

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"recallgo/pkg/config"
	"recallgo/pkg/model"
	"recallgo/pkg/request"
	"recallgo/pkg/store"
	"recallgo/pkg/tracker"
)

// Generator creates image and video assets. Results are persisted by prompt
// hash so a repeated prompt is served from the store instead of re-billing
// the provider.
type Generator struct {
	genaiClient *genai.Client
	cfg         config.VideoConfig
	rc          *request.Client
	assets      store.AssetStore
	tracker     *tracker.Tracker
}

// New creates a new Generator around the shared genai client. A nil
// client disables provider calls; store hits still serve.
func New(cfg config.VideoConfig, client *genai.Client, rc *request.Client, assets store.AssetStore, t *tracker.Tracker) *Generator {
	g := &Generator{
		cfg:         cfg,
		genaiClient: client,
		rc:          rc,
		assets:      assets,
		tracker:     t,
	}
	if g.cfg.Model == "" {
		g.cfg.Model = "veo-3.0-generate-001"
	}
	if g.cfg.ImageModel == "" {
		g.cfg.ImageModel = "imagen-4.0-generate-001"
	}
	if g.cfg.PollInterval <= 0 {
		g.cfg.PollInterval = config.Duration(5 * time.Second)
	}
	if g.cfg.MaxAttempts <= 0 {
		g.cfg.MaxAttempts = 60
	}
	return g
}

// GenerateImage creates a cover still for the given prompt. The returned
// item carries the encoded image bytes inline.
func (g *Generator) GenerateImage(ctx context.Context, prompt, aspect string) (*model.MediaItem, error) {
	if aspect == "" {
		aspect = "16:9"
	}

	hash := promptHash("image", g.cfg.ImageModel, prompt, aspect)
	if item := g.fromStore(ctx, hash, "imagen"); item != nil {
		return item, nil
	}

	if g.genaiClient == nil {
		return nil, fmt.Errorf("genmedia not configured")
	}

	resp, err := g.genaiClient.Models.GenerateImages(ctx, g.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspect,
	})
	if err != nil {
		if g.tracker != nil {
			g.tracker.TrackAPIFailure("imagen")
		}
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		if g.tracker != nil {
			g.tracker.TrackAPIFailure("imagen")
		}
		return nil, fmt.Errorf("response contained no image part")
	}

	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	item := g.newItem(img.ImageBytes, mime)

	if g.tracker != nil {
		g.tracker.TrackAPISuccess("imagen")
	}
	g.persist(ctx, item, hash)
	return item, nil
}

// GenerateVideo creates a short establishing shot for the given prompt. The
// render job is polled until done; the poll is bounded and honours ctx.
func (g *Generator) GenerateVideo(ctx context.Context, prompt, aspect string) (*model.MediaItem, error) {
	if aspect == "" {
		aspect = "16:9"
	}

	hash := promptHash("video", g.cfg.Model, prompt, aspect)
	if item := g.fromStore(ctx, hash, "veo"); item != nil {
		return item, nil
	}

	if g.genaiClient == nil {
		return nil, fmt.Errorf("genmedia not configured")
	}

	op, err := g.genaiClient.Models.GenerateVideos(ctx, g.cfg.Model, prompt, nil, &genai.GenerateVideosConfig{
		AspectRatio: aspect,
	})
	if err != nil {
		if g.tracker != nil {
			g.tracker.TrackAPIFailure("veo")
		}
		return nil, fmt.Errorf("video generation failed: %w", err)
	}

	op, err = g.pollVideo(ctx, op)
	if err != nil {
		if g.tracker != nil {
			g.tracker.TrackAPIFailure("veo")
		}
		return nil, err
	}

	data, mime, err := g.extractVideo(ctx, op)
	if err != nil {
		if g.tracker != nil {
			g.tracker.TrackAPIFailure("veo")
		}
		return nil, err
	}

	item := g.newItem(data, mime)
	if g.tracker != nil {
		g.tracker.TrackAPISuccess("veo")
	}
	g.persist(ctx, item, hash)
	return item, nil
}

// pollVideo polls the render job every PollInterval until it completes, the
// attempt budget runs out, or ctx is cancelled.
func (g *Generator) pollVideo(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if op.Done {
			return op, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(g.cfg.PollInterval)):
		}

		var err error
		op, err = g.genaiClient.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return nil, fmt.Errorf("polling video job: %w", err)
		}
		slog.Debug("Video render poll", "attempt", attempt+1, "done", op.Done)
	}

	if !op.Done {
		return nil, fmt.Errorf("video render did not finish within %d attempts", g.cfg.MaxAttempts)
	}
	return op, nil
}

func (g *Generator) extractVideo(ctx context.Context, op *genai.GenerateVideosOperation) ([]byte, string, error) {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return nil, "", fmt.Errorf("response contained no video part")
	}

	video := op.Response.GeneratedVideos[0].Video
	mime := video.MIMEType
	if mime == "" {
		mime = "video/mp4"
	}

	if len(video.VideoBytes) > 0 {
		return video.VideoBytes, mime, nil
	}
	if video.URI == "" {
		return nil, "", fmt.Errorf("video part carries neither bytes nor URI")
	}

	// Hosted result: download through the request client so provider
	// queueing and backoff apply.
	data, err := g.rc.GetWithHeaders(ctx, video.URI, map[string]string{
		"x-goog-api-key": g.genaiClient.ClientConfig().APIKey,
	}, "")
	if err != nil {
		return nil, "", fmt.Errorf("downloading rendered video: %w", err)
	}
	return data, mime, nil
}

func (g *Generator) fromStore(ctx context.Context, hash, provider string) *model.MediaItem {
	if g.assets == nil {
		return nil
	}
	rec, err := g.assets.FindAssetByPrompt(ctx, hash)
	if err != nil || rec == nil {
		if g.tracker != nil {
			g.tracker.TrackCacheMiss(provider)
		}
		return nil
	}
	if g.tracker != nil {
		g.tracker.TrackCacheHit(provider)
	}
	slog.Debug("Generated asset served from store", "kind", rec.Kind, "id", rec.ID)
	return &model.MediaItem{
		ID:        rec.ID,
		URI:       "media://" + rec.ID,
		MimeType:  rec.MimeType,
		CreatedAt: rec.CreatedAt,
		Source:    model.ProvenanceGenerated,
		Data:      rec.Data,
	}
}

func (g *Generator) persist(ctx context.Context, item *model.MediaItem, hash string) {
	if g.assets == nil {
		return
	}
	if err := g.assets.SaveMediaAsset(ctx, item, hash); err != nil {
		slog.Warn("Failed to persist generated asset", "id", item.ID, "error", err)
	}
}

func (g *Generator) newItem(data []byte, mime string) *model.MediaItem {
	item := &model.MediaItem{
		ID:        uuid.NewString(),
		MimeType:  mime,
		CreatedAt: time.Now(),
		Source:    model.ProvenanceGenerated,
		Data:      data,
	}
	item.URI = "media://" + item.ID
	return item
}

// promptHash keys the asset store: same kind, model, prompt and aspect
// always map to the same asset.
func promptHash(kind, modelName, prompt, aspect string) string {
	h := sha256.Sum256([]byte(kind + "\x00" + modelName + "\x00" + prompt + "\x00" + aspect))
	return hex.EncodeToString(h[:])
}
