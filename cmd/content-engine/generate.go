// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-engine/internal/brief"
	"github.com/pdiddy/content-engine/internal/chunkstore"
	"github.com/pdiddy/content-engine/internal/imagegen"
	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the full generation pipeline for an event brief",
	Long: `Generate runs the retrieve-draft-evaluate-verify loop for an event brief
and exports a content bundle with clean copy, a quality scorecard, a
claims table, and a full audit trail.

The brief comes from a YAML file (--brief) or from flags. An OpenAI API
key is required (completion.api_key, CONTENT_ENGINE_COMPLETION_API_KEY,
or .secrets/openai-api-key). A Gemini key enables per-channel images;
without one the image stage is skipped.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	b, err := briefFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := pipelineConfig(cmd)

	backend, err := llm.NewOpenAIBackend(cfg.Completion)
	if err != nil {
		return err
	}

	store, err := chunkstore.Open(cfg.ChunkStore)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	var images imagegen.Generator
	if cfg.Images.APIKey != "" {
		gen, err := imagegen.NewGenAIGenerator(ctx, cfg.Images)
		if err != nil {
			return fmt.Errorf("configuring image generation: %w", err)
		}
		images = gen
	} else {
		fmt.Fprintln(os.Stderr, "No Gemini API key; image generation disabled")
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p := pipeline.New(backend, store, images, cfg, logger)

	req := pipeline.Request{
		EventTitle:       b.Title,
		EventDescription: b.Description,
		EventDate:        b.Date,
		TargetAudience:   b.Audience,
		KeyMessages:      b.KeyMessages,
		Channels:         b.Channels,
		RelevantURLs:     b.URLs,
		Progress:         printProgress,
	}

	out, err := p.Run(ctx, req)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	path, err := writeOutput(out, cfg.OutputDir, format)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s complete: %d channel(s), %d iteration(s)\n",
		out.Audit.RunID, len(out.Content), out.Scorecard.Iterations)
	fmt.Printf("Output written to %s\n", path)
	return nil
}

// briefFromFlags assembles the event brief from --brief or individual
// flags. The two sources are exclusive; a file wins.
func briefFromFlags(cmd *cobra.Command) (*brief.Brief, error) {
	if path, _ := cmd.Flags().GetString("brief"); path != "" {
		return brief.Load(path)
	}

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	date, _ := cmd.Flags().GetString("date")
	audience, _ := cmd.Flags().GetString("audience")
	messages, _ := cmd.Flags().GetStringArray("message")
	channels, _ := cmd.Flags().GetStringSlice("channel")
	urlLines, _ := cmd.Flags().GetStringArray("url")

	b := &brief.Brief{
		Title:       title,
		Description: description,
		Date:        date,
		Audience:    audience,
		KeyMessages: messages,
		URLs:        brief.ParseURLs(strings.Join(urlLines, "\n")),
	}
	for _, ch := range channels {
		b.Channels = append(b.Channels, types.Channel(strings.ToLower(strings.TrimSpace(ch))))
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// pipelineConfig merges viper config (file and environment) with flag
// overrides into the run configuration.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("completion.model")
	}
	indexDir, _ := cmd.Flags().GetString("index-dir")
	if indexDir == "" {
		indexDir = viper.GetString("chunk_store.index_dir")
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}
	if outputDir == "" {
		outputDir = "output"
	}

	return types.PipelineConfig{
		Completion: types.AIConfig{
			Model:      model,
			APIKey:     secretDefault("openai-api-key", viper.GetString("completion.api_key")),
			BaseURL:    viper.GetString("completion.base_url"),
			MaxRetries: viper.GetInt("completion.max_retries"),
		},
		ChunkStore: types.ChunkStoreConfig{
			IndexDir: indexDir,
			TopK:     viper.GetInt("chunk_store.top_k"),
		},
		Images: types.ImageConfig{
			APIKey: secretDefault("gemini-api-key", viper.GetString("images.api_key")),
			Model:  viper.GetString("images.model"),
		},
		OutputDir: outputDir,
	}
}

// printProgress writes stage transitions to stderr as they happen.
func printProgress(step string, info pipeline.StepInfo, iteration int) {
	if strings.HasSuffix(step, "_done") {
		return
	}
	if iteration > 0 && step == "draft" {
		fmt.Fprintf(os.Stderr, "[%d/3] %s\n", iteration+1, info.Description)
		return
	}
	fmt.Fprintf(os.Stderr, "%s...\n", info.Description)
}

// writeOutput writes the content bundle to the output directory, images
// alongside under images/, and returns the bundle path.
func writeOutput(out *types.FinalOutput, outputDir, format string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var (
		data []byte
		err  error
		ext  string
	)
	switch format {
	case "json":
		data, err = json.MarshalIndent(out, "", "  ")
		ext = "json"
	case "yaml", "":
		data, err = yaml.Marshal(out)
		ext = "yaml"
	default:
		return "", fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return "", fmt.Errorf("encoding output: %w", err)
	}

	path := filepath.Join(outputDir, out.Audit.RunID+"."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}

	if len(out.Images) > 0 {
		imageDir := filepath.Join(outputDir, "images")
		if err := os.MkdirAll(imageDir, 0o755); err != nil {
			return "", fmt.Errorf("creating image directory: %w", err)
		}
		for channel, img := range out.Images {
			name := fmt.Sprintf("%s_%s.png", out.Audit.RunID, channel)
			if err := os.WriteFile(filepath.Join(imageDir, name), img, 0o644); err != nil {
				return "", fmt.Errorf("writing %s image: %w", channel, err)
			}
		}
	}

	return path, nil
}

func init() {
	generateCmd.Flags().String("brief", "", "path to an event brief YAML file")
	generateCmd.Flags().String("title", "", "event title (alternative to --brief)")
	generateCmd.Flags().String("description", "", "event description")
	generateCmd.Flags().String("date", "", "event date, free-form")
	generateCmd.Flags().String("audience", "", "target audience")
	generateCmd.Flags().StringArray("message", nil, "key message (repeatable)")
	generateCmd.Flags().StringSlice("channel", nil, "target channels: linkedin, facebook, email, web")
	generateCmd.Flags().StringArray("url", nil, "reference link as 'Label | URL' (repeatable)")
	generateCmd.Flags().String("model", "", "completion model identifier")
	generateCmd.Flags().String("index-dir", "", "chunk index directory (default corpus/index)")
	generateCmd.Flags().String("output-dir", "", "directory for exported bundles (default output)")
	generateCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(generateCmd)
}
