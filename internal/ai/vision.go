package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"lecture-rag-backend/utils"
)

// ImageDescriber generates text descriptions for raster images using a
// vision-capable Gemini model.
type ImageDescriber struct {
	client *genai.Client
	model  string
}

func NewImageDescriber(ctx context.Context, apiKey, model string) (*ImageDescriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for image description")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &ImageDescriber{client: client, model: model}, nil
}

// Describe sends one image to the vision model and returns its description.
func (d *ImageDescriber) Describe(ctx context.Context, image []byte) (string, error) {
	format := utils.SniffImageFormat(image)
	if format == "" {
		return "", fmt.Errorf("unsupported image format")
	}

	model := d.client.GenerativeModel(d.model)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, image),
		genai.Text("Describe this image"),
	)
	if err != nil {
		return "", err
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty description from vision model")
	}
	return strings.TrimSpace(text), nil
}

// DescribeAll describes images one at a time, in order.
// Any failure aborts the batch.
func (d *ImageDescriber) DescribeAll(ctx context.Context, images [][]byte) ([]string, error) {
	descriptions := make([]string, 0, len(images))
	for i, img := range images {
		desc, err := d.Describe(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("describe image %d: %w", i, err)
		}
		descriptions = append(descriptions, desc)
	}
	return descriptions, nil
}

func (d *ImageDescriber) Close() error {
	return d.client.Close()
}
