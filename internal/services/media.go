package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	genaisdk "google.golang.org/genai"

	"marina-frontdesk/internal/models"
)

// MediaStudio produces the spoken reply and room pictures for rich turns.
type MediaStudio struct {
	client      *genaisdk.Client
	speechModel string
	voice       string
	imageModel  string
}

func NewMediaStudio(ctx context.Context, apiKey, speechModel, voice, imageModel string) (*MediaStudio, error) {
	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		APIKey:  apiKey,
		Backend: genaisdk.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &MediaStudio{
		client:      client,
		speechModel: speechModel,
		voice:       voice,
		imageModel:  imageModel,
	}, nil
}

// Synthesize returns the audio the TTS model produced for text, as raw bytes plus MIME type
// (Gemini TTS answers with 24kHz 16-bit PCM).
func (m *MediaStudio) Synthesize(ctx context.Context, text string) (*models.Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	config := &genaisdk.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genaisdk.SpeechConfig{
			VoiceConfig: &genaisdk.VoiceConfig{
				PrebuiltVoiceConfig: &genaisdk.PrebuiltVoiceConfig{
					VoiceName: m.voice,
				},
			},
		},
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.speechModel, genaisdk.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &models.Audio{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}, nil
			}
		}
	}
	return nil, fmt.Errorf("speech model returned no audio")
}

// Generate renders one image for prompt and decodes it.
func (m *MediaStudio) Generate(ctx context.Context, prompt string) (image.Image, error) {
	resp, err := m.client.Models.GenerateImages(ctx, m.imageModel, prompt, &genaisdk.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("image model returned no images")
	}

	img, _, err := image.Decode(bytes.NewReader(resp.GeneratedImages[0].Image.ImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}
	return img, nil
}
