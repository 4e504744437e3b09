package editorial

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotConfigured signals a missing provider credential.
	ErrNotConfigured = errors.New("openai api key is not configured")
)

const (
	textModel       = "gpt-4.1-mini"
	imageModel      = "gpt-image-1"
	textTemperature = 0.7
	maxOutputTokens = 1500
	imageSize       = "1024x1024"
	imageQuality    = "high"

	textTimeout  = 120 * time.Second
	imageTimeout = 180 * time.Second
)

// ImagePayload carries a generated illustration for a post.
type ImagePayload struct {
	Data     []byte
	Mimetype string
	Filename string
}

// ArticleGenerator turns a topic into article markup and, best-effort, an
// illustration. Article failure aborts a publish cycle; image failure must
// only cost the image.
type ArticleGenerator interface {
	GenerateArticle(ctx context.Context, topicIndex int, topic Topic, dateLabel string) (string, error)
	GenerateImage(ctx context.Context, topicIndex int, topic Topic, day time.Time) (*ImagePayload, error)
}

// OpenAIGenerator implements ArticleGenerator against the OpenAI APIs.
type OpenAIGenerator struct {
	client   *OpenAIClient
	calendar *Calendar
}

// NewOpenAIGenerator creates the production generator.
func NewOpenAIGenerator(apiKey string, calendar *Calendar) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:   NewOpenAIClient(apiKey),
		calendar: calendar,
	}
}

// systemPrompt renders the editorial persona plus the full numbered rotation,
// so the model keeps each article consistent with the rest of the calendar.
func (g *OpenAIGenerator) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You are the editorial AI for Voloskyi Saffron, crafting SEO and geo-optimised blog articles for readers across Ukraine and the wider European Union.\n")
	b.WriteString("Maintain an evergreen 30-day editorial calendar and loop it indefinitely:\n")
	b.WriteString(g.calendar.numberedLines())
	b.WriteString("\n\nEditorial guidelines:\n")
	b.WriteString("- Write in English with subtle localisation cues for Central and Eastern Europe.\n")
	b.WriteString("- Prioritise health benefits, culinary applications, and premium positioning of saffron grown or curated by Voloskyi Saffron.\n")
	b.WriteString("- Include an engaging meta description under 160 characters labelled \"Meta Description:\" near the top.\n")
	b.WriteString("- Produce structured HTML (no <html> or <body> tags). Start with a single <article> element containing one <h1> title, multiple <h2>/<h3> sections, bullet lists, key takeaways, and an FAQ block.\n")
	b.WriteString("- Highlight relevant SEO keywords naturally and reference major European markets when appropriate.\n")
	b.WriteString("- Finish with a persuasive call-to-action that nudges readers to explore Voloskyi Saffron products or contact the team.")
	return b.String()
}

func articlePrompt(topicIndex int, topic Topic) string {
	return fmt.Sprintf(
		"Produce today's article for the Voloskyi Saffron blog. "+
			"Focus on topic #%d: %s — %s. "+
			"Incorporate long-tail keywords for premium saffron buyers in Europe, "+
			"mention Ukrainian provenance where relevant, and ensure the article remains evergreen. "+
			"Return only HTML as described.",
		topicIndex+1, topic.Title, topic.Angle,
	)
}

func imagePrompt(topic Topic) string {
	return fmt.Sprintf(
		"Elegant editorial photograph illustrating %s with premium saffron threads, warm natural light, "+
			"fine dining styling, no people, no text, high-resolution.",
		strings.ToLower(topic.Title),
	)
}

// GenerateArticle produces the article markup for a topic. Empty provider
// output counts as a failure.
func (g *OpenAIGenerator) GenerateArticle(ctx context.Context, topicIndex int, topic Topic, dateLabel string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, textTimeout)
	defer cancel()

	_ = dateLabel // the date goes into the post title, not the prompt
	text, err := g.client.GenerateText(ctx, textModel, g.systemPrompt(), articlePrompt(topicIndex, topic), textTemperature, maxOutputTokens)
	if err != nil {
		return "", fmt.Errorf("generate article text: %w", err)
	}
	return text, nil
}

// GenerateImage produces the illustration for a topic. Callers treat any
// error as "publish without an image".
func (g *OpenAIGenerator) GenerateImage(ctx context.Context, topicIndex int, topic Topic, day time.Time) (*ImagePayload, error) {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	raw, err := g.client.GenerateImage(ctx, imageModel, imagePrompt(topic), imageSize, imageQuality)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	return &ImagePayload{
		Data:     raw,
		Mimetype: "image/png",
		Filename: fmt.Sprintf("blog-%s-%d.png", day.Format("2006-01-02"), topicIndex+1),
	}, nil
}
