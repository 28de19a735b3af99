package copywriter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"
)

const promptTemplate = "You are a professional e-commerce copywriter. Write a compelling, brief, and enticing " +
	"product description for the following product. Product Name: %s Keywords to include: %s. " +
	"The description should be a single paragraph, no more than 4 sentences."

// Fallback is the placeholder returned whenever generation is unavailable.
func Fallback(productName, keywords string) string {
	return fmt.Sprintf("(Demo) AI-generated description for %s with keywords: %s. "+
		"Feature is disabled or the server proxy is unavailable.", productName, keywords)
}

type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Writer drafts product descriptions through a generateContent endpoint.
// It never fails: every error path yields Fallback.
type Writer struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Writer {
	return &Writer{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (w *Writer) Enabled() bool {
	return w.cfg.APIKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (w *Writer) Generate(ctx context.Context, productName, keywords string) string {
	fallback := Fallback(productName, keywords)
	if !w.Enabled() {
		return fallback
	}
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	url := strings.TrimRight(w.cfg.Endpoint, "/") + "/models/" + w.cfg.Model + ":generateContent"
	body := generateRequest{Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, productName, keywords)}}}}}

	var (
		out  generateResponse
		code int
	)
	err := gout.New(w.client).
		POST(url).
		WithContext(ctx).
		SetQuery(gout.H{"key": w.cfg.APIKey}).
		SetJSON(body).
		BindJSON(&out).
		Code(&code).
		Do()
	if err != nil {
		zap.L().Warn("description generation failed", zap.String("product", productName), zap.Error(err))
		return fallback
	}
	if code < 200 || code > 299 {
		zap.L().Warn("description generation rejected", zap.String("product", productName), zap.Int("status", code))
		return fallback
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return fallback
	}
	return text
}
