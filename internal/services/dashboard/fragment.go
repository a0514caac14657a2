package dashboard

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// FragmentOptions controls how model output is prepared for the dashboard
type FragmentOptions struct {
	RenderMarkdown bool // Render fragments without any HTML element as markdown
	Sanitize       bool // Drop active content and event handlers
}

var (
	htmlElementPattern = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9]*(\s[^>]*)?/?>`)
	unsafeSelectors    = "script, style, iframe, frame, frameset, object, embed, link, meta, base, form"
)

// NormalizeFragment prepares an analysis fragment for insertion into the
// dashboard. Empty input stays empty.
func NormalizeFragment(fragment string, opts FragmentOptions) (string, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return "", nil
	}

	if opts.RenderMarkdown && !htmlElementPattern.MatchString(fragment) {
		rendered, err := renderMarkdown(fragment)
		if err != nil {
			return "", err
		}
		fragment = rendered
	}

	if opts.Sanitize {
		return sanitize(fragment)
	}
	return fragment, nil
}

func renderMarkdown(markdown string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // GitHub Flavored Markdown (tables, strikethrough, etc.)
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// sanitize removes active content from a fragment and unwraps any
// html/head/body document structure the model may have produced
func sanitize(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse analysis fragment: %w", err)
	}

	doc.Find(unsafeSelectors).Remove()

	doc.Find("*").Each(func(i int, sel *goquery.Selection) {
		var drop []string
		for _, attr := range sel.Nodes[0].Attr {
			key := strings.ToLower(attr.Key)
			value := strings.ToLower(strings.TrimSpace(attr.Val))
			if strings.HasPrefix(key, "on") {
				drop = append(drop, attr.Key)
			} else if (key == "href" || key == "src") && strings.HasPrefix(value, "javascript:") {
				drop = append(drop, attr.Key)
			}
		}
		for _, key := range drop {
			sel.RemoveAttr(key)
		}
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialise analysis fragment: %w", err)
	}
	return strings.TrimSpace(body), nil
}
