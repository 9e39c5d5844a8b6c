package transfer

import (
	"context"
	"io"
	"strings"

	"github.com/hugh/linkstash/internal/bookmarks"
	"golang.org/x/net/html"
)

type ImportRecord struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportRecords creates one bookmark per record through the regular create
// path; records without a title or url, or colliding with an existing URL in
// the same visibility partition, count as failed. Imported rows are private
// for regular users and public for guests, which Create pins automatically.
func (s *Service) ImportRecords(ctx context.Context, requester bookmarks.Identity, records []ImportRecord) ImportResult {
	var result ImportResult
	for _, rec := range records {
		if rec.Title == "" || rec.URL == "" {
			result.Failed++
			continue
		}
		_, err := s.bookmarks.Create(ctx, requester, bookmarks.CreateInput{
			Title:       rec.Title,
			URL:         rec.URL,
			Description: rec.Description,
		})
		if err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result
}

// ParseNetscape extracts bookmark records from a Netscape bookmark file.
// These files are structurally sloppy HTML (unclosed DT/DD elements), which
// the html package's forgiving parser absorbs.
func ParseNetscape(r io.Reader) ([]ImportRecord, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var records []ImportRecord
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			rec := ImportRecord{
				Title: strings.TrimSpace(textContent(n)),
				URL:   attr(n, "href"),
			}
			if dd := nextElement(n); dd != nil && dd.Data == "dd" {
				rec.Description = strings.TrimSpace(textContent(dd))
			}
			if rec.URL != "" {
				records = append(records, rec)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return records, nil
}

// ImportNetscape parses a bookmark file and feeds the records through
// ImportRecords.
func (s *Service) ImportNetscape(ctx context.Context, requester bookmarks.Identity, r io.Reader) (ImportResult, error) {
	records, err := ParseNetscape(r)
	if err != nil {
		return ImportResult{}, err
	}
	return s.ImportRecords(ctx, requester, records), nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// nextElement returns the next element sibling, looking one level up when
// the parser closed the anchor's parent first. In a parsed Netscape file the
// DD for a DT ends up as the DT's sibling.
func nextElement(n *html.Node) *html.Node {
	for cur := n.NextSibling; cur != nil; cur = cur.NextSibling {
		if cur.Type == html.ElementNode {
			return cur
		}
	}
	if n.Parent != nil && n.Parent.Data == "dt" {
		for cur := n.Parent.NextSibling; cur != nil; cur = cur.NextSibling {
			if cur.Type == html.ElementNode {
				return cur
			}
		}
	}
	return nil
}
