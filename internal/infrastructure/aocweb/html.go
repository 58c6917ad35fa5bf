package aocweb

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/doeshing/aocenv/internal/domain"
)

// articleText returns the plain text of the first <article> element.
func articleText(body string) (string, bool, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("parse response: %w", err)
	}
	article := findFirst(doc, "article")
	if article == nil {
		return "", false, nil
	}
	var sb strings.Builder
	collectText(article, &sb)
	return strings.Join(strings.Fields(sb.String()), " "), true, nil
}

// renderArticles converts every puzzle <article> into markdown.
func renderArticles(body string) (string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse puzzle page: %w", err)
	}
	var parts []string
	walk(doc, func(n *html.Node) bool {
		if isElement(n, "article") {
			r := &markdown{}
			r.block(n)
			if text := strings.TrimSpace(r.String()); text != "" {
				parts = append(parts, text)
			}
			return false
		}
		return true
	})
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

var dayHref = regexp.MustCompile(`/(\d+)/day/(\d+)$`)

// calendarStars reads the year calendar: links classed calendar-complete
// carry one star, calendar-verycomplete two.
func calendarStars(body string, year int) ([]domain.PuzzleKey, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	seen := map[domain.PuzzleKey]bool{}
	walk(doc, func(n *html.Node) bool {
		if !isElement(n, "a") {
			return true
		}
		m := dayHref.FindStringSubmatch(attr(n, "href"))
		if m == nil {
			return true
		}
		linkYear, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if linkYear != year || day < domain.FirstDay || day > domain.LastDay {
			return true
		}
		stars := 0
		for _, class := range strings.Fields(attr(n, "class")) {
			switch class {
			case "calendar-verycomplete":
				stars = 2
			case "calendar-complete":
				if stars < 1 {
					stars = 1
				}
			}
		}
		for p := 1; p <= stars; p++ {
			seen[domain.PuzzleKey{Year: year, Day: day, Part: domain.Part(p)}] = true
		}
		return true
	})

	keys := make([]domain.PuzzleKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Day != keys[j].Day {
			return keys[i].Day < keys[j].Day
		}
		return keys[i].Part < keys[j].Part
	})
	return keys, nil
}

type markdown struct {
	strings.Builder
}

func (m *markdown) block(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			m.inlineText(c.Data)
		case isElement(c, "h2"):
			m.paragraph("## " + m.inline(c))
		case isElement(c, "p"):
			m.paragraph(m.inline(c))
		case isElement(c, "pre"):
			var sb strings.Builder
			collectText(c, &sb)
			m.paragraph("```\n" + strings.TrimRight(sb.String(), "\n") + "\n```")
		case isElement(c, "ul"), isElement(c, "ol"):
			var items []string
			for li := c.FirstChild; li != nil; li = li.NextSibling {
				if isElement(li, "li") {
					items = append(items, "- "+m.inline(li))
				}
			}
			m.paragraph(strings.Join(items, "\n"))
		case c.Type == html.ElementNode:
			m.block(c)
		}
	}
}

func (m *markdown) paragraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if m.Len() > 0 {
		m.WriteString("\n\n")
	}
	m.WriteString(text)
}

func (m *markdown) inlineText(text string) {
	if strings.TrimSpace(text) != "" {
		m.paragraph(text)
	}
}

func (m *markdown) inline(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			sb.WriteString(c.Data)
		case isElement(c, "code"):
			sb.WriteString("`" + m.inline(c) + "`")
		case isElement(c, "em"):
			sb.WriteString("*" + m.inline(c) + "*")
		case isElement(c, "a"):
			href := attr(c, "href")
			if href == "" {
				sb.WriteString(m.inline(c))
			} else {
				sb.WriteString("[" + m.inline(c) + "](" + href + ")")
			}
		case c.Type == html.ElementNode:
			sb.WriteString(m.inline(c))
		}
	}
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if isElement(c, tag) {
			found = c
			return false
		}
		return true
	})
	return found
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
